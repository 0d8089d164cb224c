package main

import (
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/bfi"
	"github.com/deepnoodle-ai/bfi/dis"
)

func newDisCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble a program",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.disHandler,
	}
	addCodeFlags(cmd)
	cmd.Flags().StringP("output", "o", dis.FormatTable, "output format (table, json, yaml)")
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{dis.FormatTable, dis.FormatJSON, dis.FormatYAML}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (a *app) disHandler(cmd *cobra.Command, args []string) error {
	code, filename, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	prog, err := bfi.Compile(code, bfi.WithFilename(filename))
	if err != nil {
		return err
	}
	a.logger.Debug().Int("instructions", prog.Len()).Msg("disassembling")

	format, _ := cmd.Flags().GetString("output")
	out := cmd.OutOrStdout()
	return dis.Encode(dis.Disassemble(prog), format, useColor(out), out)
}
