package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE:  versionHandler,
	}
	cmd.Flags().StringP("output", "o", "text", "output format (text, json)")
	return cmd
}

func versionHandler(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	out := cmd.OutOrStdout()
	if strings.ToLower(format) == "json" {
		info, err := marshalJSON(map[string]any{
			"version": version,
			"commit":  commit,
			"date":    date,
		}, useColor(out))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(info))
	} else {
		fmt.Fprintln(out, version)
	}
	return nil
}

// marshalJSON indents v, adding color only when color is true.
func marshalJSON(v any, color bool) ([]byte, error) {
	if color {
		return prettyjson.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
