package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/bfi"
	"github.com/deepnoodle-ai/bfi/errz"
)

// problem is the JSON form of one check finding.
type problem struct {
	Index   int    `json:"index"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

func newCheckCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Report every unbalanced bracket in a program",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.checkHandler,
	}
	addCodeFlags(cmd)
	cmd.Flags().StringP("output", "o", "text", "output format (text, json)")
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (a *app) checkHandler(cmd *cobra.Command, args []string) error {
	code, filename, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	format = strings.ToLower(format)
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown output format: %s", format)
	}

	checkErr := bfi.Check(code, bfi.WithFilename(filename))
	var found []error
	var merr *multierror.Error
	if errors.As(checkErr, &merr) {
		found = merr.Errors
	} else if checkErr != nil {
		found = []error{checkErr}
	}
	a.logger.Debug().Int("problems", len(found)).Msg("check finished")

	out := cmd.OutOrStdout()
	if format == "json" {
		problems := make([]problem, 0, len(found))
		for _, e := range found {
			problems = append(problems, toProblem(e))
		}
		data, err := marshalJSON(problems, useColor(out))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else if len(found) == 0 {
		fmt.Fprintln(out, "ok")
	}

	if len(found) == 0 {
		return nil
	}
	if format == "json" {
		return fmt.Errorf("found %d unbalanced bracket(s)", len(found))
	}
	return checkErr
}

func toProblem(err error) problem {
	var serr *errz.StructuredError
	if !errors.As(err, &serr) {
		return problem{Index: -1, Message: err.Error()}
	}
	return problem{
		Index:   serr.Index,
		Line:    serr.Location.Line,
		Column:  serr.Location.Column,
		Message: serr.Message,
	}
}
