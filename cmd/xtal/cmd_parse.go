package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xtal/format"
	"github.com/dhamidi/xtal/project"
	"github.com/dhamidi/xtal/xtal/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var errorLimit int

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Parse a source file and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			data, name, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			proj, err := project.Load()
			if err != nil {
				return err
			}

			opts := proj.ParseOptions(name)
			if errorLimit > 0 {
				opts = append(opts, parser.WithErrorLimit(errorLimit))
			}
			node, parseErr := parser.ParseFile(data, opts...)
			if node != nil {
				if err := enc.Encode(node); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			}
			if parseErr != nil {
				printErrors(cmd.ErrOrStderr(), parseErr)
				return fmt.Errorf("parse %s failed", name)
			}
			return nil
		},
	}
	cmd.SilenceUsage = true

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format ("+strings.Join(format.Names(), ", ")+")")
	cmd.Flags().IntVar(&errorLimit, "error-limit", 0, "diagnostics to collect before giving up (default from project config)")

	return cmd
}
