package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xtal/xtal/grammar"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "EBNF grammar tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(grammar.Source())
			return err
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarMatchCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:          "check [file]",
		Short:        "Parse and verify an EBNF grammar (the built-in one by default)",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				g, err := grammar.Load()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d productions, %d terminals\n", len(g), len(grammar.Terminals(g)))
				return nil
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open grammar: %w", err)
			}
			defer f.Close()

			g, err := grammar.Parse(args[0], f, start)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d productions\n", len(g))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newGrammarMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "match <production> <text>",
		Short:        "Match text against a lexical production of the built-in grammar",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Load()
			if err != nil {
				return err
			}
			production, text := args[0], args[1]
			n, err := grammar.NewMatcher(g).Match(production, []byte(text))
			if err != nil {
				return err
			}
			if n < 0 {
				return fmt.Errorf("%s does not match %q", production, text)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%q\t%s\n", production, text[:n], strings.TrimSpace(text[n:]))
			return nil
		},
	}
}
