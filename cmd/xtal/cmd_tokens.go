package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xtal/format"
	"github.com/dhamidi/xtal/xtal/parser"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file|->",
		Short: "Print the token stream with adjacency flags",
		Long: `Print one token per line as "line:col  category  kind  value  flags".
Flags are L (whitespace on the left), R (whitespace on the right) and
N (first token on its line).`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			tokens, tokErr := parser.Tokenize(data, parser.WithFile(name))
			if err := format.NewTokenLineEncoder(cmd.OutOrStdout()).Encode(tokens); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if tokErr != nil {
				printErrors(cmd.ErrOrStderr(), tokErr)
				return fmt.Errorf("tokenize %s failed", name)
			}
			return nil
		},
	}
}
