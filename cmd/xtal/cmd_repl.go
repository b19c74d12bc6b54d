package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xtal/format"
	"github.com/dhamidi/xtal/xtal/parser"
)

func newReplCmd() *cobra.Command {
	var outputFormat string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read statements from stdin and print their syntax trees",
		Long: `Read statements line by line. Input that ends in the middle of a
statement is kept and completed by the following lines.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			r := &repl{
				enc:  enc,
				errw: cmd.ErrOrStderr(),
			}
			if !quiet {
				r.prompt = cmd.ErrOrStderr()
			}
			return r.run(cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "compact", "output format")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print prompts")

	return cmd
}

type repl struct {
	enc    format.Encoder
	errw   io.Writer
	prompt io.Writer // nil disables prompts

	buf  []byte
	line int // input line of buf[0]
}

func (r *repl) run(in io.Reader) error {
	r.line = 1
	scanner := bufio.NewScanner(in)
	r.showPrompt()
	for scanner.Scan() {
		r.buf = append(r.buf, scanner.Bytes()...)
		r.buf = append(r.buf, '\n')
		if err := r.flush(); err != nil {
			return err
		}
		r.showPrompt()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if len(bytes.TrimSpace(r.buf)) > 0 {
		// input ended inside a statement
		_, err := parser.ParseFile(r.buf, parser.WithFile("<stdin>"), parser.WithStartLine(r.line))
		if err != nil {
			printErrors(r.errw, err)
		}
	}
	return nil
}

func (r *repl) showPrompt() {
	if r.prompt == nil {
		return
	}
	if len(bytes.TrimSpace(r.buf)) > 0 {
		fmt.Fprint(r.prompt, ". ")
	} else {
		fmt.Fprint(r.prompt, "> ")
	}
}

// flush prints every complete statement in the buffer and keeps the
// unfinished tail for the next line. A statement with a real error is
// reported and the buffer discarded.
func (r *repl) flush() error {
	p := parser.New(r.buf, parser.WithFile("<stdin>"), parser.WithStartLine(r.line))
	consumed := 0
	for {
		unit, err := p.ParseStatement()
		if err != nil {
			var list parser.ErrorList
			if errors.As(err, &list) && list.Incomplete() {
				r.consume(consumed)
				return nil
			}
			printErrors(r.errw, err)
			r.consume(len(r.buf))
			return nil
		}
		if len(unit.Children) == 0 {
			r.consume(len(r.buf))
			return nil
		}
		if err := r.enc.Encode(unit.Children[0]); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		consumed = unit.Span.End.Offset
	}
}

func (r *repl) consume(n int) {
	r.line += bytes.Count(r.buf[:n], []byte{'\n'})
	r.buf = append(r.buf[:0], r.buf[n:]...)
}
