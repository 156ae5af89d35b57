package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/dhamidi/ymp/ebnf/grammar"
	"github.com/dhamidi/ymp/ebnf/parse"
	"github.com/dhamidi/ymp/ebnflex"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ebnf",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfTokensCmd())
	cmd.AddCommand(newEbnfParseCmd())

	return cmd
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check [file]",
		Short:         "Parse and verify an EBNF grammar file (default: the ymp grammar)",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := grammar.Filename
			var r io.Reader = bytes.NewReader(grammar.Source())
			if len(args) == 1 {
				filename = args[0]
				f, err := os.Open(filename)
				if err != nil {
					return fmt.Errorf("open file: %w", err)
				}
				defer f.Close()
				r = f
			} else if !cmd.Flags().Changed("start") {
				startProduction = grammar.Start
			}

			g, err := ebnf.Parse(filename, r)
			if err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return err
			}

			if startProduction != "" {
				if err := ebnf.Verify(g, startProduction); err != nil {
					printErrors(cmd.OutOrStdout(), err)
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d productions ok\n", filename, len(g))
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

// grammarFlags selects the grammar, start production and token
// productions used to read a source file.
type grammarFlags struct {
	file   string
	start  string
	tokens []string
}

func (gf *grammarFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&gf.file, "grammar", "", "EBNF grammar file (default: the ymp grammar)")
	cmd.Flags().StringVar(&gf.start, "start", grammar.Start, "start production")
	cmd.Flags().StringSliceVar(&gf.tokens, "tokens", grammar.TokenProductions, "productions scanned as whole tokens")
}

func (gf *grammarFlags) load() (ebnf.Grammar, error) {
	if gf.file == "" {
		return grammar.Load()
	}
	f, err := os.Open(gf.file)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return grammar.Parse(gf.file, f, gf.start)
}

func newEbnfTokensCmd() *cobra.Command {
	var gf grammarFlags

	cmd := &cobra.Command{
		Use:   "tokens <source>",
		Short: "Tokenize a source file with a grammar's token productions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := gf.load()
			if err != nil {
				return err
			}
			input, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}

			tokens, err := ebnflex.NewLexer(g, gf.start, gf.tokens, input, args[0]).Tokenize()
			if err != nil {
				return fmt.Errorf("tokenize: %w", err)
			}
			for _, tok := range tokens {
				fmt.Fprintln(cmd.OutOrStdout(), tok)
			}
			return nil
		},
	}

	gf.register(cmd)

	return cmd
}

func newEbnfParseCmd() *cobra.Command {
	var gf grammarFlags

	cmd := &cobra.Command{
		Use:   "parse <source>",
		Short: "Check that a source file is a sentence of a grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := gf.load()
			if err != nil {
				return err
			}
			input, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}

			if err := parse.ParseFile(g, gf.start, gf.tokens, input, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}

	gf.register(cmd)

	return cmd
}

// printErrors prints each entry of an ebnf.ErrorList on its own line.
func printErrors(w io.Writer, err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}
