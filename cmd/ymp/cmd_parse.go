package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/ymp/format"
	"github.com/dhamidi/ymp/ymp/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a source file and dump the parse tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}

			p := parser.New(parser.NewLexer(data, filename), parser.WithFile(filename))
			tree := p.ParseFunction()

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				if err := format.NewASTJSONEncoder(out).Encode(tree); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "tree":
				fmt.Fprint(out, parser.String(tree))
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			for _, line := range p.Errors() {
				fmt.Fprintln(cmd.ErrOrStderr(), line)
			}
			if p.HasErrors() {
				return ErrDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")

	return cmd
}
