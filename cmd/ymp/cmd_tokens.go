package main

import (
	"fmt"

	"github.com/dhamidi/ymp/format"
	"github.com/dhamidi/ymp/ymp"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var tableOnly bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream with token table ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ymp.CheckFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if tableOnly {
				for _, e := range res.Tokens.Entries() {
					fmt.Fprintf(out, "%d\t%s\t%s\n", e.ID, e.Token.Kind, e.Token.Text)
				}
				return nil
			}

			if err := format.NewTokenLineEncoder(out).Encode(res); err != nil {
				return fmt.Errorf("encode tokens: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&tableOnly, "table", false, "print each distinct token once, in id order")

	return cmd
}
