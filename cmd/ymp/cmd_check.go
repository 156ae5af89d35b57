package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/dhamidi/ymp/format"
	"github.com/dhamidi/ymp/ymp"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

// ErrDiagnostics is returned when a command ran to completion but reported
// syntax or semantic errors.
var ErrDiagnostics = errors.New("diagnostics reported")

func newCheckCmd() *cobra.Command {
	var jobs int
	var showSymbols bool
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse and analyze source files and print a report for each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := commonlog.GetLogger("ymp.cli")

			if jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1, got %d", jobs)
			}

			results := make([]*ymp.Result, len(args))
			var g errgroup.Group
			g.SetLimit(jobs)
			for i, path := range args {
				g.Go(func() error {
					res, err := ymp.CheckFile(path)
					if err != nil {
						return fmt.Errorf("check %s: %w", path, err)
					}
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for i, res := range results {
				var encoder format.Encoder
				switch outputFormat {
				case "report":
					report := format.NewReportEncoder(out)
					report.Symbols = showSymbols
					encoder = report
					if len(results) > 1 {
						if i > 0 {
							fmt.Fprintln(out)
						}
						fmt.Fprintf(out, "=== %s ===\n", res.File)
					}
				case "json":
					encoder = format.NewJSONEncoder(out)
				default:
					return fmt.Errorf("unknown format: %s", outputFormat)
				}

				if err := encoder.Encode(res); err != nil {
					return fmt.Errorf("encode %s: %w", res.File, err)
				}
				if res.HasErrors() {
					failed++
				}
			}

			log.Infof("checked %d files, %d with errors", len(results), failed)
			if failed > 0 {
				return ErrDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of files to check concurrently")
	cmd.Flags().BoolVar(&showSymbols, "symbols", false, "append the symbol table to each report")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "report", "output format (report, json)")

	return cmd
}
