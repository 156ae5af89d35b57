package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dhamidi/ymp/format"
	"github.com/dhamidi/ymp/ymp/codebase"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-check source files whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if info, err := os.Stat(dir); err != nil {
				return fmt.Errorf("watch: %w", err)
			} else if !info.IsDir() {
				return fmt.Errorf("watch: %s is not a directory", dir)
			}

			out := cmd.OutOrStdout()
			watcher := codebase.NewFileWatcher(codebase.New(dir), interval)
			watcher.OnChange = func(path string, info *codebase.FileInfo) {
				if info == nil {
					fmt.Fprintf(out, "=== %s removed ===\n", path)
					return
				}
				fmt.Fprintf(out, "=== %s ===\n", path)
				if err := format.NewReportEncoder(out).Encode(info.Result); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "report %s: %s\n", path, err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			watcher.Start()
			<-ctx.Done()
			watcher.Stop()
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "poll interval")

	return cmd
}
