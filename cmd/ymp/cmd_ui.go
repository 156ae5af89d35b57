package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dhamidi/ymp/ui"
	"github.com/dhamidi/ymp/ymp/codebase"
	"github.com/spf13/cobra"
)

func newUICmd() *cobra.Command {
	var (
		addr     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ui [dir]",
		Short: "Start the web UI server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			cb := codebase.New(dir)
			if err := cb.ScanAll(); err != nil {
				return fmt.Errorf("scan %s: %w", dir, err)
			}

			server, err := ui.NewServer(cb)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}

			watcher := codebase.NewFileWatcher(cb, interval)
			watcher.Start()
			defer watcher.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			httpServer := &http.Server{Addr: addr, Handler: server}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				httpServer.Shutdown(shutdownCtx)
			}()

			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Starting server at http://%s\n", displayAddr)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "poll interval for file changes")

	return cmd
}
