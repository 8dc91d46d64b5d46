package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/internal/server"
	folifecycle "github.com/aretw0/folio/pkg/adapters/lifecycle"
	"github.com/aretw0/folio/pkg/core"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site routes and the admin API",
	Long: `Serve /, /impressum, /datenschutz and /admin together with the JSON API
used by the admin panel. With --watch, edits to the default content file are
picked up without a restart.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt := openRuntime()
		defer rt.Close()

		if serveWatch && rt.Source != nil {
			if err := rt.Watch(ctx); err != nil {
				fatal("Failed to watch default content", err)
			}
		}

		events := folifecycle.NewSource(rt.Service.Events(), core.EventSave, core.EventReload)
		if err := events.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}
		go func() {
			for e := range events.Events() {
				slog.Info("content event", "event", e.String())
			}
		}()

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		srv := server.New(rt, server.Config{
			Addr:   addr,
			Debug:  verbose,
			Logger: slog.Default(),
		})
		if err := srv.Run(ctx); err != nil {
			fatal("Server failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from server.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "Reload the default content file when it changes")
}
