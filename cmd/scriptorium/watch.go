package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the input directory and curate documents as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			app, err := NewApp(cfg, slog.Default())
			if err != nil {
				return err
			}
			defer app.Close()
			app.Start()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := app.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("watch stopped")
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
