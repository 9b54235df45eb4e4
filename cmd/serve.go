package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/tastemaker/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve starts the HTTP relay and blocks until SIGINT or SIGTERM, then shuts down gracefully.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}
	if port := int(cmd.Int("port")); port > 0 {
		r.config.Server.Port = port
	}
	if err := r.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := r.spotify(); err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Opts{
		Config:  r.config,
		Auth:    r.auth,
		Catalog: r.catalog,
		Engine:  r.generator(),
		Logger:  r.logger,
	})

	return srv.ListenAndServe(ctx)
}

// LoginURL prints the authorize URL for a fresh state value.
func (r *Runner) LoginURL(ctx context.Context, cmd *cli.Command) error {
	if err := r.configure(cmd); err != nil {
		return err
	}
	if err := r.spotify(); err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	return r.writePlain("%s\n", r.auth.LoginURL(newState()))
}
