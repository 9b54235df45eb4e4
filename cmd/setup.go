package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tastemaker/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the built-in configuration template to --config.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	r.logger.Info("creating config file from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	if _, err := shared.LoadConfig(configPath); err != nil {
		return fmt.Errorf("created config does not parse: %w", err)
	}

	r.writePlain("%s\n", r.palette.OK("✓ Config file created at "+configPath))
	r.writePlain("%s\n", r.palette.Help("Next steps:"))
	r.writePlain("1. Fill in credentials.spotify and credentials.openai, or set the matching environment variables\n")
	r.writePlain("2. Run 'tastemaker serve' to start the relay\n")
	return nil
}
