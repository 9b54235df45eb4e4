// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file (.toml, .yaml or .yml)",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to a dotenv file loaded before the environment is read",
			Value: ".env",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

// serveCommand starts the HTTP relay
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Flags: append(configFlags(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override server.port",
			},
		),
		Action: r.Serve,
	}
}

// loginURLCommand prints the provider authorize URL
func loginURLCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "login-url",
		Usage:  "Print the Spotify authorization URL",
		Flags:  configFlags(),
		Action: r.LoginURL,
	}
}

// recommendCommand asks the completion model for similar tracks
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "recommend",
		Usage:     "Suggest tracks similar to the given seeds",
		ArgsUsage: `"Song - Artist" ["Song - Artist" ...]`,
		Flags: append(append(configFlags(), outputFlags()...),
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of tracks to request (overrides completion.count)",
			},
		),
		Action: r.Recommend,
	}
}

// generateCommand runs the full liked-songs pipeline
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Create a playlist from recommendations based on your liked songs",
		Flags: append(append(configFlags(), outputFlags()...),
			&cli.StringFlag{
				Name:     "token",
				Aliases:  []string{"t"},
				Usage:    "Spotify user access token",
				Sources:  cli.EnvVars("SPOTIFY_ACCESS_TOKEN"),
				Required: true,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of liked songs to seed from (overrides spotify.liked_limit)",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Playlist name (overrides playlist.name)",
			},
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"o"},
				Usage:   "Also write the result to a file (.csv, .md or .txt)",
			},
		),
		Action: r.Generate,
	}
}

// setupCommand writes a starter configuration file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a configuration file from the built-in template",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
