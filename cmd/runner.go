package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tastemaker/internal/services"
	"github.com/desertthunder/tastemaker/internal/shared"
	"github.com/desertthunder/tastemaker/internal/tasks"
	"github.com/desertthunder/tastemaker/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Collaborators left nil are built from the loaded configuration the first time a command needs them.
type Runner struct {
	config     *shared.Config
	loaded     bool
	auth       services.Authenticator
	catalog    services.Catalog
	engine     tasks.Generator
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	palette    *ui.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Auth       services.Authenticator
	Catalog    services.Catalog
	Engine     tasks.Generator
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// A provided Config is used as-is; otherwise each command loads one from its --config flag.
func NewRunner(opts RunnerOpts) *Runner {
	loaded := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		loaded:     loaded,
		auth:       opts.Auth,
		catalog:    opts.Catalog,
		engine:     opts.Engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		palette:    ui.Default(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, loginURLCommand, recommendCommand, generateCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure loads configuration for a command: dotenv file, then the config file when it exists, then the
// process environment. The log level follows --debug or log_level.
func (r *Runner) configure(cmd *cli.Command) error {
	if !r.loaded {
		conf, err := loadConfig(cmd.String("config"), cmd.String("env-file"))
		if err != nil {
			return err
		}
		r.config = conf
		r.loaded = true
	}

	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	} else {
		shared.SetLogLevelString(r.logger, r.config.LogLevel)
	}

	if r.httpClient == nil {
		r.httpClient = &http.Client{Timeout: r.config.Server.Timeout()}
	}
	return nil
}

func loadConfig(path, envFile string) (*shared.Config, error) {
	if envFile != "" {
		if err := shared.LoadEnvFile(envFile); err != nil {
			return nil, err
		}
	}

	conf := shared.DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if conf, err = shared.LoadConfig(path); err != nil {
				return nil, err
			}
		}
	}

	if err := conf.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return conf, nil
}

// spotify builds the Spotify service for any collaborator not injected.
func (r *Runner) spotify() error {
	if r.auth != nil && r.catalog != nil {
		return nil
	}

	svc, err := services.NewSpotifyService(r.config, r.httpClient)
	if err != nil {
		return err
	}
	r.logger.Debug("service initialized", "name", svc.Name())
	if r.auth == nil {
		r.auth = svc
	}
	if r.catalog == nil {
		r.catalog = svc
	}
	return nil
}

// generator builds the playlist engine. The catalog may be nil for commands that only recommend.
func (r *Runner) generator() tasks.Generator {
	if r.engine == nil {
		completion := services.NewCompletionService(r.config, r.httpClient)
		r.engine = tasks.NewPlaylistEngine(r.catalog, completion, tasks.EngineOptsFromConfig(r.config), r.logger)
	}
	return r.engine
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
