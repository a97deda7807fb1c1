package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"monthlify/internal/services"
	"monthlify/internal/shared"
	"monthlify/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	service services.LibraryService
	auth    *services.Authenticator
	logger  *log.Logger
	output  io.Writer
	engine  tasks.SyncEngine
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Service and Engine are normally left nil and built lazily after
// authentication; tests inject fakes through them.
type RunnerOpts struct {
	Config  *shared.Config
	Service services.LibraryService
	Engine  tasks.SyncEngine
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
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
		config:  opts.Config,
		service: opts.Service,
		engine:  opts.Engine,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, authCommand, historyCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// authenticator lazily constructs the OAuth authenticator from validated
// credentials.
func (r *Runner) authenticator() (*services.Authenticator, error) {
	if r.auth != nil {
		return r.auth, nil
	}

	if err := r.config.Spotify.Validate(); err != nil {
		return nil, err
	}

	cache, err := services.NewTokenCache("")
	if err != nil {
		return nil, err
	}

	r.auth = services.NewAuthenticator(r.config.Spotify, r.config.Server, cache, r.logger)
	return r.auth, nil
}

// ensureService returns the library service, running the OAuth flow when no
// cached token exists yet.
func (r *Runner) ensureService(ctx context.Context) (services.LibraryService, error) {
	if r.service != nil {
		return r.service, nil
	}

	auth, err := r.authenticator()
	if err != nil {
		return nil, err
	}

	client, err := auth.Client(ctx)
	if err != nil {
		return nil, err
	}

	r.service = services.NewSpotifyService(client, r.logger)
	return r.service, nil
}

// ensureEngine returns the sync engine, building the service first if needed.
func (r *Runner) ensureEngine(ctx context.Context) (tasks.SyncEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	svc, err := r.ensureService(ctx)
	if err != nil {
		return nil, err
	}

	r.engine = tasks.NewMonthlyEngine(svc)
	return r.engine, nil
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
