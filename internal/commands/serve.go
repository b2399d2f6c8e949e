package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/teamlens/internal/devserver"
	"github.com/diogo/teamlens/internal/logger"
)

// serveOptions are the flags of the serve command
type serveOptions struct {
	addr         string
	fixture      string
	graphDir     string
	inlineGraphs bool
	jsonLogs     bool
}

// NewServeCmd creates the serve command
func NewServeCmd(deps *Dependencies) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local dev server for the insight API",
		Long: `Run a local server implementing the insight API from a JSON fixture.

Without --fixture a built-in set of employees is served. Graphs are rendered
from the conversation records unless --graphs points at a directory holding
<user>_<kind>.png files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, deps, cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", ":8000", "Address to listen on")
	cmd.Flags().StringVar(&opts.fixture, "fixture", "", "JSON fixture with users and conversations")
	cmd.Flags().StringVar(&opts.graphDir, "graphs", "", "Directory with pre-rendered graph images")
	cmd.Flags().BoolVar(&opts.inlineGraphs, "inline-graphs", false, "Embed graphs in user records as data: URIs")
	cmd.Flags().BoolVar(&opts.jsonLogs, "json-logs", false, "Log as JSON")
	return cmd
}

// buildServer loads the fixture and creates the dev server
func buildServer(opts serveOptions, log *logger.Logger) (*devserver.Server, error) {
	var (
		fixture *devserver.Fixture
		err     error
	)
	if opts.fixture != "" {
		fixture, err = devserver.LoadFixture(opts.fixture)
	} else {
		fixture, err = devserver.DefaultFixture()
	}
	if err != nil {
		return nil, err
	}

	return devserver.New(fixture, devserver.Options{
		GraphDir:     opts.graphDir,
		InlineGraphs: opts.inlineGraphs,
		Logger:       log,
	}), nil
}

func runServe(ctx context.Context, deps *Dependencies, errOut io.Writer, opts serveOptions) error {
	cfg := deps.loadConfig(errOut)

	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	log := logger.New(logger.Options{Level: level, JSON: opts.jsonLogs, Output: errOut})

	server, err := buildServer(opts, log)
	if err != nil {
		return fmt.Errorf("failed to start dev server: %w", err)
	}
	return server.ListenAndServe(ctx, opts.addr)
}
