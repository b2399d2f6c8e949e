package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/diogo/teamlens/internal/api"
	"github.com/diogo/teamlens/internal/config"
	"github.com/diogo/teamlens/internal/history"
	"github.com/diogo/teamlens/internal/logger"
	"github.com/diogo/teamlens/internal/render"
	"github.com/diogo/teamlens/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunApp(client api.ClientInterface, store tui.HistoryStore, opts tui.Options) error
	RunPage(client api.ClientInterface, store tui.HistoryStore, userID string, opts tui.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client is the API client. When nil one is built from the config.
	Client api.ClientInterface

	// Store is the local history. When nil the default store is opened.
	Store *history.Store

	// Config replaces loading from disk and environment when set.
	Config *config.Config

	// TUI is the terminal user interface.
	TUI TUIInterface
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunApp(client api.ClientInterface, store tui.HistoryStore, opts tui.Options) error {
	return tui.RunApp(client, store, opts)
}

func (d *DefaultTUI) RunPage(client api.ClientInterface, store tui.HistoryStore, userID string, opts tui.Options) error {
	return tui.RunPage(client, store, userID, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI: &DefaultTUI{},
	}
}

// loadConfig resolves the configuration: flag > env > file > defaults
func (d *Dependencies) loadConfig(stderr io.Writer) config.Config {
	var cfg config.Config
	if d != nil && d.Config != nil {
		cfg = *d.Config
	} else {
		var err error
		cfg, err = config.Load()
		if err != nil {
			fmt.Fprintf(stderr, "Warning: %v (using defaults)\n", err)
		}
	}

	if serverFlag != "" {
		cfg.ServerURL = strings.TrimRight(serverFlag, "/")
	}
	if verboseFlag {
		cfg.Verbose = true
	}

	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		tui.UpdateTheme()
	}
	return cfg
}

// client returns the injected client or builds one from cfg.
// The returned func releases it.
func (d *Dependencies) client(cfg config.Config, log *logger.Logger) (api.ClientInterface, func(), error) {
	if d != nil && d.Client != nil {
		return d.Client, func() {}, nil
	}

	client, err := api.NewClient(cfg.ServerURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithProxy(cfg.Proxy),
		api.WithCacheTTL(cfg.CacheTTL()),
		api.WithLogger(log),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, client.Close, nil
}

// store returns the injected store or opens the default one
func (d *Dependencies) store() (*history.Store, error) {
	if d != nil && d.Store != nil {
		return d.Store, nil
	}
	store, err := history.DefaultStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// historyStore adapts store for the TUI, keeping a nil store a nil interface
func historyStore(store *history.Store) tui.HistoryStore {
	if store == nil {
		return nil
	}
	return store
}

// newCLILogger logs to stderr, at debug level with --verbose
func newCLILogger(cfg config.Config, stderr io.Writer) *logger.Logger {
	if !cfg.Verbose {
		return logger.Discard()
	}
	return logger.New(logger.Options{Level: "debug", Output: stderr})
}

// newTUILogger logs to the log file because the TUI owns the terminal
func newTUILogger(cfg config.Config) *logger.Logger {
	path, err := config.GetLogPath()
	if err != nil {
		return logger.Discard()
	}
	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	log, err := logger.NewFile(path, logger.Options{Level: level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return logger.Discard()
	}
	return log
}
