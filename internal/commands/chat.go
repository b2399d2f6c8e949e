package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/teamlens/internal/config"
	"github.com/diogo/teamlens/internal/logger"
	"github.com/diogo/teamlens/internal/render"
	"github.com/diogo/teamlens/internal/tui"
)

// NewChatCmd creates the chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [user]",
		Short: "Open the interactive TUI",
		Long: `Open the interactive TUI.

Without a user the home list is shown; pick an employee with enter.
With a user id the page of that employee opens directly and esc quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := ""
			if len(args) > 0 {
				userID = args[0]
			}
			return runTUI(deps, userID)
		},
	}
}

// runTUI starts the home list, or the page of userID when set
func runTUI(deps *Dependencies, userID string) error {
	cfg := deps.loadConfig(os.Stderr)

	log := newTUILogger(cfg)
	defer log.Close()

	client, release, err := deps.client(cfg, log)
	if err != nil {
		return err
	}
	defer release()

	store, err := deps.store()
	if err != nil {
		// History is optional; the TUI still works without it.
		log.Warn("history disabled", logger.Fields{"error": err.Error()})
	}

	downloadDir, err := config.GetDownloadDir(cfg)
	if err != nil {
		return err
	}

	opts := tui.Options{
		Render:      render.OptionsFromConfig(cfg),
		DownloadDir: downloadDir,
		Logger:      log,
	}

	log.Info("tui started", logger.Fields{"server": client.ServerURL(), "user": userID})

	if deps.TUI == nil {
		return fmt.Errorf("no TUI available")
	}
	if userID != "" {
		return deps.TUI.RunPage(client, historyStore(store), userID, opts)
	}
	return deps.TUI.RunApp(client, historyStore(store), opts)
}
