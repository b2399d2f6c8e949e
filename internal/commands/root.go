// Package commands provides CLI commands for teamlens.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	serverFlag  string
	verboseFlag bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teamlens [user]",
		Short: "Ask questions about your team's conversations",
		Long: `teamlens is a terminal client for the employee conversation-insight service.
It lists employees, shows their details and graphs, and answers questions
about what they have been talking about.

Examples:
  teamlens                              Browse employees in the TUI
  teamlens u42                          Open the page of employee u42
  teamlens ask u42 "What is she working on?"
  teamlens list                         List employees
  teamlens graphs u42 -d ./graphs       Download the graphs of u42
  teamlens serve                        Run a local dev server`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for version flag
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "teamlens %s (built %s)\n", Version, BuildTime)
				return nil
			}

			userID := ""
			if len(args) > 0 {
				userID = args[0]
			}
			return runTUI(deps, userID)
		},
	}

	cmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "Service URL (overrides config and TEAMLENS_SERVER_URL)")
	cmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log requests to stderr (debug level)")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	cmd.AddCommand(NewListCmd(deps))
	cmd.AddCommand(NewShowCmd(deps))
	cmd.AddCommand(NewChatCmd(deps))
	cmd.AddCommand(NewAskCmd(deps))
	cmd.AddCommand(NewGraphsCmd(deps))
	cmd.AddCommand(NewHistoryCmd(deps))
	cmd.AddCommand(NewConfigCmd(deps))
	cmd.AddCommand(NewServeCmd(deps))

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
