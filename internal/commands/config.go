package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/teamlens/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change teamlens settings.

Settings live in ~/.teamlens/config.json. TEAMLENS_SERVER_URL, TEAMLENS_PROXY,
TEAMLENS_LOG_LEVEL and TEAMLENS_TIMEOUT_SECONDS override the file, and may
also be set in a .env file in the working directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting in the config file",
		Long:      "Change one setting in the config file.\n\nKeys: " + strings.Join(config.SettableKeys(), ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.SettableKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	})

	return cmd
}

func runConfigShow(deps *Dependencies, out, errOut io.Writer) error {
	cfg := deps.loadConfig(errOut)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// runConfigSet edits the file only; environment overrides are left alone
func runConfigSet(out io.Writer, key, value string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if err := config.SetValue(&cfg, key, value); err != nil {
		return err
	}

	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}
