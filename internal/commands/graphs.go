package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/diogo/teamlens/internal/api"
	"github.com/diogo/teamlens/internal/config"
)

// NewGraphsCmd creates the graphs command
func NewGraphsCmd(deps *Dependencies) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "graphs <user>",
		Short: "Download the graphs of an employee",
		Long: `Download the time and clusters graphs of an employee.

Files are named <user>_<kind>.<ext> and saved to --dir, or to the
download_dir setting (default ~/.teamlens/graphs).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraphs(cmd.Context(), deps, cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], dir)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to save graphs to")
	return cmd
}

func runGraphs(ctx context.Context, deps *Dependencies, out, errOut io.Writer, userID, dir string) error {
	ctx = contextOrBackground(ctx)
	cfg := deps.loadConfig(errOut)
	client, release, err := deps.client(cfg, newCLILogger(cfg, errOut))
	if err != nil {
		return err
	}
	defer release()

	if dir == "" {
		dir, err = config.GetDownloadDir(cfg)
		if err != nil {
			return err
		}
	}

	user, err := client.GetEmployee(ctx, userID)
	if err != nil {
		fmt.Fprintln(errOut, formatErrorMessage(err, "Failed to load employee"))
		return fmt.Errorf("failed to load employee: %w", err)
	}

	graphs := user.Graphs()
	if len(graphs) == 0 {
		fmt.Fprintf(out, "%s has no graphs.\n", user.DisplayName())
		return nil
	}

	opts := api.GraphDownloadOptions{Directory: dir}
	var failed int
	for _, graph := range graphs {
		path, err := client.DownloadGraph(ctx, *user, graph, opts)
		if err != nil {
			failed++
			fmt.Fprintln(errOut, formatErrorMessage(err, fmt.Sprintf("Failed to download %s graph", graph.Kind)))
			continue
		}
		fmt.Fprintf(out, "Saved %s graph to %s\n", graph.Kind, path)
	}

	if failed == len(graphs) {
		return fmt.Errorf("no graph could be downloaded")
	}
	return nil
}
