package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/teamlens/internal/models"
	"github.com/diogo/teamlens/internal/tui"
)

// NewListCmd creates the list command
func NewListCmd(deps *Dependencies) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Long:  `List the employees known to the service. Pinned employees are marked with ★.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), deps, cmd.OutOrStdout(), cmd.ErrOrStderr(), jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print employees as JSON")
	return cmd
}

func runList(ctx context.Context, deps *Dependencies, out, errOut io.Writer, jsonOutput bool) error {
	cfg := deps.loadConfig(errOut)
	client, release, err := deps.client(cfg, newCLILogger(cfg, errOut))
	if err != nil {
		return err
	}
	defer release()

	users, err := client.ListEmployees(contextOrBackground(ctx))
	if err != nil {
		fmt.Fprintln(errOut, formatErrorMessage(err, "Failed to list employees"))
		return fmt.Errorf("failed to list employees: %w", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(users, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode employees: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	if len(users) == 0 {
		fmt.Fprintln(out, "No employees found.")
		return nil
	}

	pinned := map[string]bool{}
	if store, err := deps.store(); err == nil {
		if ids, err := store.PinnedIDs(); err == nil {
			for _, id := range ids {
				pinned[id] = true
			}
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tGRAPHS")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t------")

	for _, u := range users {
		name := truncate(u.DisplayName(), 40)
		if pinned[u.ID] {
			name = "★ " + name
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", u.ID, name, u.Email, len(u.Graphs()))
	}

	return w.Flush()
}

// NewShowCmd creates the show command
func NewShowCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user>",
		Short: "Show the details of an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), deps, cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
		},
	}
}

func runShow(ctx context.Context, deps *Dependencies, out, errOut io.Writer, userID string) error {
	cfg := deps.loadConfig(errOut)
	client, release, err := deps.client(cfg, newCLILogger(cfg, errOut))
	if err != nil {
		return err
	}
	defer release()

	user, err := client.GetEmployee(contextOrBackground(ctx), userID)
	if err != nil {
		fmt.Fprintln(errOut, formatErrorMessage(err, "Failed to load employee"))
		return fmt.Errorf("failed to load employee: %w", err)
	}

	if isTTY(out) {
		fmt.Fprintln(out, tui.RenderDetail(*user, min(getTerminalWidth(), 100)))
		return nil
	}

	printUser(out, *user)
	return nil
}

func printUser(out io.Writer, u models.User) {
	fmt.Fprintf(out, "ID: %s\n", u.ID)
	fmt.Fprintf(out, "Name: %s\n", u.Name)
	fmt.Fprintf(out, "Email: %s\n", u.Email)
	fmt.Fprintf(out, "Time graph: %s\n", graphLabel(u.TimeGraph))
	fmt.Fprintf(out, "Clusters graph: %s\n", graphLabel(u.ClustersGraph))
}

func graphLabel(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		return "(inline image)"
	}
	return ref
}

// truncate shortens s to max characters, adding an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
