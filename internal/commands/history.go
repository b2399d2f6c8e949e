package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/teamlens/internal/history"
)

// NewHistoryCmd creates the history command and its subcommands
func NewHistoryCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the local question history",
		Long: `View and manage the questions you asked about each employee.

A conversation can be referenced by:
` + history.ListAliases(),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(deps, cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <ref>",
		Short: "Show a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(deps, cmd.OutOrStdout(), args[0])
		},
	})

	cmd.AddCommand(newHistoryExportCmd(deps))

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <ref>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryDelete(deps, cmd.OutOrStdout(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryClear(deps, cmd.OutOrStdout())
		},
	})

	return cmd
}

func newHistoryExportCmd(deps *Dependencies) *cobra.Command {
	var (
		format    string
		output    string
		noSummary bool
	)

	cmd := &cobra.Command{
		Use:   "export <ref>",
		Short: "Export a conversation as markdown or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := history.ParseExportFormat(format)
			if err != nil {
				return err
			}
			opts := history.ExportOptions{Format: f, IncludeSummary: !noSummary}
			return runHistoryExport(deps, cmd.OutOrStdout(), args[0], output, opts)
		},
	}

	cmd.Flags().StringVar(&format, "format", "markdown", "Export format (markdown or json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "Leave out the conversation summaries")
	return cmd
}

func runHistoryList(deps *Dependencies, out io.Writer) error {
	store, err := deps.store()
	if err != nil {
		return err
	}

	conversations, err := store.ListConversations()
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(conversations) == 0 {
		fmt.Fprintln(out, "No conversations found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tEMPLOYEE\tUSER\tQUESTIONS\tUPDATED")
	_, _ = fmt.Fprintln(w, "-\t--------\t----\t---------\t-------")

	for i, conv := range conversations {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			i+1, truncate(conv.Title, 40), conv.UserID, conv.Questions(), history.FormatRelativeTime(conv.UpdatedAt))
	}

	return w.Flush()
}

func runHistoryShow(deps *Dependencies, out io.Writer, ref string) error {
	store, err := deps.store()
	if err != nil {
		return err
	}

	conv, err := history.NewResolver(store).ResolveWithInfo(ref)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "ID: %s\n", conv.ID)
	fmt.Fprintf(out, "Employee: %s (%s)\n", conv.Title, conv.UserID)
	fmt.Fprintf(out, "Created: %s\n", conv.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Updated: %s\n", conv.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Questions: %d\n", conv.Questions())
	fmt.Fprintln(out)

	for i, msg := range conv.Messages {
		role := "You"
		if msg.Role == history.RoleAssistant {
			role = "Answer"
		}
		fmt.Fprintf(out, "[%d] %s (%s):\n", i+1, role, msg.Timestamp.Format("15:04"))

		if msg.Summary != "" {
			fmt.Fprintf(out, "  ↳ %s\n", truncate(msg.Summary, 200))
		}

		content := msg.Content
		if content == "" && msg.Role == history.RoleUser {
			content = "(empty question)"
		}
		fmt.Fprintf(out, "  %s\n\n", truncate(content, 500))
	}

	return nil
}

func runHistoryExport(deps *Dependencies, out io.Writer, ref, output string, opts history.ExportOptions) error {
	store, err := deps.store()
	if err != nil {
		return err
	}

	id, err := history.NewResolver(store).Resolve(ref)
	if err != nil {
		return err
	}

	data, err := store.Export(id, opts)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if output == "" {
		_, err := out.Write(data)
		return err
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(out, "Exported %s to %s\n", id, output)
	return nil
}

func runHistoryDelete(deps *Dependencies, out io.Writer, ref string) error {
	store, err := deps.store()
	if err != nil {
		return err
	}

	conv, err := history.NewResolver(store).ResolveWithInfo(ref)
	if err != nil {
		return err
	}

	if err := store.DeleteConversation(conv.ID); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	fmt.Fprintf(out, "Deleted conversation about %s (%s)\n", conv.Title, conv.ID)
	return nil
}

func runHistoryClear(deps *Dependencies, out io.Writer) error {
	store, err := deps.store()
	if err != nil {
		return err
	}

	if err := store.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Fprintln(out, "All conversations deleted.")
	return nil
}
