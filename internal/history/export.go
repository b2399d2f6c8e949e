package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat maps a --format flag or file extension to a format
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "md", "markdown":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use markdown or json)", s)
	}
}

// ExportOptions configures how conversations are exported
type ExportOptions struct {
	Format         ExportFormat
	IncludeSummary bool // Include the conversation summary of each answer
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:         ExportFormatMarkdown,
		IncludeSummary: true,
	}
}

// Export renders a conversation in opts.Format
func (s *Store) Export(id string, opts ExportOptions) ([]byte, error) {
	if opts.Format == ExportFormatJSON {
		return s.ExportToJSONWithOptions(id, opts)
	}
	md, err := s.ExportToMarkdownWithOptions(id, opts)
	return []byte(md), err
}

// ExportToMarkdown exports a conversation to Markdown format
func (s *Store) ExportToMarkdown(id string) (string, error) {
	return s.ExportToMarkdownWithOptions(id, DefaultExportOptions())
}

// ExportToMarkdownWithOptions exports a conversation to Markdown with options
func (s *Store) ExportToMarkdownWithOptions(id string, opts ExportOptions) (string, error) {
	conv, err := s.GetConversation(id)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(conv.Title)
	sb.WriteString("\n\n")

	sb.WriteString("**Employee:** ")
	sb.WriteString(conv.UserID)
	sb.WriteString("\n")
	if conv.Email != "" {
		sb.WriteString("**Email:** ")
		sb.WriteString(conv.Email)
		sb.WriteString("\n")
	}
	sb.WriteString("**Created:** ")
	sb.WriteString(conv.CreatedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString("**Updated:** ")
	sb.WriteString(conv.UpdatedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Questions:** %d", conv.Questions()))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range conv.Messages {
		role := "Question"
		if msg.Role == RoleAssistant {
			role = "Answer"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		if opts.IncludeSummary && msg.Summary != "" {
			sb.WriteString("> ")
			sb.WriteString(strings.ReplaceAll(msg.Summary, "\n", "\n> "))
			sb.WriteString("\n\n")
		}

		content := msg.Content
		if content == "" {
			content = "_(empty)_"
		}
		sb.WriteString(content)
		sb.WriteString("\n")

		if i < len(conv.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String(), nil
}

// ExportToJSON exports a conversation to JSON format
func (s *Store) ExportToJSON(id string) ([]byte, error) {
	return s.ExportToJSONWithOptions(id, DefaultExportOptions())
}

// ExportToJSONWithOptions exports a conversation to JSON with options
func (s *Store) ExportToJSONWithOptions(id string, opts ExportOptions) ([]byte, error) {
	conv, err := s.GetConversation(id)
	if err != nil {
		return nil, err
	}

	type ExportMessage struct {
		Role      string    `json:"role"`
		Content   string    `json:"content"`
		Summary   string    `json:"summary,omitempty"`
		Timestamp time.Time `json:"timestamp"`
	}

	type ExportConversation struct {
		ID        string          `json:"id"`
		UserID    string          `json:"user_id"`
		Name      string          `json:"name"`
		Email     string          `json:"email,omitempty"`
		CreatedAt time.Time       `json:"created_at"`
		UpdatedAt time.Time       `json:"updated_at"`
		Messages  []ExportMessage `json:"messages"`
	}

	export := ExportConversation{
		ID:        conv.ID,
		UserID:    conv.UserID,
		Name:      conv.Title,
		Email:     conv.Email,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		Messages:  make([]ExportMessage, len(conv.Messages)),
	}

	for i, msg := range conv.Messages {
		export.Messages[i] = ExportMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
		if opts.IncludeSummary {
			export.Messages[i].Summary = msg.Summary
		}
	}

	return json.MarshalIndent(export, "", "  ")
}

// FormatRelativeTime formats a time as a short relative string like "2h ago"
func FormatRelativeTime(t time.Time) string {
	return formatRelative(time.Since(t), t)
}

func formatRelative(diff time.Duration, t time.Time) string {
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	case diff < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(diff.Hours()/24/7))
	default:
		return t.Format("2006-01-02")
	}
}
