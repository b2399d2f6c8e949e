package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/teamlens/internal/models"
)

// RenderCard renders the compact view of an employee used in the home list.
// Absent fields render empty.
func RenderCard(user models.User, selected, pinned bool, width int) string {
	name := nameStyle.Render(user.DisplayName())
	if pinned {
		name = pinStyle.Render("★ ") + name
	}

	lines := []string{name}
	if user.Email != "" {
		lines = append(lines, emailStyle.Render(user.Email))
	}
	lines = append(lines, hintStyle.Render("id "+user.ID))

	style := cardStyle
	if selected {
		style = cardSelectedStyle
	}
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderDetail renders the full record of an employee: name, email and
// the references of both graphs.
func RenderDetail(user models.User, width int) string {
	rows := []string{
		nameStyle.Render(user.DisplayName()),
		detailRow("Email", user.Email),
		detailRow("ID", user.ID),
		detailRow("Time", graphRef(user.TimeGraph)),
		detailRow("Clusters", graphRef(user.ClustersGraph)),
	}

	style := detailStyle
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(strings.Join(rows, "\n"))
}

func detailRow(label, value string) string {
	return fieldLabelStyle.Render(label) + value
}

// graphRef shortens inline images, which are unreadable as text
func graphRef(ref string) string {
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "data:"):
		return graphLinkStyle.Render("[inline image]")
	default:
		return graphLinkStyle.Render(ref)
	}
}
