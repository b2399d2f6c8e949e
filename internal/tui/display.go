package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/teamlens/internal/chat"
)

// renderControl renders a Show More / Show Less toggle.
// The focused control is highlighted; enter activates it.
func renderControl(label string, focused bool) string {
	if label == "" {
		return ""
	}
	if focused {
		return controlFocusStyle.Render("[ " + label + " ]")
	}
	return controlStyle.Render("[ " + label + " ]")
}

// renderSegment renders the text of a display followed by its control.
// format is applied to the visible text only.
func renderSegment(seg chat.Segment, focused bool, width int, format func(string, int) string) string {
	body := format(seg.Text, width)
	if seg.Control == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, renderControl(seg.Control, focused))
}

// plainText wraps text to width
func plainText(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return hintStyle.Render("(empty)")
	}
	return summaryTextStyle.Width(width).Render(text)
}
