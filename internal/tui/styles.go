// Package tui provides the terminal user interface for teamlens.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/teamlens/internal/errors"
	"github.com/diogo/teamlens/internal/render"
)

// Color variables (updated from theme)
var (
	colorSurface   lipgloss.Color
	colorBorder    lipgloss.Color
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorLink      lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorText      lipgloss.Color
	colorTextDim   lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	// Employee card and detail
	cardStyle         lipgloss.Style
	cardSelectedStyle lipgloss.Style
	nameStyle         lipgloss.Style
	emailStyle        lipgloss.Style
	pinStyle          lipgloss.Style
	detailStyle       lipgloss.Style
	fieldLabelStyle   lipgloss.Style
	graphLinkStyle    lipgloss.Style

	// Response panel
	responsePanelStyle lipgloss.Style
	sectionLabelStyle  lipgloss.Style
	summaryTextStyle   lipgloss.Style
	controlStyle       lipgloss.Style
	controlFocusStyle  lipgloss.Style
	focusMarkerStyle   lipgloss.Style

	// Input
	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	// Status bar
	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	feedbackStyle   lipgloss.Style

	errorStyle lipgloss.Style
)

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorSurface = theme.Surface
	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorLink = theme.Link
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	cardStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	cardSelectedStyle = cardStyle.
		BorderForeground(colorPrimary)

	nameStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	emailStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	pinStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	detailStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1)

	fieldLabelStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Width(10)

	graphLinkStyle = lipgloss.NewStyle().
		Foreground(colorLink).
		Underline(true)

	responsePanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginTop(1)

	sectionLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	summaryTextStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Italic(true)

	controlStyle = lipgloss.NewStyle().
		Foreground(colorLink)

	controlFocusStyle = lipgloss.NewStyle().
		Foreground(colorSurface).
		Background(colorLink).
		Bold(true)

	focusMarkerStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorLink).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	feedbackStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Italic(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)
}

// shortcut is one entry of a status bar
type shortcut struct {
	key  string
	desc string
}

// renderShortcuts renders a centered status bar
func renderShortcuts(width int, shortcuts []shortcut) string {
	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// FormatError returns a styled error message with a hint for the operator.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if hint := errorHint(err); hint != "" {
		sb.WriteString(dimStyle.Render("\n  Hint: " + hint))
	}

	return sb.String()
}

// errorHint suggests what to do about err
func errorHint(err error) string {
	switch {
	case errors.IsNotFound(err):
		return "No employee with this id. Run 'teamlens list' to see valid ids"
	case errors.IsTimeoutError(err):
		return "The service took too long. Retry or raise timeout_seconds"
	case errors.IsNetworkError(err):
		return "Is the service running? Check server_url or start 'teamlens serve'"
	case errors.IsServerError(err):
		return "The service failed. Retry in a moment"
	case errors.Is(err, errors.ErrInvalidResponse):
		return "The service answered in an unexpected format"
	}
	return ""
}

// PrintError prints a styled error message.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Println(FormatError(err))
}
