package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/teamlens/internal/api"
	"github.com/diogo/teamlens/internal/models"
)

// Message types for the home list
type (
	usersLoadedMsg struct {
		users []models.User
		err   error
	}
	pinsLoadedMsg struct {
		ids []string
	}
	// openPageMsg asks the app to open the page of an employee
	openPageMsg struct {
		userID string
	}
)

// HomeModel is the employee list: one card per employee, type to filter
type HomeModel struct {
	client api.ClientInterface
	store  HistoryStore

	// Data
	users  []models.User
	pinned map[string]int // user id -> pin order

	// Navigation
	cursor int
	filter string

	// State
	loading  bool
	err      error
	feedback string

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewHomeModel creates the home list
func NewHomeModel(client api.ClientInterface, store HistoryStore) HomeModel {
	return HomeModel{
		client:  client,
		store:   store,
		pinned:  map[string]int{},
		loading: true,
	}
}

// Init starts loading the employees and pins
func (m HomeModel) Init() tea.Cmd {
	return tea.Batch(m.loadUsers(), m.loadPins())
}

func (m HomeModel) loadUsers() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		users, err := client.ListEmployees(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

func (m HomeModel) loadPins() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return pinsLoadedMsg{}
		}
		ids, _ := store.PinnedIDs()
		return pinsLoadedMsg{ids: ids}
	}
}

// Update handles messages and updates the model
func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case usersLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.users = msg.users
			m.clampCursor()
		}

	case pinsLoadedMsg:
		m.pinned = make(map[string]int, len(msg.ids))
		for i, id := range msg.ids {
			m.pinned[id] = i
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m HomeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.filter != "" {
			m.filter = ""
			m.cursor = 0
			return m, nil
		}
		return m, tea.Quit

	case "ctrl+r":
		m.loading = true
		m.err = nil
		return m, m.loadUsers()
	}

	if m.loading {
		return m, nil
	}

	visible := m.visibleUsers()

	switch msg.String() {
	case "up", "ctrl+p":
		if len(visible) > 0 {
			m.cursor = (m.cursor - 1 + len(visible)) % len(visible)
		}

	case "down", "ctrl+n":
		if len(visible) > 0 {
			m.cursor = (m.cursor + 1) % len(visible)
		}

	case "home":
		m.cursor = 0

	case "end":
		m.cursor = max(0, len(visible)-1)

	case "enter":
		if m.cursor < len(visible) {
			id := visible[m.cursor].ID
			return m, func() tea.Msg { return openPageMsg{userID: id} }
		}

	case "ctrl+t":
		if m.store != nil && m.cursor < len(visible) {
			user := visible[m.cursor]
			pinned, err := m.store.TogglePin(user.ID)
			switch {
			case err != nil:
				m.feedback = "Pin failed: " + err.Error()
			case pinned:
				m.feedback = "Pinned " + user.DisplayName()
			default:
				m.feedback = "Unpinned " + user.DisplayName()
			}
			return m, m.loadPins()
		}

	case "backspace":
		if r := []rune(m.filter); len(r) > 0 {
			m.filter = string(r[:len(r)-1])
			m.cursor = 0
		}

	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.filter += string(msg.Runes)
			m.cursor = 0
		case tea.KeySpace:
			m.filter += " "
			m.cursor = 0
		}
	}

	return m, nil
}

// visibleUsers applies the filter and orders pinned employees first
func (m HomeModel) visibleUsers() []models.User {
	filter := strings.ToLower(strings.TrimSpace(m.filter))

	var out []models.User
	for _, u := range m.users {
		if filter == "" ||
			strings.Contains(strings.ToLower(u.Name), filter) ||
			strings.Contains(strings.ToLower(u.Email), filter) ||
			strings.Contains(strings.ToLower(u.ID), filter) {
			out = append(out, u)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, iPinned := m.pinned[out[i].ID]
		pj, jPinned := m.pinned[out[j].ID]
		if iPinned != jPinned {
			return iPinned
		}
		if iPinned {
			return pi < pj
		}
		return strings.ToLower(out[i].DisplayName()) < strings.ToLower(out[j].DisplayName())
	})
	return out
}

// Selected returns the employee under the cursor
func (m HomeModel) Selected() (models.User, bool) {
	visible := m.visibleUsers()
	if m.cursor < len(visible) {
		return visible[m.cursor], true
	}
	return models.User{}, false
}

func (m *HomeModel) clampCursor() {
	if n := len(m.visibleUsers()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

// View renders the TUI
func (m HomeModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.loading {
		return loadingStyle.Render("  Loading employees...")
	}

	contentWidth := m.width - 2
	if contentWidth < 30 {
		contentWidth = 30
	}

	var sections []string
	sections = append(sections, m.renderHeader(contentWidth))

	if m.err != nil {
		sections = append(sections, FormatError(m.err), hintStyle.Render("  ctrl+r to reload"))
	} else {
		sections = append(sections, m.renderList(contentWidth))
	}

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render(m.feedback))
	}
	sections = append(sections, renderShortcuts(contentWidth, []shortcut{
		{"↑↓", "Navigate"},
		{"Enter", "Open"},
		{"^T", "Pin"},
		{"^R", "Reload"},
		{"Esc", "Quit"},
	}))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HomeModel) renderHeader(width int) string {
	title := titleStyle.Render("teamlens")
	sub := subtitleStyle.Render(fmt.Sprintf("  %d employees", len(m.users)))
	if m.client != nil {
		sub += hintStyle.Render("  •  " + m.client.ServerURL())
	}
	content := lipgloss.JoinHorizontal(lipgloss.Center, title, sub)
	if m.filter != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, inputLabelStyle.Render("Filter: ")+m.filter+"_")
	}
	return headerStyle.Width(width - 2).Render(content)
}

// renderList renders the cards that fit the window around the cursor
func (m HomeModel) renderList(width int) string {
	visible := m.visibleUsers()
	if len(visible) == 0 {
		if m.filter != "" {
			return hintStyle.Render("  No employee matches the filter")
		}
		return hintStyle.Render("  No employees")
	}

	// A card is 5 lines tall with its border
	maxItems := max(1, (m.height-8)/5)
	start := 0
	if m.cursor >= maxItems {
		start = m.cursor - maxItems + 1
	}
	end := min(start+maxItems, len(visible))

	var items []string
	if start > 0 {
		items = append(items, hintStyle.Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		u := visible[i]
		_, pinned := m.pinned[u.ID]
		items = append(items, RenderCard(u, i == m.cursor, pinned, width))
	}
	if end < len(visible) {
		items = append(items, hintStyle.Render(fmt.Sprintf("  ↓ %d more", len(visible)-end)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}
