package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/teamlens/internal/api"
)

// AppModel routes between the home list and employee pages
type AppModel struct {
	client api.ClientInterface
	store  HistoryStore
	opts   Options

	home   HomeModel
	page   PageModel
	onPage bool

	width  int
	height int
}

// NewAppModel creates the app starting on the home list
func NewAppModel(client api.ClientInterface, store HistoryStore, opts Options) AppModel {
	return AppModel{
		client: client,
		store:  store,
		opts:   opts,
		home:   NewHomeModel(client, store),
	}
}

// Init initializes the home list
func (m AppModel) Init() tea.Cmd {
	return m.home.Init()
}

// Update handles navigation and delegates everything else to the active screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		home, _ := m.home.Update(msg)
		m.home = home.(HomeModel)
		if m.onPage {
			page, cmd := m.page.Update(msg)
			m.page = page.(PageModel)
			return m, cmd
		}
		return m, nil

	case openPageMsg:
		return m.openPage(msg.userID)

	case backToHomeMsg:
		if m.onPage {
			m.page.Close()
			m.onPage = false
		}
		return m, nil

	case usersLoadedMsg, pinsLoadedMsg:
		home, cmd := m.home.Update(msg)
		m.home = home.(HomeModel)
		return m, cmd
	}

	if m.onPage {
		page, cmd := m.page.Update(msg)
		m.page = page.(PageModel)
		return m, cmd
	}

	home, cmd := m.home.Update(msg)
	m.home = home.(HomeModel)
	return m, cmd
}

// openPage replaces any open page with the page of userID
func (m AppModel) openPage(userID string) (tea.Model, tea.Cmd) {
	if m.onPage {
		m.page.Close()
	}
	m.page = NewPageModel(m.client, m.store, userID, m.opts)
	m.onPage = true

	cmds := []tea.Cmd{m.page.Init()}
	if m.width > 0 {
		page, cmd := m.page.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.page = page.(PageModel)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View renders the active screen
func (m AppModel) View() string {
	if m.onPage {
		return m.page.View()
	}
	return m.home.View()
}

// OnPage reports whether an employee page is open, and which
func (m AppModel) OnPage() (string, bool) {
	if !m.onPage {
		return "", false
	}
	return m.page.UserID(), true
}

// RunApp starts the TUI on the home list
func RunApp(client api.ClientInterface, store HistoryStore, opts Options) error {
	p := tea.NewProgram(
		NewAppModel(client, store, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

// RunPage starts the TUI directly on the page of userID; esc quits
func RunPage(client api.ClientInterface, store HistoryStore, userID string, opts Options) error {
	page := NewPageModel(client, store, userID, opts).Standalone()

	p := tea.NewProgram(
		page,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	page.Close()
	return err
}
