package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/teamlens/internal/api"
	"github.com/diogo/teamlens/internal/chat"
	apierrors "github.com/diogo/teamlens/internal/errors"
	"github.com/diogo/teamlens/internal/history"
	"github.com/diogo/teamlens/internal/logger"
	"github.com/diogo/teamlens/internal/models"
	"github.com/diogo/teamlens/internal/render"
)

// HistoryStore is what the TUI needs from the history store.
// A nil store disables persistence.
type HistoryStore interface {
	ConversationFor(user models.User) (*history.Conversation, error)
	AddQuestion(id, question string) error
	AddResponse(id string, resp models.ChatResponse) error
	PinnedIDs() ([]string, error)
	TogglePin(userID string) (bool, error)
}

// Options configures the pages of the TUI
type Options struct {
	Render      render.Options
	DownloadDir string
	Logger      *logger.Logger
}

// writeClipboard is swapped in tests
var writeClipboard = clipboard.WriteAll

// pageSeq gives every page a distinct identity, so results of a closed
// page never reach a later page of the same employee.
var pageSeq atomic.Uint64

// focusArea is the part of the page that receives keys
type focusArea int

const (
	focusInput focusArea = iota
	focusSummary
	focusAnswer
)

// Message types for the page
type (
	employeeLoadedMsg struct {
		pageID uint64
		user   *models.User
		err    error
	}
	chatResponseMsg struct {
		pageID uint64
		seq    uint64
		resp   *models.ChatResponse
		err    error
	}
	graphsSavedMsg struct {
		pageID uint64
		paths  []string
		err    error
	}
	// backToHomeMsg asks the app to leave the page
	backToHomeMsg struct{}
)

// PageModel is the page of one employee: the detail view and the chat box
type PageModel struct {
	id     uint64
	client api.ClientInterface
	store  HistoryStore
	opts   Options
	log    *logger.Logger

	userID      string
	user        *models.User
	userErr     error
	loadingUser bool

	box  *chat.ChatBox
	conv *history.Conversation

	ctx    context.Context
	cancel context.CancelFunc

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	focus      focusArea
	feedback   string
	standalone bool

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewPageModel creates the page of userID. Init starts fetching the record.
func NewPageModel(client api.ClientInterface, store HistoryStore, userID string, opts Options) PageModel {
	ta := textarea.New()
	ta.Placeholder = "Ask something about this employee..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return PageModel{
		id:          pageSeq.Add(1),
		client:      client,
		store:       store,
		opts:        opts,
		log:         log.With(logger.Fields{"user": userID}),
		userID:      userID,
		loadingUser: true,
		box:         chat.NewChatBox(userID),
		ctx:         ctx,
		cancel:      cancel,
		textarea:    ta,
		spinner:     s,
	}
}

// Init starts fetching the employee
func (m PageModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.fetchEmployee(),
	)
}

// Close cancels outstanding requests and detaches the chat box
func (m PageModel) Close() {
	m.cancel()
	m.box.Close()
}

// Standalone makes esc quit instead of returning to the home list
func (m PageModel) Standalone() PageModel {
	m.standalone = true
	return m
}

// UserID returns the employee the page is keyed by
func (m PageModel) UserID() string {
	return m.userID
}

// ChatBox exposes the chat state of the page
func (m PageModel) ChatBox() *chat.ChatBox {
	return m.box
}

// Update handles messages and updates the model
func (m PageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case employeeLoadedMsg:
		if msg.pageID != m.id {
			return m, nil
		}
		m.loadingUser = false
		m.user, m.userErr = msg.user, msg.err
		if msg.err != nil {
			m.log.Warn("employee fetch failed", logger.Fields{"error": msg.err.Error()})
		} else {
			m.openConversation()
		}
		m.refresh()

	case chatResponseMsg:
		if msg.pageID != m.id {
			return m, nil
		}
		m.handleChatResponse(msg)
		m.refresh()

	case graphsSavedMsg:
		if msg.pageID != m.id {
			return m, nil
		}
		switch {
		case msg.err != nil:
			m.feedback = "Download failed: " + msg.err.Error()
		case len(msg.paths) == 0:
			m.feedback = "This employee has no graphs"
		default:
			m.feedback = fmt.Sprintf("Saved %d graph(s) to %s", len(msg.paths), filepath.Dir(msg.paths[0]))
		}

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case spinner.TickMsg:
		if m.busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			if m.loadingUser {
				m.refresh()
			}
		}
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		if m.focus == focusInput {
			m.textarea, cmd = m.textarea.Update(key)
			cmds = append(cmds, cmd)
		} else {
			m.viewport, cmd = m.viewport.Update(key)
			cmds = append(cmds, cmd)
		}
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes page-level keys. handled=false lets the key reach
// the focused component.
func (m PageModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.Close()
		return m, tea.Quit, true

	case "esc":
		m.Close()
		if m.standalone {
			return m, tea.Quit, true
		}
		return m, func() tea.Msg { return backToHomeMsg{} }, true

	case "tab":
		m.setFocus(m.nextFocus(1))
		m.refresh()
		return m, nil, true

	case "shift+tab":
		m.setFocus(m.nextFocus(-1))
		m.refresh()
		return m, nil, true

	case "enter":
		if m.focus == focusInput {
			return m.submit()
		}
		if d := m.focusedDisplay(); d != nil && d.Activate() {
			m.refresh()
		}
		return m, nil, true

	case "ctrl+r":
		return m.retry()

	case "ctrl+l":
		m.client.InvalidateEmployee(m.userID)
		m.loadingUser = true
		m.userErr = nil
		m.refresh()
		return m, tea.Batch(m.fetchEmployee(), m.spinner.Tick), true

	case "ctrl+y":
		resp, ok := m.box.Response()
		if !ok {
			m.feedback = "Nothing to copy yet"
			return m, nil, true
		}
		if err := writeClipboard(resp.Completion); err != nil {
			m.feedback = "Copy failed: " + err.Error()
		} else {
			m.feedback = "Answer copied to clipboard"
		}
		return m, nil, true

	case "ctrl+g":
		if m.user == nil {
			m.feedback = "Employee not loaded yet"
			return m, nil, true
		}
		m.feedback = "Downloading graphs..."
		return m, m.downloadGraphs(*m.user), true
	}

	return m, nil, false
}

// submit sends the draft as a new question
func (m PageModel) submit() (tea.Model, tea.Cmd, bool) {
	m.box.SetInput(m.textarea.Value())
	req, err := m.box.Submit()
	if err != nil {
		m.feedback = err.Error()
		return m, nil, true
	}
	m.textarea.Reset()
	m.feedback = ""
	m.recordQuestion(req.Question)
	m.log.Debug("question submitted", logger.Fields{"seq": req.Seq})
	m.refresh()
	return m, tea.Batch(m.ask(req), m.spinner.Tick), true
}

// retry sends the last question again
func (m PageModel) retry() (tea.Model, tea.Cmd, bool) {
	req, err := m.box.Retry()
	if err != nil {
		m.feedback = err.Error()
		return m, nil, true
	}
	m.feedback = "Retrying..."
	m.refresh()
	return m, tea.Batch(m.ask(req), m.spinner.Tick), true
}

func (m *PageModel) handleChatResponse(msg chatResponseMsg) {
	if msg.err != nil {
		if apierrors.IsCanceled(msg.err) {
			return
		}
		if m.box.Fail(msg.seq, msg.err) {
			m.log.Warn("chat request failed", logger.Fields{"seq": msg.seq, "error": msg.err.Error()})
		}
		return
	}
	if msg.resp == nil {
		return
	}
	if !m.box.Resolve(msg.seq, *msg.resp) {
		m.log.Debug("stale response dropped", logger.Fields{"seq": msg.seq})
		return
	}
	if m.feedback == "Retrying..." {
		m.feedback = ""
	}
	// A control can vanish with the new response; enter must reach the input again
	if d := m.focusedDisplay(); d != nil && (!m.box.HasResponse() || !d.IsLong()) {
		m.setFocus(focusInput)
	}
	m.recordResponse(*msg.resp)
	m.viewport.GotoBottom()
}

// openConversation binds the page to the employee's history log
func (m *PageModel) openConversation() {
	if m.store == nil {
		return
	}
	user := models.User{ID: m.userID}
	if m.user != nil {
		user = *m.user
	}
	conv, err := m.store.ConversationFor(user)
	if err != nil {
		m.log.Warn("history unavailable", logger.Fields{"error": err.Error()})
		return
	}
	m.conv = conv
}

func (m *PageModel) recordQuestion(question string) {
	if m.store == nil {
		return
	}
	if m.conv == nil {
		m.openConversation()
	}
	if m.conv == nil {
		return
	}
	if err := m.store.AddQuestion(m.conv.ID, question); err != nil {
		m.log.Warn("failed to record question", logger.Fields{"error": err.Error()})
	}
}

func (m *PageModel) recordResponse(resp models.ChatResponse) {
	if m.store == nil || m.conv == nil {
		return
	}
	if err := m.store.AddResponse(m.conv.ID, resp); err != nil {
		m.log.Warn("failed to record response", logger.Fields{"error": err.Error()})
	}
}

// fetchEmployee loads the record through the client's cache
func (m PageModel) fetchEmployee() tea.Cmd {
	client, ctx, id, userID := m.client, m.ctx, m.id, m.userID
	return func() tea.Msg {
		user, err := client.GetEmployee(ctx, userID)
		return employeeLoadedMsg{pageID: id, user: user, err: err}
	}
}

// ask issues one chat request
func (m PageModel) ask(req chat.Request) tea.Cmd {
	client, ctx, id := m.client, m.ctx, m.id
	return func() tea.Msg {
		resp, err := client.GetChatResponse(ctx, req.UserID, req.Question)
		return chatResponseMsg{pageID: id, seq: req.Seq, resp: resp, err: err}
	}
}

// downloadGraphs saves every graph of user
func (m PageModel) downloadGraphs(user models.User) tea.Cmd {
	client, ctx, id := m.client, m.ctx, m.id
	opts := api.GraphDownloadOptions{Directory: m.opts.DownloadDir}
	return func() tea.Msg {
		var paths []string
		var lastErr error
		for _, graph := range user.Graphs() {
			path, err := client.DownloadGraph(ctx, user, graph, opts)
			if err != nil {
				lastErr = err
				continue
			}
			paths = append(paths, path)
		}
		if len(paths) > 0 {
			lastErr = nil
		}
		return graphsSavedMsg{pageID: id, paths: paths, err: lastErr}
	}
}

func (m PageModel) busy() bool {
	return m.loadingUser || m.box.Pending() > 0
}

// nextFocus cycles through the input and the displays that have a control
func (m PageModel) nextFocus(step int) focusArea {
	areas := []focusArea{focusInput}
	if m.box.HasResponse() {
		if m.box.Summary().IsLong() {
			areas = append(areas, focusSummary)
		}
		if m.box.Answer().IsLong() {
			areas = append(areas, focusAnswer)
		}
	}

	cur := 0
	for i, a := range areas {
		if a == m.focus {
			cur = i
		}
	}
	next := (cur + step + len(areas)) % len(areas)
	return areas[next]
}

func (m *PageModel) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.textarea.Focus()
	} else {
		m.textarea.Blur()
	}
}

func (m PageModel) focusedDisplay() *chat.TextDisplay {
	switch m.focus {
	case focusSummary:
		return m.box.Summary()
	case focusAnswer:
		return m.box.Answer()
	}
	return nil
}

func (m *PageModel) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 3
	inputHeight := 5
	statusHeight := 2

	vpHeight := height - headerHeight - inputHeight - statusHeight
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 2
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.refresh()
}

// refresh rebuilds the viewport content from the current state
func (m *PageModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderBody(m.viewport.Width))
}

// renderBody renders the detail view and the response panel
func (m PageModel) renderBody(width int) string {
	var sections []string

	switch {
	case m.user != nil:
		sections = append(sections, RenderDetail(*m.user, width))
	case m.userErr != nil:
		sections = append(sections, FormatError(m.userErr), hintStyle.Render("  ctrl+l to reload the employee"))
	default:
		sections = append(sections, loadingStyle.Render(m.spinner.View()+" Loading employee..."))
	}

	if m.box.HasResponse() {
		sections = append(sections, m.renderResponse(width))
	}

	if err := m.box.Err(); err != nil {
		sections = append(sections, "", FormatError(err), hintStyle.Render("  ctrl+r to retry the last question"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderResponse renders the summary and completion of the shown response
func (m PageModel) renderResponse(width int) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	answer := func(text string, w int) string {
		if strings.TrimSpace(text) == "" {
			return hintStyle.Render("(empty)")
		}
		return render.Answer(text, m.opts.Render.WithWidth(w))
	}

	summary := renderSegment(m.box.Summary().View(), m.focus == focusSummary, inner, plainText)
	completion := renderSegment(m.box.Answer().View(), m.focus == focusAnswer, inner, answer)

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.sectionLabel("Relevant conversation", focusSummary),
		summary,
		"",
		m.sectionLabel("Answer", focusAnswer),
		completion,
	)
	return responsePanelStyle.Width(width - 2).Render(content)
}

func (m PageModel) sectionLabel(label string, area focusArea) string {
	if m.focus == area {
		return focusMarkerStyle.Render("▸ ") + sectionLabelStyle.Render(label)
	}
	return "  " + sectionLabelStyle.Render(label)
}

// View renders the page
func (m PageModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 2
	if contentWidth < 20 {
		contentWidth = 20
	}

	title := m.userID
	if m.user != nil {
		title = m.user.DisplayName()
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("teamlens"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(title),
	)
	header := headerStyle.Width(contentWidth - 2).Render(headerContent)

	var inputContent string
	if m.box.Pending() > 0 {
		inputContent = loadingStyle.Render(m.spinner.View() + " Waiting for the answer...")
	} else {
		inputContent = inputLabelStyle.Render("Question")
	}
	input := inputPanelStyle.Width(contentWidth - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, inputContent, m.textarea.View()),
	)

	sections := []string{header, m.viewport.View(), input}
	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render(m.feedback))
	}
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m PageModel) renderStatusBar(width int) string {
	back := "Home"
	if m.standalone {
		back = "Quit"
	}
	return renderShortcuts(width, []shortcut{
		{"Enter", "Ask/Toggle"},
		{"Tab", "Focus"},
		{"^R", "Retry"},
		{"^Y", "Copy"},
		{"^G", "Graphs"},
		{"Esc", back},
	})
}
