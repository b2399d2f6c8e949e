package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/teamlens/internal/api"
	"github.com/diogo/teamlens/internal/models"
)

// newLoadedPage returns a sized page whose employee has been fetched
func newLoadedPage(t *testing.T, client *api.MockClient, store HistoryStore) PageModel {
	t.Helper()
	m := NewPageModel(client, store, "u1", Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(PageModel)

	msgs := collect(m.fetchEmployee())
	loaded, ok := find[employeeLoadedMsg](msgs)
	require.True(t, ok)
	next, _ = m.Update(loaded)
	return next.(PageModel)
}

func update(t *testing.T, m PageModel, msg tea.Msg) (PageModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	page, ok := next.(PageModel)
	require.True(t, ok)
	return page, cmd
}

func TestPage_LoadsEmployee(t *testing.T) {
	m := newLoadedPage(t, newMock(), nil)

	require.NotNil(t, m.user)
	assert.Equal(t, "Ada Lovelace", m.user.Name)
	assert.False(t, m.loadingUser)
	assert.Contains(t, m.View(), "Ada Lovelace")
	assert.Contains(t, m.View(), "ada@example.com")
}

func TestPage_UnknownEmployeeShowsError(t *testing.T) {
	client := newMock()
	m := NewPageModel(client, nil, "missing", Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	loaded, ok := find[employeeLoadedMsg](collect(m.fetchEmployee()))
	require.True(t, ok)
	m, _ = update(t, m, loaded)

	assert.Nil(t, m.user)
	assert.Error(t, m.userErr)
	assert.Contains(t, m.View(), "ctrl+l")
}

func TestPage_IgnoresMessagesOfOtherPages(t *testing.T) {
	m := NewPageModel(newMock(), nil, "u1", Options{})
	other := NewPageModel(newMock(), nil, "u1", Options{})
	require.NotEqual(t, m.id, other.id)

	m, _ = update(t, m, employeeLoadedMsg{pageID: other.id, user: &testUsers[0]})
	assert.Nil(t, m.user)
	assert.True(t, m.loadingUser)

	m.box.SetInput("q")
	req, err := m.box.Submit()
	require.NoError(t, err)
	m, _ = update(t, m, chatResponseMsg{pageID: other.id, seq: req.Seq, resp: &models.ChatResponse{Completion: "x"}})
	assert.False(t, m.box.HasResponse())
}

func TestPage_SubmitAsksAndShowsResponse(t *testing.T) {
	client := newMock()
	client.ChatResponseVal = &models.ChatResponse{Summary: "Talked about engines", Completion: "She works on the analytical engine."}
	m := newLoadedPage(t, client, nil)

	m.textarea.SetValue("What does Ada work on?")
	m, cmd := update(t, m, key(tea.KeyEnter))

	assert.Equal(t, "", m.textarea.Value())
	assert.Equal(t, []string{"What does Ada work on?"}, m.box.History())
	assert.Equal(t, 1, m.box.Pending())

	resp, ok := find[chatResponseMsg](collect(cmd))
	require.True(t, ok)
	assert.Equal(t, "u1", client.LastUserID)
	assert.Equal(t, "What does Ada work on?", client.LastQuestion)

	m, _ = update(t, m, resp)
	got, ok := m.box.Response()
	require.True(t, ok)
	assert.Equal(t, "She works on the analytical engine.", got.Completion)
	assert.Equal(t, 0, m.box.Pending())
	assert.Contains(t, m.renderBody(96), "Talked about engines")
}

func TestPage_ResponsePanelVisibility(t *testing.T) {
	m := newLoadedPage(t, newMock(), nil)

	before := m.renderBody(96)
	assert.NotContains(t, before, "Relevant conversation")
	assert.NotContains(t, before, "Answer")

	// A response without summary keeps the panel hidden
	m.box.SetInput("anything?")
	empty, _ := m.box.Submit()
	m, _ = update(t, m, chatResponseMsg{pageID: m.id, seq: empty.Seq, resp: &models.ChatResponse{Completion: "Nothing"}})
	hidden := m.renderBody(96)
	assert.NotContains(t, hidden, "Relevant conversation")
	assert.NotContains(t, hidden, "Answer")

	m.box.SetInput("engines?")
	first, _ := m.box.Submit()
	m, _ = update(t, m, chatResponseMsg{pageID: m.id, seq: first.Seq, resp: &models.ChatResponse{Summary: "Talked about engines", Completion: "Analytical"}})

	assertPanel := func(body string) {
		t.Helper()
		summaryHead := strings.Index(body, "Relevant conversation")
		summary := strings.Index(body, "Talked about engines")
		answerHead := strings.Index(body, "Answer")
		answer := strings.Index(body, "Analytical")
		require.NotEqual(t, -1, summaryHead, "summary heading")
		require.NotEqual(t, -1, summary, "summary text")
		require.NotEqual(t, -1, answerHead, "answer heading")
		require.NotEqual(t, -1, answer, "answer text")
		assert.Less(t, summaryHead, summary)
		assert.Less(t, summary, answerHead)
		assert.Less(t, answerHead, answer)
	}
	assertPanel(m.renderBody(96))

	m.box.SetInput("again?")
	second, _ := m.box.Submit()
	m, _ = update(t, m, chatResponseMsg{pageID: m.id, seq: second.Seq, err: errors.New("boom")})

	afterFail := m.renderBody(96)
	assertPanel(afterFail)
	assert.Contains(t, afterFail, "ctrl+r")
}

func TestPage_FocusReturnsToInputWhenControlVanishes(t *testing.T) {
	m := newLoadedPage(t, newMock(), nil)

	m.box.SetInput("q")
	req, _ := m.box.Submit()
	long := strings.Repeat("a", 150)
	m, _ = update(t, m, chatResponseMsg{pageID: m.id, seq: req.Seq, resp: &models.ChatResponse{Summary: "short", Completion: long}})

	m, _ = update(t, m, key(tea.KeyTab))
	require.Equal(t, focusAnswer, m.focus)

	m.box.SetInput("again")
	next, _ := m.box.Submit()
	m, _ = update(t, m, chatResponseMsg{pageID: m.id, seq: next.Seq, resp: &models.ChatResponse{Summary: "short", Completion: "brief"}})

	assert.Equal(t, focusInput, m.focus)
	assert.True(t, m.textarea.Focused())

	m.textarea.SetValue("typed after")
	_, cmd := update(t, m, key(tea.KeyEnter))
	_, ok := find[chatResponseMsg](collect(cmd))
	assert.True(t, ok, "enter submits again")
}

func TestPage_EmptyQuestionIsSent(t *testing.T) {
	client := newMock()
	m := newLoadedPage(t, client, nil)

	_, cmd := update(t, m, key(tea.KeyEnter))
	_, ok := find[chatResponseMsg](collect(cmd))
	require.True(t, ok)
	assert.Equal(t, "", client.LastQuestion)
}

func TestPage_StaleResponseDropped(t *testing.T) {
	m := newLoadedPage(t, newMock(), nil)

	m.box.SetInput("first")
	first, _ := m.box.Submit()
	m.box.SetInput("second")
	second, _ := m.box.Submit()

	m, _ = update(t, m, chatResponseMsg{pageID: m.id, seq: second.Seq, resp: &models.ChatResponse{Completion: "answer two"}})
	m, _ = update(t, m, chatResponseMsg{pageID: m.id, seq: first.Seq, resp: &models.ChatResponse{Completion: "answer one"}})

	got, ok := m.box.Response()
	require.True(t, ok)
	assert.Equal(t, "answer two", got.Completion)
}

func TestPage_FailureKeepsPreviousResponse(t *testing.T) {
	m := newLoadedPage(t, newMock(), nil)

	m.box.SetInput("first")
	first, _ := m.box.Submit()
	m, _ = update(t, m, chatResponseMsg{pageID: m.id, seq: first.Seq, resp: &models.ChatResponse{Completion: "kept"}})

	m.box.SetInput("second")
	second, _ := m.box.Submit()
	m, _ = update(t, m, chatResponseMsg{pageID: m.id, seq: second.Seq, err: errors.New("boom")})

	got, ok := m.box.Response()
	require.True(t, ok)
	assert.Equal(t, "kept", got.Completion)
	assert.Error(t, m.box.Err())
	assert.Contains(t, m.renderBody(96), "ctrl+r")
}

func TestPage_CanceledRequestIsSilent(t *testing.T) {
	m := newLoadedPage(t, newMock(), nil)

	m.box.SetInput("q")
	req, _ := m.box.Submit()
	m, _ = update(t, m, chatResponseMsg{pageID: m.id, seq: req.Seq, err: context.Canceled})

	assert.NoError(t, m.box.Err())
}

func TestPage_RetryResendsLastQuestion(t *testing.T) {
	client := newMock()
	m := newLoadedPage(t, client, nil)

	_, cmd := update(t, m, key(tea.KeyCtrlR))
	assert.Nil(t, cmd)

	m.textarea.SetValue("again please")
	m, _ = update(t, m, key(tea.KeyEnter))
	m, cmd = update(t, m, key(tea.KeyCtrlR))

	_, ok := find[chatResponseMsg](collect(cmd))
	require.True(t, ok)
	assert.Equal(t, "again please", client.LastQuestion)
	assert.Len(t, m.box.History(), 1)
}

func TestPage_TabAndEnterToggleLongAnswer(t *testing.T) {
	m := newLoadedPage(t, newMock(), nil)

	m.box.SetInput("q")
	req, _ := m.box.Submit()
	long := strings.Repeat("a", 150)
	m, _ = update(t, m, chatResponseMsg{pageID: m.id, seq: req.Seq, resp: &models.ChatResponse{Summary: "short", Completion: long}})

	m, _ = update(t, m, key(tea.KeyTab))
	require.Equal(t, focusAnswer, m.focus)
	assert.Contains(t, m.renderBody(96), "Show More")

	m, _ = update(t, m, key(tea.KeyEnter))
	assert.True(t, m.box.Answer().Expanded())
	assert.Contains(t, m.renderBody(96), "Show Less")

	m, _ = update(t, m, key(tea.KeyEnter))
	assert.False(t, m.box.Answer().Expanded())

	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, focusInput, m.focus)
}

func TestPage_TabStaysOnInputWithoutLongText(t *testing.T) {
	m := newLoadedPage(t, newMock(), nil)
	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, focusInput, m.focus)
}

func TestPage_EscReturnsHome(t *testing.T) {
	m := newLoadedPage(t, newMock(), nil)

	m, cmd := update(t, m, key(tea.KeyEsc))
	require.NotNil(t, cmd)
	_, ok := cmd().(backToHomeMsg)
	assert.True(t, ok)
	assert.True(t, m.box.Closed())
	assert.Error(t, m.ctx.Err())
}

func TestPage_EscQuitsWhenStandalone(t *testing.T) {
	m := newLoadedPage(t, newMock(), nil).Standalone()

	_, cmd := update(t, m, key(tea.KeyEsc))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestPage_CopyAnswer(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	defer func() { writeClipboard = orig }()

	m := newLoadedPage(t, newMock(), nil)

	m, _ = update(t, m, key(tea.KeyCtrlY))
	assert.Equal(t, "Nothing to copy yet", m.feedback)

	m.box.SetInput("q")
	req, _ := m.box.Submit()
	m, _ = update(t, m, chatResponseMsg{pageID: m.id, seq: req.Seq, resp: &models.ChatResponse{Completion: "copy me"}})
	m, _ = update(t, m, key(tea.KeyCtrlY))

	assert.Equal(t, "copy me", copied)
	assert.Equal(t, "Answer copied to clipboard", m.feedback)
}

func TestPage_ReloadInvalidatesCache(t *testing.T) {
	client := newMock()
	m := newLoadedPage(t, client, nil)

	m, cmd := update(t, m, key(tea.KeyCtrlL))
	assert.Equal(t, []string{"u1"}, client.Invalidated)
	assert.True(t, m.loadingUser)

	_, ok := find[employeeLoadedMsg](collect(cmd))
	assert.True(t, ok)
}

func TestPage_DownloadGraphs(t *testing.T) {
	client := newMock()
	client.DownloadPath = "/tmp/graphs/u1_time.png"
	m := newLoadedPage(t, client, nil)

	m, cmd := update(t, m, key(tea.KeyCtrlG))
	saved, ok := find[graphsSavedMsg](collect(cmd))
	require.True(t, ok)
	assert.Len(t, saved.paths, 2)

	m, _ = update(t, m, saved)
	assert.Equal(t, "Saved 2 graph(s) to /tmp/graphs", m.feedback)
}

func TestPage_DownloadWithoutGraphs(t *testing.T) {
	client := newMock()
	m := NewPageModel(client, nil, "u2", Options{})
	loaded, _ := find[employeeLoadedMsg](collect(m.fetchEmployee()))
	m, _ = update(t, m, loaded)

	m, cmd := update(t, m, key(tea.KeyCtrlG))
	saved, ok := find[graphsSavedMsg](collect(cmd))
	require.True(t, ok)
	m, _ = update(t, m, saved)
	assert.Equal(t, "This employee has no graphs", m.feedback)
}

func TestPage_RecordsHistory(t *testing.T) {
	store := newStore(t)
	client := newMock()
	client.ChatResponseVal = &models.ChatResponse{Summary: "s", Completion: "c"}
	m := newLoadedPage(t, client, store)
	require.NotNil(t, m.conv)

	m.textarea.SetValue("hello")
	m, cmd := update(t, m, key(tea.KeyEnter))
	resp, ok := find[chatResponseMsg](collect(cmd))
	require.True(t, ok)
	_, _ = update(t, m, resp)

	conv, err := store.FindByUser("u1")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "hello", conv.Messages[0].Content)
	assert.Equal(t, "c", conv.Messages[1].Content)
	assert.Equal(t, "s", conv.Messages[1].Summary)
	assert.Equal(t, "Ada Lovelace", conv.Title)
}
