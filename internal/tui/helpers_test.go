package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/teamlens/internal/api"
	"github.com/diogo/teamlens/internal/history"
	"github.com/diogo/teamlens/internal/models"
)

var testUsers = []models.User{
	{ID: "u1", Name: "Ada Lovelace", Email: "ada@example.com", TimeGraph: "/graphs/u1_time.png", ClustersGraph: "/graphs/u1_clusters.png"},
	{ID: "u2", Name: "Grace Hopper", Email: "grace@example.com"},
	{ID: "u3", Name: "Alan Turing", Email: "alan@example.com"},
}

func newMock() *api.MockClient {
	return &api.MockClient{Users: append([]models.User(nil), testUsers...)}
}

func newStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

// collect runs cmd and flattens batches into the messages they produce.
// Only commands that return immediately may be passed.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// find returns the first message of type T
func find[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
