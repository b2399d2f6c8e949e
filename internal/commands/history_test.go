package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/teamlens/internal/history"
	"github.com/diogo/teamlens/internal/models"
)

func seedHistory(t *testing.T, env *testEnv) *history.Conversation {
	t.Helper()
	conv, err := env.store.ConversationFor(models.User{ID: "u1", Name: "Ada Lovelace"})
	require.NoError(t, err)
	require.NoError(t, env.store.AddQuestion(conv.ID, "What is Ada working on?"))
	require.NoError(t, env.store.AddResponse(conv.ID, models.ChatResponse{Summary: "billing sync", Completion: "Invoices."}))
	return conv
}

func TestHistoryCommand_Subcommands(t *testing.T) {
	cmd := NewHistoryCmd(nil)
	if cmd.Use != "history" {
		t.Errorf("Expected use 'history', got %s", cmd.Use)
	}

	for _, sub := range []string{"list", "show", "export", "delete", "clear"} {
		found := false
		for _, c := range cmd.Commands() {
			if c.Name() == sub {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Subcommand %s not found", sub)
		}
	}
}

func TestHistoryList(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No conversations found.")

	seedHistory(t, env)
	out, _, err = env.run(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "u1")
}

func TestHistoryShow(t *testing.T) {
	env := newTestEnv(t)
	conv := seedHistory(t, env)

	for _, ref := range []string{"1", "@last", "u1", "ada", conv.ID} {
		t.Run(ref, func(t *testing.T) {
			out, _, err := env.run(t, "history", "show", ref)
			require.NoError(t, err)
			assert.Contains(t, out, "Employee: Ada Lovelace (u1)")
			assert.Contains(t, out, "What is Ada working on?")
			assert.Contains(t, out, "↳ billing sync")
		})
	}

	_, _, err := env.run(t, "history", "show", "nobody")
	assert.Error(t, err)
}

func TestHistoryExport(t *testing.T) {
	env := newTestEnv(t)
	seedHistory(t, env)

	out, _, err := env.run(t, "history", "export", "u1", "--format", "json")
	require.NoError(t, err)
	var exported map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &exported))

	path := filepath.Join(t.TempDir(), "ada.md")
	out, _, err = env.run(t, "history", "export", "@last", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "What is Ada working on?")

	_, _, err = env.run(t, "history", "export", "u1", "--format", "pdf")
	assert.Error(t, err)
}

func TestHistoryDeleteAndClear(t *testing.T) {
	env := newTestEnv(t)
	seedHistory(t, env)

	out, _, err := env.run(t, "history", "delete", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted conversation about Ada Lovelace")

	conv, err := env.store.FindByUser("u1")
	require.NoError(t, err)
	assert.Nil(t, conv)

	seedHistory(t, env)
	out, _, err = env.run(t, "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "All conversations deleted.")

	list, err := env.store.ListConversations()
	require.NoError(t, err)
	assert.Empty(t, list)
}
