package commands

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/teamlens/internal/models"
)

func TestListCommand(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.store.TogglePin("u2")
	require.NoError(t, err)

	out, _, err := env.run(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "★ Grace Hopper")
	assert.NotContains(t, out, "★ Ada")
}

func TestListCommand_JSON(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "list", "--json")
	require.NoError(t, err)

	var users []models.User
	require.NoError(t, json.Unmarshal([]byte(out), &users))
	assert.Len(t, users, 2)
}

func TestListCommand_Empty(t *testing.T) {
	env := newTestEnv(t)
	env.client.Users = nil

	out, _, err := env.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No employees found.")
}

func TestListCommand_Error(t *testing.T) {
	env := newTestEnv(t)
	env.client.ListErr = errors.New("connection refused")

	_, stderr, err := env.run(t, "list")
	require.Error(t, err)
	assert.Contains(t, stderr, "Failed to list employees")
}

func TestShowCommand(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "show", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Ada Lovelace")
	assert.Contains(t, out, "Email: ada@example.com")
	assert.Contains(t, out, "Time graph: /graphs/u1/time.png")
}

func TestShowCommand_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, err := env.run(t, "show", "ghost")
	require.Error(t, err)
	assert.Contains(t, stderr, "teamlens list")
}

func TestGraphLabel(t *testing.T) {
	assert.Equal(t, "(inline image)", graphLabel("data:image/png;base64,AAAA"))
	assert.Equal(t, "/g.png", graphLabel("/g.png"))
	assert.Equal(t, "", graphLabel(""))
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected unchanged, got %s", got)
	}

	if got := truncate("abcdefghijklmnopqrstuvwxyz", 5); got != "abcde..." {
		t.Fatalf("expected truncated with ellipsis, got %s", got)
	}

	if got := truncate("ãéîõü", 3); got != "ãéî..." {
		t.Fatalf("expected rune-safe truncation, got %s", got)
	}
}
