package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diogo/teamlens/internal/api"
	"github.com/diogo/teamlens/internal/config"
	"github.com/diogo/teamlens/internal/history"
	"github.com/diogo/teamlens/internal/models"
	"github.com/diogo/teamlens/internal/tui"
)

// fakeTUI records how the TUI was started
type fakeTUI struct {
	appCalls  int
	pageUsers []string
	store     tui.HistoryStore
	opts      tui.Options
}

func (f *fakeTUI) RunApp(client api.ClientInterface, store tui.HistoryStore, opts tui.Options) error {
	f.appCalls++
	f.store = store
	f.opts = opts
	return nil
}

func (f *fakeTUI) RunPage(client api.ClientInterface, store tui.HistoryStore, userID string, opts tui.Options) error {
	f.pageUsers = append(f.pageUsers, userID)
	f.store = store
	f.opts = opts
	return nil
}

type testEnv struct {
	deps   *Dependencies
	client *api.MockClient
	store  *history.Store
	tui    *fakeTUI
	home   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := history.NewStore(t.TempDir())
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.DownloadDir = t.TempDir()

	client := &api.MockClient{
		Users: []models.User{
			{ID: "u1", Name: "Ada Lovelace", Email: "ada@example.com", TimeGraph: "/graphs/u1/time.png", ClustersGraph: "/graphs/u1/clusters.png"},
			{ID: "u2", Name: "Grace Hopper", Email: "grace@example.com"},
		},
		ChatResponseVal: &models.ChatResponse{Summary: "Talked about billing", Completion: "Ada is fixing invoice retries."},
	}
	fake := &fakeTUI{}

	return &testEnv{
		deps:   &Dependencies{Client: client, Store: store, Config: &cfg, TUI: fake},
		client: client,
		store:  store,
		tui:    fake,
		home:   home,
	}
}

// run executes the root command with args and returns stdout and stderr
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return e.runWithInput(t, nil, args...)
}

func (e *testEnv) runWithInput(t *testing.T, stdin *bytes.Buffer, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd(e.deps)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if stdin != nil {
		cmd.SetIn(stdin)
	} else {
		cmd.SetIn(&bytes.Buffer{})
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
