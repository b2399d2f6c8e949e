package history

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/diogo/teamlens/internal/models"
)

func newExportFixture(t *testing.T) (*Store, string) {
	t.Helper()
	store, _ := NewStore(t.TempDir())
	conv, _ := store.CreateConversation(ana)
	_ = store.AddQuestion(conv.ID, "What did Ana ship last week?")
	_ = store.AddResponse(conv.ID, models.ChatResponse{
		Summary:    "Worked on billing.\nPaired with Bo.",
		Completion: "The invoice exporter.",
	})
	return store, conv.ID
}

func TestExportToMarkdown(t *testing.T) {
	store, id := newExportFixture(t)

	md, err := store.ExportToMarkdown(id)
	if err != nil {
		t.Fatalf("ExportToMarkdown failed: %v", err)
	}

	for _, want := range []string{
		"# Ana Souza",
		"**Employee:** u1",
		"**Email:** ana@example.com",
		"**Questions:** 1",
		"## Question",
		"## Answer",
		"What did Ana ship last week?",
		"> Worked on billing.\n> Paired with Bo.",
		"The invoice exporter.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown should contain %q", want)
		}
	}
}

func TestExportToMarkdown_WithoutSummary(t *testing.T) {
	store, id := newExportFixture(t)

	md, err := store.ExportToMarkdownWithOptions(id, ExportOptions{Format: ExportFormatMarkdown})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(md, "Worked on billing") {
		t.Error("summary should be omitted")
	}
}

func TestExportToMarkdown_EmptyAnswer(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	conv, _ := store.CreateConversation(bo)
	_ = store.AddQuestion(conv.ID, "")

	md, err := store.ExportToMarkdown(conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md, "_(empty)_") {
		t.Error("empty content should be marked")
	}
}

func TestExportToJSON(t *testing.T) {
	store, id := newExportFixture(t)

	data, err := store.ExportToJSON(id)
	if err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	var exported struct {
		UserID   string `json:"user_id"`
		Name     string `json:"name"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
			Summary string `json:"summary"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if exported.UserID != "u1" || exported.Name != "Ana Souza" {
		t.Errorf("unexpected header: %+v", exported)
	}
	if len(exported.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(exported.Messages))
	}
	if exported.Messages[1].Summary == "" {
		t.Error("summary should be exported by default")
	}
}

func TestExport_Format(t *testing.T) {
	store, id := newExportFixture(t)

	data, err := store.Export(id, ExportOptions{Format: ExportFormatJSON})
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Error("json format should produce JSON")
	}

	data, err = store.Export(id, DefaultExportOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# ") {
		t.Error("markdown format should start with a header")
	}

	if _, err := store.Export("missing", DefaultExportOptions()); err == nil {
		t.Error("expected error for missing conversation")
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportFormat
		wantErr bool
	}{
		{"", ExportFormatMarkdown, false},
		{"md", ExportFormatMarkdown, false},
		{".json", ExportFormatJSON, false},
		{"JSON", ExportFormatJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseExportFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseExportFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFormatRelative(t *testing.T) {
	ref := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		diff time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{30 * time.Hour, "yesterday"},
		{3 * 24 * time.Hour, "3d ago"},
		{14 * 24 * time.Hour, "2w ago"},
		{90 * 24 * time.Hour, "2026-03-01"},
	}
	for _, tt := range tests {
		if got := formatRelative(tt.diff, ref); got != tt.want {
			t.Errorf("formatRelative(%v) = %q, want %q", tt.diff, got, tt.want)
		}
	}
}
