package history

import (
	"strings"
	"testing"
	"time"

	"github.com/diogo/teamlens/internal/models"
)

func newResolverFixture(t *testing.T) (*Store, []*Conversation) {
	t.Helper()
	store, _ := NewStore(t.TempDir())

	users := []models.User{
		{ID: "u1", Name: "Ana Souza"},
		{ID: "u2", Name: "Bo Lindqvist"},
		{ID: "u3", Name: "Ana Ribeiro"},
	}
	var convs []*Conversation
	for _, u := range users {
		conv, err := store.CreateConversation(u)
		if err != nil {
			t.Fatal(err)
		}
		convs = append(convs, conv)
		time.Sleep(10 * time.Millisecond)
	}
	return store, convs
}

func TestResolver_Aliases(t *testing.T) {
	store, convs := newResolverFixture(t)
	resolver := NewResolver(store)

	id, err := resolver.Resolve("@last")
	if err != nil {
		t.Fatalf("Resolve @last failed: %v", err)
	}
	if id != convs[2].ID {
		t.Errorf("@last = %s, want %s", id, convs[2].ID)
	}

	id, _ = resolver.Resolve("@FIRST")
	if id != convs[0].ID {
		t.Errorf("@first = %s, want %s", id, convs[0].ID)
	}
}

func TestResolver_Index(t *testing.T) {
	store, convs := newResolverFixture(t)
	resolver := NewResolver(store)

	id, err := resolver.Resolve("2")
	if err != nil {
		t.Fatalf("Resolve 2 failed: %v", err)
	}
	if id != convs[1].ID {
		t.Errorf("index 2 = %s, want %s", id, convs[1].ID)
	}

	_, err = resolver.Resolve("9")
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected out of range error, got %v", err)
	}
}

func TestResolver_IDs(t *testing.T) {
	store, convs := newResolverFixture(t)
	resolver := NewResolver(store)

	if id, _ := resolver.Resolve(convs[0].ID); id != convs[0].ID {
		t.Error("direct conversation id should resolve")
	}
	if id, _ := resolver.Resolve("u2"); id != convs[1].ID {
		t.Error("employee id should resolve")
	}
	if _, err := resolver.Resolve("conv-missing"); err == nil {
		t.Error("unknown conversation id should fail")
	}
}

func TestResolver_NameSubstring(t *testing.T) {
	store, convs := newResolverFixture(t)
	resolver := NewResolver(store)

	conv, err := resolver.ResolveWithInfo("lindq")
	if err != nil {
		t.Fatalf("ResolveWithInfo failed: %v", err)
	}
	if conv.ID != convs[1].ID {
		t.Errorf("got %s, want %s", conv.ID, convs[1].ID)
	}

	_, err = resolver.Resolve("ana")
	if err == nil || !strings.Contains(err.Error(), "multiple") {
		t.Errorf("expected ambiguity error, got %v", err)
	}

	if _, err := resolver.Resolve("zed"); err == nil {
		t.Error("expected no match error")
	}
}

func TestResolver_Empty(t *testing.T) {
	store, _ := NewStore(t.TempDir())
	resolver := NewResolver(store)

	if _, err := resolver.Resolve("  "); err == nil {
		t.Error("empty reference should fail")
	}
	if _, err := resolver.Resolve("@last"); err == nil {
		t.Error("empty store should fail")
	}
}

func TestListAliases(t *testing.T) {
	if !strings.Contains(ListAliases(), "@last") {
		t.Error("ListAliases should mention @last")
	}
}
