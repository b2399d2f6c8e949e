// Package devserver is a local stand-in for the employee insight service.
// It serves users, chat answers and graphs from a JSON fixture.
package devserver

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

//go:embed fixtures/default.json
var defaultFixture []byte

// Conversation is one recorded conversation of an employee
type Conversation struct {
	Summary   string    `json:"summary"`
	ProjectID string    `json:"projectId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Employee is a fixture user with the conversations the service knows about
type Employee struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Conversations []Conversation `json:"conversations"`
}

// Fixture is the full data set served by the dev server
type Fixture struct {
	Users []Employee `json:"users"`
}

// DefaultFixture returns the built-in data set
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixture reads a fixture file
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes and validates a fixture
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	seen := make(map[string]bool, len(f.Users))
	for i := range f.Users {
		u := &f.Users[i]
		u.ID = strings.TrimSpace(u.ID)
		if u.ID == "" {
			return nil, fmt.Errorf("fixture user %d has no id", i)
		}
		if seen[u.ID] {
			return nil, fmt.Errorf("duplicate fixture user id %q", u.ID)
		}
		seen[u.ID] = true

		sort.SliceStable(u.Conversations, func(a, b int) bool {
			return u.Conversations[a].StartTime.Before(u.Conversations[b].StartTime)
		})
	}
	return &f, nil
}

// Find returns the employee with id
func (f *Fixture) Find(id string) (*Employee, bool) {
	for i := range f.Users {
		if f.Users[i].ID == id {
			return &f.Users[i], true
		}
	}
	return nil, false
}

// Projects returns the distinct project ids in first-seen order
func (e *Employee) Projects() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range e.Conversations {
		if !seen[c.ProjectID] {
			seen[c.ProjectID] = true
			out = append(out, c.ProjectID)
		}
	}
	return out
}
