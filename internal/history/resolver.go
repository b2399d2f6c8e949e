package history

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolver resolves user-friendly references to conversation IDs
type Resolver struct {
	store *Store
}

// NewResolver creates a new reference resolver
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve converts a user-friendly reference to a conversation ID
//
// Supported references:
//   - "@last" - most recently asked-about employee
//   - "@first" - least recently asked-about employee
//   - "1", "2", "3" - by index (1-based)
//   - "conv-..." - direct conversation ID
//   - employee id - exact match on the user id
//   - "substring" - match on employee name (error if multiple matches)
func (r *Resolver) Resolve(ref string) (string, error) {
	conv, err := r.ResolveWithInfo(ref)
	if err != nil {
		return "", err
	}
	return conv.ID, nil
}

// ResolveWithInfo resolves a reference and returns the conversation
func (r *Resolver) ResolveWithInfo(ref string) (*Conversation, error) {
	ref = strings.TrimSpace(ref)

	if ref == "" {
		return nil, fmt.Errorf("empty reference")
	}

	conversations, err := r.store.ListConversations()
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(conversations) == 0 {
		return nil, fmt.Errorf("no conversations found")
	}

	switch strings.ToLower(ref) {
	case "@last":
		// Already sorted by UpdatedAt descending
		return conversations[0], nil
	case "@first":
		return conversations[len(conversations)-1], nil
	}

	// Numeric index (1-based)
	if index, err := strconv.Atoi(ref); err == nil && index >= 1 && index <= len(conversations) {
		return conversations[index-1], nil
	}

	for _, conv := range conversations {
		if conv.ID == ref || conv.UserID == ref {
			return conv, nil
		}
	}

	if strings.HasPrefix(ref, "conv-") {
		return nil, fmt.Errorf("conversation not found: %s", ref)
	}

	// Substring match on the employee name (case-insensitive)
	refLower := strings.ToLower(ref)
	var matches []*Conversation
	for _, conv := range conversations {
		if strings.Contains(strings.ToLower(conv.Title), refLower) {
			matches = append(matches, conv)
		}
	}

	switch len(matches) {
	case 0:
		if _, err := strconv.Atoi(ref); err == nil {
			return nil, fmt.Errorf("index %s out of range (1-%d)", ref, len(conversations))
		}
		return nil, fmt.Errorf("no conversation matching '%s'", ref)
	case 1:
		return matches[0], nil
	default:
		var titles []string
		for _, m := range matches {
			titles = append(titles, fmt.Sprintf("'%s'", m.Title))
		}
		return nil, fmt.Errorf("multiple employees match '%s': %s. Use the id or be more specific",
			ref, strings.Join(titles, ", "))
	}
}

// ListAliases returns information about supported references
func ListAliases() string {
	return `Supported references:
  @last          Most recently asked-about employee
  @first         Least recently asked-about employee
  1, 2, 3        By index (1-based, from most recent)
  <user id>      Employee id
  "text"         Search by employee name
  conv-...       Direct conversation ID`
}
