package chat

import "unicode/utf8"

// TruncateLimit is the number of characters shown for collapsed text.
// Text of exactly this length is already treated as long.
const TruncateLimit = 100

// Ellipsis marks collapsed text
const Ellipsis = "..."

// Control labels shown next to long text
const (
	ControlShowMore = "Show More"
	ControlShowLess = "Show Less"
)

// Segment is the presentation-neutral output of a TextDisplay.
// Control is empty when no toggle should be shown.
type Segment struct {
	Text    string
	Control string
}

// TextDisplay shows a string compactly and lets the user expand it.
// Its expanded flag is keyed to the identity of the text it was reset with.
type TextDisplay struct {
	key      uint64
	text     string
	expanded bool
}

// NewTextDisplay creates a collapsed display for text
func NewTextDisplay(text string) TextDisplay {
	return TextDisplay{text: text}
}

// Reset points the display at text with the given identity key.
// A new key starts collapsed, the same key keeps the current state.
func (d *TextDisplay) Reset(key uint64, text string) {
	if key != d.key {
		d.expanded = false
	}
	d.key = key
	d.text = text
}

// Key returns the identity the display state is bound to
func (d TextDisplay) Key() uint64 {
	return d.key
}

// Text returns the full underlying text
func (d TextDisplay) Text() string {
	return d.text
}

// IsLong reports whether the text needs a toggle
func (d TextDisplay) IsLong() bool {
	return utf8.RuneCountInString(d.text) >= TruncateLimit
}

// Expanded reports whether a long text is currently shown in full
func (d TextDisplay) Expanded() bool {
	return d.IsLong() && d.expanded
}

// ShowMore expands a long text. Expanding twice is a no-op.
func (d *TextDisplay) ShowMore() {
	if d.IsLong() {
		d.expanded = true
	}
}

// ShowLess collapses a long text. Collapsing twice is a no-op.
func (d *TextDisplay) ShowLess() {
	d.expanded = false
}

// Activate triggers whatever control is currently shown.
// It returns false when there is no control.
func (d *TextDisplay) Activate() bool {
	switch d.View().Control {
	case ControlShowMore:
		d.ShowMore()
	case ControlShowLess:
		d.ShowLess()
	default:
		return false
	}
	return true
}

// View renders the current state
func (d TextDisplay) View() Segment {
	if !d.IsLong() {
		return Segment{Text: d.text}
	}
	if d.expanded {
		return Segment{Text: d.text, Control: ControlShowLess}
	}
	return Segment{Text: truncateRunes(d.text, TruncateLimit) + Ellipsis, Control: ControlShowMore}
}

// truncateRunes returns the first n characters of s
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
