// Package chat implements the chat interaction workflow of an employee page:
// question submission, response display and progressive disclosure of long text.
//
// The types here hold state only. They never perform I/O; the caller issues
// the request described by Submit and reports the outcome through Resolve or
// Fail. Calls are expected from a single goroutine (the UI event loop).
package chat

import (
	"errors"

	"github.com/diogo/teamlens/internal/models"
)

// ErrNoUser is returned by Submit when the box is not bound to a user
var ErrNoUser = errors.New("no user selected")

// ErrClosed is returned by Submit after Close
var ErrClosed = errors.New("chat box is closed")

// Request describes one chat completion call the caller must issue.
// Seq orders requests of the same ChatBox.
type Request struct {
	Seq      uint64
	UserID   string
	Question string
}

// ChatBox owns the conversation state of one employee page.
type ChatBox struct {
	userID string

	input   string
	history []string

	summary TextDisplay
	answer  TextDisplay

	// lastSeq is the seq of the most recently submitted request,
	// shownSeq the seq of the displayed response (0 = none yet).
	lastSeq  uint64
	shownSeq uint64
	pending  map[uint64]struct{}

	err    error
	errSeq uint64

	closed bool
}

// NewChatBox creates a chat box bound to userID
func NewChatBox(userID string) *ChatBox {
	return &ChatBox{
		userID:  userID,
		pending: make(map[uint64]struct{}),
	}
}

// UserID returns the user the box asks about
func (c *ChatBox) UserID() string {
	return c.userID
}

// Input returns the current draft
func (c *ChatBox) Input() string {
	return c.input
}

// SetInput replaces the current draft
func (c *ChatBox) SetInput(s string) {
	c.input = s
}

// History returns a copy of the submitted questions, oldest first
func (c *ChatBox) History() []string {
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// Submit records the current draft as a turn and clears the draft.
// The returned Request must be issued exactly once by the caller.
// Empty questions are accepted.
func (c *ChatBox) Submit() (Request, error) {
	if c.closed {
		return Request{}, ErrClosed
	}
	if c.userID == "" {
		return Request{}, ErrNoUser
	}

	question := c.input
	c.history = append(c.history, question)
	c.input = ""

	c.lastSeq++
	c.pending[c.lastSeq] = struct{}{}

	return Request{Seq: c.lastSeq, UserID: c.userID, Question: question}, nil
}

// ErrNothingToRetry is returned by Retry before the first submission
var ErrNothingToRetry = errors.New("no question to retry")

// Retry issues the last question again without recording a new turn
// and without touching the draft.
func (c *ChatBox) Retry() (Request, error) {
	if c.closed {
		return Request{}, ErrClosed
	}
	question, ok := c.LastQuestion()
	if !ok {
		return Request{}, ErrNothingToRetry
	}

	c.lastSeq++
	c.pending[c.lastSeq] = struct{}{}

	return Request{Seq: c.lastSeq, UserID: c.userID, Question: question}, nil
}

// Resolve delivers the response of request seq.
// Responses older than the displayed one, or arriving after Close, are
// discarded and Resolve returns false.
func (c *ChatBox) Resolve(seq uint64, resp models.ChatResponse) bool {
	delete(c.pending, seq)
	if c.closed || seq <= c.shownSeq || seq > c.lastSeq {
		return false
	}

	c.shownSeq = seq
	c.summary.Reset(seq, resp.Summary)
	c.answer.Reset(seq, resp.Completion)

	if c.err != nil && c.errSeq <= seq {
		c.err = nil
		c.errSeq = 0
	}
	return true
}

// Fail records that request seq failed. The displayed response is kept.
// Failures of requests older than the displayed response are ignored.
func (c *ChatBox) Fail(seq uint64, err error) bool {
	delete(c.pending, seq)
	if c.closed || err == nil || seq < c.shownSeq || seq > c.lastSeq {
		return false
	}
	if c.err != nil && seq < c.errSeq {
		return false
	}
	c.err = err
	c.errSeq = seq
	return true
}

// Close detaches the box from its view. Outstanding responses are dropped.
func (c *ChatBox) Close() {
	c.closed = true
	c.pending = make(map[uint64]struct{})
}

// Closed reports whether Close was called
func (c *ChatBox) Closed() bool {
	return c.closed
}

// Pending returns the number of outstanding requests
func (c *ChatBox) Pending() int {
	return len(c.pending)
}

// HasResponse reports whether the response panel should be shown.
// The panel stays hidden while the summary is empty, even when a
// response with only a completion was accepted.
func (c *ChatBox) HasResponse() bool {
	return c.shownSeq > 0 && c.summary.Text() != ""
}

// Response returns the last accepted response, if any.
// It is available even while the panel is hidden.
func (c *ChatBox) Response() (models.ChatResponse, bool) {
	if c.shownSeq == 0 {
		return models.ChatResponse{}, false
	}
	return models.ChatResponse{Summary: c.summary.Text(), Completion: c.answer.Text()}, true
}

// ResponseSeq returns the seq of the displayed response (0 if none)
func (c *ChatBox) ResponseSeq() uint64 {
	return c.shownSeq
}

// Err returns the last recorded failure, cleared by a newer response
func (c *ChatBox) Err() error {
	return c.err
}

// LastQuestion returns the most recent turn, for retry
func (c *ChatBox) LastQuestion() (string, bool) {
	if len(c.history) == 0 {
		return "", false
	}
	return c.history[len(c.history)-1], true
}

// Summary returns the display of the relevant-conversation excerpt
func (c *ChatBox) Summary() *TextDisplay {
	return &c.summary
}

// Answer returns the display of the completion
func (c *ChatBox) Answer() *TextDisplay {
	return &c.answer
}
