package devserver

import (
	"fmt"
	"strings"
	"unicode"
)

// stopWords are ignored when matching a question against summaries
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "about": true, "as": true,
	"at": true, "be": true, "by": true, "did": true, "do": true, "does": true,
	"for": true, "from": true, "has": true, "have": true, "he": true, "her": true,
	"his": true, "how": true, "i": true, "in": true, "is": true, "it": true,
	"of": true, "on": true, "or": true, "she": true, "that": true, "the": true,
	"they": true, "this": true, "to": true, "was": true, "what": true, "when": true,
	"where": true, "which": true, "who": true, "with": true, "working": true, "work": true,
}

// tokenize lowercases text and splits it into content words
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 && !stopWords[f] {
			out = append(out, f)
		}
	}
	return out
}

// score counts the distinct question words that appear in the conversation.
// The project id counts as part of the summary.
func score(question []string, c Conversation) int {
	words := make(map[string]bool)
	for _, w := range tokenize(c.Summary + " " + c.ProjectID) {
		words[w] = true
	}
	n := 0
	counted := make(map[string]bool)
	for _, q := range question {
		if words[q] && !counted[q] {
			counted[q] = true
			n++
		}
	}
	return n
}

// MostRelevant picks the conversation sharing the most words with question.
// Ties go to the most recent conversation, and so does a question with no
// matching word. ok is false when there are no conversations.
func MostRelevant(convs []Conversation, question string) (Conversation, bool) {
	if len(convs) == 0 {
		return Conversation{}, false
	}

	words := tokenize(question)
	best := -1
	bestScore := -1
	for i, c := range convs {
		s := score(words, c)
		if s > bestScore || (s == bestScore && c.StartTime.After(convs[best].StartTime)) {
			best, bestScore = i, s
		}
	}
	return convs[best], true
}

// Answer builds the chat reply for a question about e
func Answer(e *Employee, question string) (summary, completion string) {
	name := e.Name
	if name == "" {
		name = e.ID
	}

	conv, ok := MostRelevant(e.Conversations, question)
	if !ok {
		return "", fmt.Sprintf("No conversations are recorded for %s yet.", name)
	}

	projects := e.Projects()
	var b strings.Builder
	fmt.Fprintf(&b, "%s took part in **%d** recorded conversation(s) across %d project(s): %s.\n\n",
		name, len(e.Conversations), len(projects), strings.Join(projects, ", "))
	fmt.Fprintf(&b, "The closest match is from **%s** in project `%s`:\n\n> %s",
		conv.StartTime.Format("Mon, 02 Jan 2006 15:04"), conv.ProjectID, conv.Summary)

	if strings.TrimSpace(question) != "" && score(tokenize(question), conv) == 0 {
		b.WriteString("\n\nNothing matched the question directly, so this is the most recent conversation.")
	}
	return conv.Summary, b.String()
}
