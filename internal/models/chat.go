package models

// ChatRequest is the body of a chat completion request
type ChatRequest struct {
	UserID   string `json:"userId"`
	Question string `json:"question"`
}

// ChatResponse is the answer to one question.
// Summary is the most relevant prior conversation excerpt, Completion the answer.
type ChatResponse struct {
	Summary    string `json:"summary"`
	Completion string `json:"completion"`
}

// IsEmpty reports whether both fields are empty
func (r *ChatResponse) IsEmpty() bool {
	return r == nil || (r.Summary == "" && r.Completion == "")
}
