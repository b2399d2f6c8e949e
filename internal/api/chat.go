package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/teamlens/internal/errors"
	"github.com/diogo/teamlens/internal/models"
)

// GetChatResponse asks the service one question about userID.
// One request, one answer: no streaming and no retries.
func (c *Client) GetChatResponse(ctx context.Context, userID, question string) (*models.ChatResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	payload, err := json.Marshal(models.ChatRequest{UserID: userID, Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	body, err := c.doRequest(ctx, "chat", fhttp.MethodPost, models.PathChat, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	return parseChatResponse(body)
}

// parseChatResponse extracts summary and completion.
// A response carrying neither field is rejected.
func parseChatResponse(body []byte) (*models.ChatResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("chat response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)
	summary := parsed.Get(PathChatSummary)
	completion := parsed.Get(PathChatCompletion)
	if !summary.Exists() && !completion.Exists() {
		return nil, apierrors.NewParseError("chat response has neither summary nor completion", PathChatCompletion)
	}

	return &models.ChatResponse{
		Summary:    summary.String(),
		Completion: completion.String(),
	}, nil
}
