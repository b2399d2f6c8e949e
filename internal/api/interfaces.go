package api

import (
	"context"

	"github.com/diogo/teamlens/internal/models"
)

// ClientInterface is what the UI and commands need from the service.
// *Client and *MockClient satisfy it.
type ClientInterface interface {
	GetEmployee(ctx context.Context, userID string) (*models.User, error)
	ListEmployees(ctx context.Context) ([]models.User, error)
	InvalidateEmployee(userID string)
	GetChatResponse(ctx context.Context, userID, question string) (*models.ChatResponse, error)
	DownloadGraph(ctx context.Context, user models.User, graph models.Graph, opts GraphDownloadOptions) (string, error)
	ServerURL() string
	Close()
	IsClosed() bool
}

var _ ClientInterface = (*Client)(nil)
