package api

import (
	"context"
	"sync"

	apierrors "github.com/diogo/teamlens/internal/errors"
	"github.com/diogo/teamlens/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	// Mock return values
	Users           []models.User
	GetEmployeeErr  error
	ListErr         error
	ChatResponseVal *models.ChatResponse
	ChatErr         error
	DownloadPath    string
	DownloadErr     error
	ServerURLVal    string
	IsClosedVal     bool

	// ChatFunc, when set, replaces ChatResponseVal/ChatErr
	ChatFunc func(ctx context.Context, userID, question string) (*models.ChatResponse, error)

	// Call counters/recorders
	mu               sync.Mutex
	GetEmployeeCalls int
	ChatCalls        int
	Invalidated      []string
	LastUserID       string
	LastQuestion     string
	CloseCalled      bool
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) GetEmployee(ctx context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	m.GetEmployeeCalls++
	m.LastUserID = userID
	m.mu.Unlock()

	if m.GetEmployeeErr != nil {
		return nil, m.GetEmployeeErr
	}
	for _, u := range m.Users {
		if u.ID == userID {
			user := u
			return &user, nil
		}
	}
	return nil, apierrors.NewAPIError(404, "/users/"+userID, "user not found")
}

func (m *MockClient) ListEmployees(ctx context.Context) ([]models.User, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	users := make([]models.User, len(m.Users))
	copy(users, m.Users)
	return users, nil
}

func (m *MockClient) InvalidateEmployee(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated = append(m.Invalidated, userID)
}

func (m *MockClient) GetChatResponse(ctx context.Context, userID, question string) (*models.ChatResponse, error) {
	m.mu.Lock()
	m.ChatCalls++
	m.LastUserID = userID
	m.LastQuestion = question
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, userID, question)
	}
	if m.ChatErr != nil {
		return nil, m.ChatErr
	}
	if m.ChatResponseVal == nil {
		return &models.ChatResponse{}, nil
	}
	resp := *m.ChatResponseVal
	return &resp, nil
}

func (m *MockClient) DownloadGraph(ctx context.Context, user models.User, graph models.Graph, opts GraphDownloadOptions) (string, error) {
	return m.DownloadPath, m.DownloadErr
}

func (m *MockClient) ServerURL() string {
	if m.ServerURLVal == "" {
		return models.DefaultServerURL
	}
	return m.ServerURLVal
}

func (m *MockClient) Close() {
	m.CloseCalled = true
	m.IsClosedVal = true
}

func (m *MockClient) IsClosed() bool {
	return m.IsClosedVal
}

// Calls returns the recorded call counts safely
func (m *MockClient) Calls() (getEmployee, chat int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GetEmployeeCalls, m.ChatCalls
}
