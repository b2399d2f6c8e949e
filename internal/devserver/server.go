package devserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/diogo/teamlens/internal/logger"
	"github.com/diogo/teamlens/internal/models"
)

// Options configures the dev server
type Options struct {
	// GraphDir, when set, is searched for {id}_{kind}.png before rendering
	GraphDir string
	// InlineGraphs returns graphs as data: URIs instead of links
	InlineGraphs bool
	Logger       *logger.Logger
}

// Server serves the insight API from a fixture
type Server struct {
	fixture *Fixture
	opts    Options
	log     *logger.Logger
	router  *mux.Router
}

// New creates a server for fixture
func New(fixture *Fixture, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	s := &Server{
		fixture: fixture,
		opts:    opts,
		log:     log,
		router:  mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(loggingMiddleware(s.log))

	s.router.HandleFunc(models.PathUsers, s.handleListUsers).Methods(http.MethodGet)
	s.router.HandleFunc("/users/{id}", s.handleGetUser).Methods(http.MethodGet)
	s.router.HandleFunc(models.PathChat, s.handleChat).Methods(http.MethodPost)
	s.router.HandleFunc("/graphs/{id}/{kind}.png", s.handleGraph).Methods(http.MethodGet)

	s.router.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods(http.MethodGet)
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(fmt.Sprintf("Server is running on %s", addr), logger.Fields{"users": len(s.fixture.Users)})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error running HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.log.Info("Server stopped gracefully.")
	return nil
}

// userJSON is the wire shape of a user
type userJSON struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	TimeGraph     string `json:"timeGraph"`
	ClustersGraph string `json:"clustersGraph"`
}

func (s *Server) toUser(e *Employee) userJSON {
	return userJSON{
		ID:            e.ID,
		Name:          e.Name,
		Email:         e.Email,
		TimeGraph:     s.graphRef(e, GraphTime),
		ClustersGraph: s.graphRef(e, GraphClusters),
	}
}

// graphRef returns the reference clients use to fetch a graph, or "" if
// the employee has none
func (s *Server) graphRef(e *Employee, kind string) string {
	if s.opts.InlineGraphs {
		data, ok, err := s.graphBytes(e, kind)
		if err != nil || !ok {
			return ""
		}
		return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	}
	if len(e.Conversations) == 0 && s.graphFile(e, kind) == "" {
		return ""
	}
	return fmt.Sprintf("/graphs/%s/%s.png", e.ID, kind)
}

// graphFile returns the pre-rendered graph file for e, if present
func (s *Server) graphFile(e *Employee, kind string) string {
	if s.opts.GraphDir == "" {
		return ""
	}
	path := filepath.Join(s.opts.GraphDir, fmt.Sprintf("%s_%s.png", e.ID, kind))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

func (s *Server) graphBytes(e *Employee, kind string) ([]byte, bool, error) {
	if path := s.graphFile(e, kind); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, err
		}
		return data, true, nil
	}
	return RenderGraph(e, kind)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users := make([]userJSON, 0, len(s.fixture.Users))
	for i := range s.fixture.Users {
		users = append(users, s.toUser(&s.fixture.Users[i]))
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	e, ok := s.fixture.Find(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, s.toUser(e))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req models.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Error to process JSON")
		return
	}

	e, ok := s.fixture.Find(strings.TrimSpace(req.UserID))
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	summary, completion := Answer(e, req.Question)
	s.log.Debug("chat answered", logger.Fields{"user": e.ID, "question_len": len(req.Question)})
	writeJSON(w, http.StatusOK, models.ChatResponse{Summary: summary, Completion: completion})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	e, ok := s.fixture.Find(vars["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	data, ok, err := s.graphBytes(e, vars["kind"])
	if err != nil {
		s.log.Error("graph rendering failed", logger.Fields{"user": e.ID, "error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Graph rendering failed")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Graph not found")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
