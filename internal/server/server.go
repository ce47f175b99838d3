package server

import (
	"embed"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"daylist/internal/api"
	"daylist/internal/task"
)

//go:embed web
var webFS embed.FS

const maxTaskTextLen = 100

// Server is the daylist REST API plus the static app shell.
type Server struct {
	repo Repository
	mux  *http.ServeMux
}

// NewServer wires the routes over the given repository.
func NewServer(repo Repository) *Server {
	srv := &Server{
		repo: repo,
		mux:  http.NewServeMux(),
	}

	srv.mux.HandleFunc("GET /healthz", srv.handleHealth)

	srv.mux.HandleFunc("POST /api/tasks", srv.handleCreateTask)
	srv.mux.HandleFunc("GET /api/tasks", srv.handleListAll)
	srv.mux.HandleFunc("GET /api/tasks/{date}", srv.handleListByDate)
	srv.mux.HandleFunc("PUT /api/tasks/{id}", srv.handleUpdateTask)
	srv.mux.HandleFunc("DELETE /api/tasks/{id}", srv.handleDeleteTask)
	srv.mux.HandleFunc("GET /api/stats", srv.handleStats)

	shell, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	srv.mux.Handle("GET /", http.FileServerFS(shell))

	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withMiddleware(s.mux).ServeHTTP(w, r)
}

func withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("method=%s path=%s dur=%s", r.Method, r.URL.Path, time.Since(start))
	})
}

// ---- handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

type createTaskRequest struct {
	Text      string `json:"text"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text must not be empty")
		return
	}
	if len([]rune(text)) > maxTaskTextLen {
		writeError(w, http.StatusBadRequest, "text must be at most 100 characters")
		return
	}
	if !task.ValidKey(req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	created, err := s.repo.Create(r.Context(), text, req.Date, req.Completed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListAll(w http.ResponseWriter, r *http.Request) {
	groups, err := s.repo.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if groups == nil {
		groups = []api.DateGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleListByDate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !task.ValidKey(date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	tasks, err := s.repo.ListByDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tasks == nil {
		tasks = []api.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

type updateTaskRequest struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == nil && req.Completed == nil {
		writeError(w, http.StatusBadRequest, "provide at least one field: text or completed")
		return
	}
	if req.Text != nil {
		t := strings.TrimSpace(*req.Text)
		if t == "" {
			writeError(w, http.StatusBadRequest, "text must not be empty")
			return
		}
		if len([]rune(t)) > maxTaskTextLen {
			writeError(w, http.StatusBadRequest, "text must be at most 100 characters")
			return
		}
		*req.Text = t
	}

	updated, err := s.repo.Update(r.Context(), r.PathValue("id"), req.Text, req.Completed)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repo.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
