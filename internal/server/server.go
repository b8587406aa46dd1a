// Package server exposes the backend services over a JSON REST API.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/weekplan/internal/service"
)

type Options struct {
	Tasks  service.TaskService
	Weeks  service.WeekService
	Auth   service.AuthService
	Logger *slog.Logger
	// Now supplies "today" for the current-week route. Defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	tasks  service.TaskService
	weeks  service.WeekService
	auth   service.AuthService
	logger *slog.Logger
	now    func() time.Time
}

func New(opts Options) *Server {
	s := &Server{
		tasks:  opts.Tasks,
		weeks:  opts.Weeks,
		auth:   opts.Auth,
		logger: opts.Logger,
		now:    opts.Now,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Handler returns the routed API wrapped in the standard middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "time": s.now().UTC().Format(time.RFC3339)})
	})

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("POST /api/auth/logout", s.requireAuth(s.handleLogout))
	mux.Handle("GET /api/auth/profile", s.requireAuth(s.handleProfile))
	mux.Handle("PATCH /api/auth/profile", s.requireAuth(s.handleUpdateProfile))

	mux.Handle("GET /api/tasks", s.requireAuth(s.handleListTasks))
	mux.Handle("POST /api/tasks", s.requireAuth(s.handleCreateTask))
	mux.Handle("GET /api/tasks/statistics", s.requireAuth(s.handleTaskStatistics))
	mux.Handle("GET /api/tasks/{id}", s.requireAuth(s.handleGetTask))
	mux.Handle("PATCH /api/tasks/{id}", s.requireAuth(s.handleUpdateTask))
	mux.Handle("DELETE /api/tasks/{id}", s.requireAuth(s.handleDeleteTask))
	mux.Handle("PATCH /api/tasks/{id}/assign", s.requireAuth(s.handleAssignTask))
	mux.Handle("PATCH /api/tasks/{id}/reorder", s.requireAuth(s.handleReorderTask))

	mux.Handle("GET /api/weeks", s.requireAuth(s.handleListWeeks))
	mux.Handle("POST /api/weeks", s.requireAuth(s.handleCreateWeek))
	mux.Handle("GET /api/weeks/current", s.requireAuth(s.handleCurrentWeek))
	mux.Handle("GET /api/weeks/{id}", s.requireAuth(s.handleGetWeek))
	mux.Handle("GET /api/weeks/{id}/stats", s.requireAuth(s.handleWeekStats))
	mux.Handle("PATCH /api/weeks/{id}", s.requireAuth(s.handleUpdateWeek))
	mux.Handle("DELETE /api/weeks/{id}", s.requireAuth(s.handleDeleteWeek))

	mux.Handle("GET /api/days/{id}", s.requireAuth(s.handleGetDay))
	mux.Handle("PATCH /api/days/{id}", s.requireAuth(s.handleUpdateDay))

	return Chain(mux, WithRequestID, WithRecover(s.logger), WithAccessLog(s.logger))
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server_listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
