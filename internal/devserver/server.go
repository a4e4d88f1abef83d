// Package devserver provides a local stand-in for the auth and insights services.
package devserver

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/finsight/internal/auth"
	"github.com/theirongolddev/finsight/internal/store"
)

//go:embed sample.json
var samplePayload []byte

// Users is the part of the store the server reads.
type Users interface {
	FindUserByEmail(ctx context.Context, email string) (store.User, error)
	FindUserByID(ctx context.Context, id string) (store.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// Config controls the server runtime behavior.
type Config struct {
	Addr        string
	FixturesDir string
}

// Status is served at /v1/status.
type Status struct {
	StartedAt    time.Time `json:"started_at"`
	Addr         string    `json:"addr"`
	FixturesDir  string    `json:"fixtures_dir,omitempty"`
	Users        int       `json:"users"`
	Requests     int64     `json:"requests"`
	LastError    string    `json:"last_error,omitempty"`
	LastErrorAt  time.Time `json:"last_error_at,omitzero"`
	InsightsHits int64     `json:"insights_served"`
}

// Server serves the auth and insights endpoints.
type Server struct {
	cfg    Config
	users  Users
	tokens *auth.Issuer
	log    logrus.FieldLogger

	startedAt    time.Time
	requests     atomic.Int64
	insightsHits atomic.Int64

	mu          sync.Mutex
	lastError   string
	lastErrorAt time.Time
}

// New returns a server with the provided config.
func New(cfg Config, users Users, tokens *auth.Issuer, log logrus.FieldLogger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:3000"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		cfg:       cfg,
		users:     users,
		tokens:    tokens,
		log:       log,
		startedAt: time.Now(),
	}
}

// Handler returns the router with every endpoint mounted.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/me", s.handleMe).Methods(http.MethodGet)
	r.HandleFunc("/insights/{userID}", s.handleInsights).Methods(http.MethodGet)
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.WithField("addr", ln.Addr().String()).Info("dev server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("dev server shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("dev server: %w", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.requests.Add(1)

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.code,
			"duration": time.Since(start),
		}).Info("request")
	})
}

func (s *Server) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastErrorAt = time.Now()
	s.mu.Unlock()
	s.log.WithError(err).Warn("request failed")
}

func (s *Server) snapshotStatus(ctx context.Context) Status {
	n, err := s.users.CountUsers(ctx)
	if err != nil {
		s.recordError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		StartedAt:    s.startedAt,
		Addr:         s.cfg.Addr,
		FixturesDir:  s.cfg.FixturesDir,
		Users:        n,
		Requests:     s.requests.Load(),
		LastError:    s.lastError,
		LastErrorAt:  s.lastErrorAt,
		InsightsHits: s.insightsHits.Load(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus(r.Context()))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := s.users.FindUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.recordError(err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		s.recordError(err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.log.WithField("user", u.ID).Info("user logged in")
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	id, err := s.tokens.Verify(strings.TrimSpace(raw))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	u, err := s.users.FindUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		s.recordError(err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{"id": u.ID, "email": u.Email, "name": u.Name},
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	if userID == "" || userID != filepath.Base(userID) || strings.HasPrefix(userID, ".") {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if s.cfg.FixturesDir != "" {
		data, err := os.ReadFile(filepath.Join(s.cfg.FixturesDir, userID+".json"))
		switch {
		case err == nil:
			s.insightsHits.Add(1)
			writeRaw(w, data)
			return
		case !os.IsNotExist(err):
			s.recordError(err)
			writeError(w, http.StatusInternalServerError, "reading fixture")
			return
		}
	}

	if _, err := s.users.FindUserByID(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no insights for user")
			return
		}
		s.recordError(err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.insightsHits.Add(1)
	writeRaw(w, samplePayload)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
