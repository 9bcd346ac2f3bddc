// File: internal/controlplane/server.go

// Package controlplane exposes a small local HTTP API for inspecting and
// steering a running bot: status, runtime, pause/terminate toggles, profile
// import/export and item lookups.
package controlplane

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nullmantle/pixelpilot/internal/botconfig"
	"github.com/nullmantle/pixelpilot/internal/config"
	"github.com/nullmantle/pixelpilot/internal/control"
	"github.com/nullmantle/pixelpilot/internal/itemdb"
	"github.com/nullmantle/pixelpilot/internal/params"
)

// breakSource is implemented by profiles carrying a break descriptor. After
// a successful config import the server pushes the current descriptor to
// the controller so break scheduling follows profile edits immediately.
type breakSource interface {
	BreakSettings() params.BreakConfig
}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes caps profile uploads; a bot profile is a few KB at most.
const maxBodyBytes = 1 << 20

// Server is the local control-plane HTTP server. All state it reports or
// mutates lives on the injected controller; the server itself only holds the
// session identity and the optional profile target.
type Server struct {
	cfg       config.APIConfig
	ctrl      *control.Controller
	items     *itemdb.DB
	log       *zap.Logger
	sessionID string

	// writeLimiter throttles state-changing requests.
	writeLimiter *rate.Limiter

	mu      sync.Mutex
	profile any // struct pointer handled by botconfig, nil when no bot is attached

	httpSrv *http.Server
}

// New builds a Server around an execution controller. The item database and
// profile target are optional; their endpoints report 404 / 409 when absent.
func New(cfg config.APIConfig, ctrl *control.Controller, items *itemdb.DB, logger *zap.Logger) *Server {
	s := &Server{
		cfg:          cfg,
		ctrl:         ctrl,
		items:        items,
		log:          logger.Named("controlplane"),
		sessionID:    uuid.NewString(),
		writeLimiter: rate.NewLimiter(rate.Limit(cfg.WriteRateLimit), cfg.WriteRateBurst),
	}
	s.httpSrv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// SetProfile attaches the bot profile the /api/config endpoints operate on.
// target must be a struct pointer understood by botconfig.
func (s *Server) SetProfile(target any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = target
}

// SessionID returns the identity minted for this server instance.
func (s *Server) SessionID() string { return s.sessionID }

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/runtime", s.handleRuntime).Methods(http.MethodGet)

	api.HandleFunc("/control/terminate", s.handleGetTerminate).Methods(http.MethodGet)
	api.HandleFunc("/control/pause", s.handleGetPause).Methods(http.MethodGet)
	api.Handle("/control/terminate", s.limitWrites(http.HandlerFunc(s.handleSetTerminate))).Methods(http.MethodPost)
	api.Handle("/control/pause", s.limitWrites(http.HandlerFunc(s.handleSetPause))).Methods(http.MethodPost)
	api.Handle("/control/break", s.limitWrites(http.HandlerFunc(s.handleProposeBreak))).Methods(http.MethodPost)

	api.HandleFunc("/config", s.handleGetConfig).Methods(http.MethodGet)
	api.Handle("/config", s.limitWrites(http.HandlerFunc(s.handleSetConfig))).Methods(http.MethodPost)

	api.HandleFunc("/items/search", s.handleItemSearch).Methods(http.MethodGet)

	r.Use(s.logRequests)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("control plane listening", zap.String("addr", s.cfg.ListenAddr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("graceful shutdown failed", zap.Error(err))
		return err
	}
	s.log.Info("control plane stopped")
	return <-errCh
}

// --- Middleware ---

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
		)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limitWrites(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.writeLimiter.Allow() {
			s.writeError(w, http.StatusTooManyRequests, "too many control requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- Handlers ---

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"session": s.sessionID,
		"running": !s.ctrl.Terminated(),
		"paused":  s.ctrl.Paused(),
		"break":   s.ctrl.OnBreak(),
		"runtime": s.ctrl.Runtime().Seconds(),
	})
}

func (s *Server) handleRuntime(w http.ResponseWriter, r *http.Request) {
	elapsed := s.ctrl.Runtime()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"runtime_seconds": elapsed.Seconds(),
		"formatted":       formatRuntime(elapsed),
		"started_at":      s.ctrl.StartedAt().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetTerminate(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"terminate": s.ctrl.Terminated()})
}

func (s *Server) handleGetPause(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"pause": s.ctrl.Paused()})
}

// flagRequest is the body for the terminate and pause toggles. A missing
// body means "set".
type flagRequest struct {
	Value *bool `json:"value"`
}

func (s *Server) readFlag(r *http.Request) (bool, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return false, err
	}
	if len(body) == 0 {
		return true, nil
	}
	var req flagRequest
	if err := jsonAPI.Unmarshal(body, &req); err != nil {
		return false, err
	}
	if req.Value == nil {
		return true, nil
	}
	return *req.Value, nil
}

func (s *Server) handleSetTerminate(w http.ResponseWriter, r *http.Request) {
	val, err := s.readFlag(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	s.ctrl.SetTerminate(val)
	s.writeJSON(w, http.StatusOK, map[string]any{"terminate": s.ctrl.Terminated()})
}

func (s *Server) handleSetPause(w http.ResponseWriter, r *http.Request) {
	val, err := s.readFlag(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	s.ctrl.SetPause(val)
	s.writeJSON(w, http.StatusOK, map[string]any{"pause": s.ctrl.Paused()})
}

func (s *Server) handleProposeBreak(w http.ResponseWriter, r *http.Request) {
	s.ctrl.ProposeBreak()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"break":       s.ctrl.OnBreak(),
		"break_until": s.ctrl.BreakUntil().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		s.writeError(w, http.StatusNotFound, "no bot profile attached")
		return
	}
	exported, err := botconfig.Export(s.profile)
	if err != nil {
		s.log.Error("profile export failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "profile export failed")
		return
	}
	s.writeJSON(w, http.StatusOK, exported)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		s.writeError(w, http.StatusConflict, "no bot profile attached")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := botconfig.ImportJSON(s.profile, body); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if src, ok := s.profile.(breakSource); ok {
		s.ctrl.SetBreaks(src.BreakSettings())
	}
	exported, err := botconfig.Export(s.profile)
	if err != nil {
		s.log.Error("profile export failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "profile export failed")
		return
	}
	s.writeJSON(w, http.StatusOK, exported)
}

func (s *Server) handleItemSearch(w http.ResponseWriter, r *http.Request) {
	if s.items == nil {
		s.writeError(w, http.StatusNotFound, "item database not loaded")
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	results := s.items.Search(query, limit)
	out := make([]map[string]any, 0, len(results))
	for _, info := range results {
		out = append(out, map[string]any{
			"id":   info.ID,
			"name": info.Name,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": out})
}

// --- Response helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsonAPI.NewEncoder(w).Encode(payload); err != nil {
		s.log.Warn("response write failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]any{"error": msg})
}

// formatRuntime renders an elapsed duration as HH:MM:SS.
func formatRuntime(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
