package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Assas2401419/Guardian-Link/internal/domain/safety"
	"github.com/Assas2401419/Guardian-Link/internal/logger"
	"github.com/Assas2401419/Guardian-Link/internal/service/session"
	"github.com/Assas2401419/Guardian-Link/internal/service/supervisor"
)

// Server adapts the supervisor to HTTP and websocket clients.
type Server struct {
	// ctx carries the scoped logger for connection handling.
	ctx context.Context
	// supervisor is the single source of truth being exposed.
	supervisor *supervisor.Supervisor
}

// NewServer wires the provided supervisor into an HTTP handler set.
func NewServer(ctx context.Context, sup *supervisor.Supervisor) *Server {
	return &Server{
		ctx:        logger.WithName(ctx, "gateway"),
		supervisor: sup,
	}
}

// Handler returns the route table of the gateway.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/sos/arm", s.handleSOSArm)
	mux.HandleFunc("POST /api/sos/cancel", s.handleSOSCancel)
	mux.HandleFunc("POST /api/sos/safe", s.handleSOSSafe)
	mux.HandleFunc("POST /api/session/start", s.handleSessionStart)
	mux.HandleFunc("POST /api/session/stop", s.handleSessionStop)
	mux.HandleFunc("GET /ws", s.handleSocket)

	return mux
}

// startSessionRequest is the JSON body of POST /api/session/start.
type startSessionRequest struct {
	// ContactIDs selects the recipients from the directory.
	ContactIDs []string `json:"contact_ids"`
	// DurationMinutes bounds the session length.
	DurationMinutes int `json:"duration_minutes"`
}

// errorResponse is the JSON body returned for rejected operations.
type errorResponse struct {
	// Error is a machine-readable error code.
	Error string `json:"error"`
}

// handleState returns the current snapshot.
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.writeSnapshot(w)
}

// handleSOSArm starts the SOS countdown. Invalid transitions are no-ops and
// still return the resulting snapshot.
func (s *Server) handleSOSArm(w http.ResponseWriter, _ *http.Request) {
	s.supervisor.ArmSOS()
	s.writeSnapshot(w)
}

// handleSOSCancel aborts an armed countdown.
func (s *Server) handleSOSCancel(w http.ResponseWriter, _ *http.Request) {
	s.supervisor.CancelSOS()
	s.writeSnapshot(w)
}

// handleSOSSafe clears a fired emergency.
func (s *Server) handleSOSSafe(w http.ResponseWriter, _ *http.Request) {
	s.supervisor.MarkSafe()
	s.writeSnapshot(w)
}

// handleSessionStart opens a companion session from the request body.
func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")

		return
	}

	if req.DurationMinutes <= 0 {
		s.writeError(w, http.StatusUnprocessableEntity, "duration must be positive")

		return
	}

	ids := make([]safety.ContactID, 0, len(req.ContactIDs))
	for _, id := range req.ContactIDs {
		ids = append(ids, safety.ContactID(id))
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute

	err := s.supervisor.StartSession(r.Context(), ids, duration)

	switch {
	case err == nil:
		s.writeSnapshot(w)
	case errors.Is(err, session.ErrNoRecipients):
		s.writeError(w, http.StatusUnprocessableEntity, "no recipients selected")
	case errors.Is(err, session.ErrLocationUnavailable):
		s.writeError(w, http.StatusUnprocessableEntity, "location unavailable")
	default:
		logger.ErrorKV(s.ctx, "Session start failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// handleSessionStop ends the running session, if any.
func (s *Server) handleSessionStop(w http.ResponseWriter, _ *http.Request) {
	s.supervisor.StopSession()
	s.writeSnapshot(w)
}

// writeSnapshot serializes the current snapshot as the response.
func (s *Server) writeSnapshot(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(s.supervisor.Snapshot()); err != nil {
		logger.ErrorKV(s.ctx, "Snapshot encode failed", "error", err)
	}
}

// writeError sends a JSON error body with the provided status.
func (s *Server) writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(errorResponse{Error: code}); err != nil {
		logger.ErrorKV(s.ctx, "Error encode failed", "error", err)
	}
}
