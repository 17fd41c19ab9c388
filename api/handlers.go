package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.temporal.io/sdk/log"

	"wallet-journeys/flow"
	"wallet-journeys/shared"
)

// Handlers serves the session routes.
type Handlers struct {
	Sessions Sessions
	Logger   log.Logger
}

// OpenSessionRequest is the body of POST /sessions.
type OpenSessionRequest struct {
	Role flow.Role `json:"role"`
}

// OpenSession starts a session for the requested role and returns its
// initial state.
func (h *Handlers) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !req.Role.Valid() {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}
	st, err := h.Sessions.Open(r.Context(), req.Role)
	if err != nil {
		h.fail(w, "open session", err)
		return
	}
	h.Logger.Info("Session opened", "sessionId", st.SessionID, "role", st.Role)
	writeJSON(w, http.StatusCreated, st)
}

// PostEvent forwards one event to the session. A refused event is not an
// HTTP error: the returned state carries it as lastError.
func (h *Handlers) PostEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var ev shared.SessionEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid event body", http.StatusBadRequest)
		return
	}
	if ev.Type == "" {
		http.Error(w, "missing event type", http.StatusBadRequest)
		return
	}
	st, err := h.Sessions.Send(r.Context(), id, ev)
	if err != nil {
		h.fail(w, "send event", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// GetSession returns the current state of a session.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.Sessions.State(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "query session", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handlers) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	h.Logger.Error("Session request failed", "op", op, "error", err)
	http.Error(w, "session backend unavailable", http.StatusBadGateway)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
