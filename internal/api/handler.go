// Package api provides the HTTP handlers for the TalkTutor API.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"TalkTutor/internal/resolve"
	"TalkTutor/internal/scenario"
	"TalkTutor/internal/session"

	"github.com/go-chi/chi/v5"
)

// maxRequestBodySize bounds conversation request bodies (1MB).
const maxRequestBodySize = 1 << 20

// Conversations is the orchestration surface the handlers delegate to.
type Conversations interface {
	Converse(ctx context.Context, sessionID, userMessage, scenario, level string) (resolve.Reply, error)
	History(sessionID string) []session.Message
	Clear(sessionID string)
}

// ConversationRequest is the body of POST /sessions/{sessionID}. Scenario
// and proficiencyLevel are optional; empty values leave an existing
// session's instruction untouched.
type ConversationRequest struct {
	UserMessage      string `json:"userMessage"`
	Scenario         string `json:"scenario"`
	ProficiencyLevel string `json:"proficiencyLevel"`
}

// Handler handles conversation and catalog HTTP requests.
type Handler struct {
	tutor   Conversations
	catalog *scenario.Catalog
}

// NewHandler creates a Handler.
func NewHandler(tutor Conversations, catalog *scenario.Catalog) *Handler {
	return &Handler{tutor: tutor, catalog: catalog}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Post("/", h.handleConverse)
		r.Get("/history", h.handleHistory)
		r.Delete("/", h.handleClear)
	})
	r.Get("/scenarios", h.handleScenarios)
}

// handleConverse handles POST /sessions/{sessionID}. The reply body is
// well-formed for every outcome; only an upstream completion failure turns
// the status into 500.
func (h *Handler) handleConverse(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req ConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserMessage == "" {
		Error(w, http.StatusBadRequest, "userMessage is required")
		return
	}

	// A scenario matching a catalog ID is expanded to its description so the
	// instruction reads as a situation, not a slug. Unknown values pass
	// through as free-form scenario text.
	scenarioText := req.Scenario
	if sc, ok := h.catalog.Describe(req.Scenario); ok {
		scenarioText = sc.Description
	}

	reply, err := h.tutor.Converse(r.Context(), sessionID, req.UserMessage, scenarioText, req.ProficiencyLevel)
	if err != nil {
		JSON(w, http.StatusInternalServerError, reply)
		return
	}
	JSON(w, http.StatusOK, reply)
}

// handleHistory handles GET /sessions/{sessionID}/history.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	JSON(w, http.StatusOK, h.tutor.History(sessionID))
}

// handleClear handles DELETE /sessions/{sessionID}.
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	h.tutor.Clear(sessionID)
	w.WriteHeader(http.StatusOK)
}

// handleScenarios handles GET /scenarios.
func (h *Handler) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, h.catalog.List())
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
