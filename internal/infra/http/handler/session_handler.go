package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/scandelta/api/internal/app"
	infrahttp "github.com/scandelta/api/internal/infra/http"
	"github.com/scandelta/api/pkg/apierror"
	"github.com/scandelta/api/pkg/domain/session"
	"github.com/scandelta/api/pkg/domain/shared"
	"github.com/scandelta/api/pkg/logger"
	"github.com/scandelta/api/pkg/validator"
)

// SessionHandler handles HTTP requests for comparison sessions.
type SessionHandler struct {
	service   *app.SessionService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(service *app.SessionService, v *validator.Validator, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service:   service,
		validator: v,
		logger:    log.With("handler", "session"),
	}
}

// PutDatasetRequest represents the request body for uploading a dataset.
type PutDatasetRequest struct {
	Label    string          `json:"label" validate:"max=100"`
	MinLevel string          `json:"min_level" validate:"omitempty,severity_level"`
	Document json.RawMessage `json:"document" validate:"required"`
}

// SessionResponse represents a session together with its slot occupancy.
type SessionResponse struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Datasets  []app.DatasetInfo `json:"datasets"`
}

// toSessionResponse converts a domain session to a response.
func toSessionResponse(sess *session.Session) SessionResponse {
	snapshot := app.ComputeSnapshot(sess)
	return SessionResponse{
		ID:        sess.ID.String(),
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
		Datasets:  snapshot.Datasets,
	}
}

// Create starts a new empty session.
// POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Create(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toSessionResponse(sess))
}

// Get returns a session and its slot occupancy.
// GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, apiErr := h.sessionID(r)
	if apiErr != nil {
		apiErr.WriteJSON(w)
		return
	}

	sess, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

// Delete removes a session.
// DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, apiErr := h.sessionID(r)
	if apiErr != nil {
		apiErr.WriteJSON(w)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PutDataset uploads a SARIF document into a session slot.
// PUT /api/v1/sessions/{id}/datasets/{slot}
func (h *SessionHandler) PutDataset(w http.ResponseWriter, r *http.Request) {
	id, apiErr := h.sessionID(r)
	if apiErr != nil {
		apiErr.WriteJSON(w)
		return
	}

	slot, apiErr := parsePathInt(infrahttp.PathParam(r, "slot"))
	if apiErr != nil {
		apiErr.WriteJSON(w)
		return
	}

	var req PutDatasetRequest
	if err := decodeJSON(r, &req); err != nil {
		apierror.BadRequest("invalid request body: " + err.Error()).WriteJSON(w)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		apierror.Validation("validation failed", err).WriteJSON(w)
		return
	}

	sess, err := h.service.PutDataset(r.Context(), id, app.PutDatasetInput{
		Slot:     slot,
		Label:    req.Label,
		MinLevel: req.MinLevel,
		Document: req.Document,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

// ClearSlot removes the dataset in a session slot.
// DELETE /api/v1/sessions/{id}/datasets/{slot}
func (h *SessionHandler) ClearSlot(w http.ResponseWriter, r *http.Request) {
	id, apiErr := h.sessionID(r)
	if apiErr != nil {
		apiErr.WriteJSON(w)
		return
	}

	slot, apiErr := parsePathInt(infrahttp.PathParam(r, "slot"))
	if apiErr != nil {
		apiErr.WriteJSON(w)
		return
	}

	sess, err := h.service.ClearSlot(r.Context(), id, slot)
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

// Comparison returns the derived comparison snapshot for a session.
// GET /api/v1/sessions/{id}/comparison
func (h *SessionHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	id, apiErr := h.sessionID(r)
	if apiErr != nil {
		apiErr.WriteJSON(w)
		return
	}

	snapshot, err := h.service.Snapshot(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// sessionID parses the session ID path parameter.
func (h *SessionHandler) sessionID(r *http.Request) (shared.ID, *apierror.Error) {
	raw := infrahttp.PathParam(r, "id")
	id, err := shared.IDFromString(raw)
	if err != nil {
		return shared.ID{}, apierror.BadRequest("invalid session id")
	}
	return id, nil
}

// handleError maps service errors to API error responses.
func (h *SessionHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		apierror.NotFound("session").WriteJSON(w)
	case errors.Is(err, shared.ErrSlotOutOfRange):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrValidation):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrConflict):
		apierror.Conflict(err.Error()).WriteJSON(w)
	default:
		h.logger.Error("unexpected error", "error", err)
		apierror.Internal(err).WriteJSON(w)
	}
}
