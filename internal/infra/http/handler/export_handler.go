package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/scandelta/api/internal/app"
	infrahttp "github.com/scandelta/api/internal/infra/http"
	"github.com/scandelta/api/pkg/apierror"
	"github.com/scandelta/api/pkg/domain/shared"
	"github.com/scandelta/api/pkg/logger"
)

// ExportHandler serves CSV exports of comparison snapshots.
type ExportHandler struct {
	sessions *app.SessionService
	exports  *app.ExportService
	logger   *logger.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(sessions *app.SessionService, exports *app.ExportService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		sessions: sessions,
		exports:  exports,
		logger:   log.With("handler", "export"),
	}
}

// Export streams one sheet of a session's snapshot as CSV.
// GET /api/v1/sessions/{id}/export?sheet=comparison|rules
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	rawID := infrahttp.PathParam(r, "id")
	id, err := shared.IDFromString(rawID)
	if err != nil {
		apierror.BadRequest("invalid session id").WriteJSON(w)
		return
	}

	sheet := infrahttp.QueryParamDefault(r, "sheet", app.SheetComparison)
	if !app.ValidSheet(sheet) {
		apierror.BadRequest("sheet must be one of: comparison, rules").WriteJSON(w)
		return
	}

	snapshot, err := h.sessions.Snapshot(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			apierror.NotFound("session").WriteJSON(w)
			return
		}
		h.logger.Error("unexpected error", "error", err)
		apierror.Internal(err).WriteJSON(w)
		return
	}

	filename := fmt.Sprintf("%s-%s.csv", sheet, rawID)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if err := h.exports.WriteSheet(w, snapshot, sheet); err != nil {
		// Headers are already sent; the truncated body is all we can signal.
		h.logger.Error("csv export failed", "error", err, "session_id", rawID, "sheet", sheet)
	}
}
