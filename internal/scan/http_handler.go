package scan

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"bookscanner/internal/httpx"
	"bookscanner/internal/ingest"
)

type HTTPHandler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHTTPHandler(svc *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger}
}

type decodeReq struct {
	Data string `json:"data" validate:"required,notblank,max=256"`
}

// Start handles POST /v1/scan-sessions
// @Summary Start a scan session
// @Tags scan
// @Produce json
// @Security Bearer
// @Success 201 {object} httpx.SuccessResponse
// @Router /scan-sessions [post]
func (h *HTTPHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	id, err := h.svc.Start(r.Context(), userID)
	if err != nil {
		h.logger.Error("start scan session", zap.String("user_id", userID), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONCreated(w, r, map[string]any{"id": id, "armed": true})
}

// Decode handles POST /v1/scan-sessions/{id}/decode
// @Summary Report a decoded barcode
// @Description Ingests the barcode once; later events are ignored until the session is re-armed
// @Tags scan
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Session ID"
// @Param request body decodeReq true "Raw barcode data"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /scan-sessions/{id}/decode [post]
func (h *HTTPHandler) Decode(w http.ResponseWriter, r *http.Request) {
	var req decodeReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	out, err := h.svc.Decode(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"), req.Data)
	if err != nil {
		h.writeLatchError(w, r, err)
		return
	}
	ingest.WriteOutcome(w, r, out)
}

// Rearm handles POST /v1/scan-sessions/{id}/rearm
// @Summary Re-arm a scan session
// @Tags scan
// @Security Bearer
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Router /scan-sessions/{id}/rearm [post]
func (h *HTTPHandler) Rearm(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Rearm(r.Context(), httpx.UserIDFrom(r), r.PathValue("id")); err != nil {
		h.writeLatchError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

func (h *HTTPHandler) writeLatchError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnknownSession):
		httpx.JSONError(w, r, http.StatusNotFound, "SCAN_SESSION_NOT_FOUND", "Scan session not found", nil)
	case errors.Is(err, ErrLatched):
		httpx.JSONError(w, r, http.StatusConflict, "SCAN_LATCHED", "Tap to scan again", nil)
	default:
		h.logger.Error("scan latch", zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
