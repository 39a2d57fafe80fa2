package ingest

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"bookscanner/internal/httpx"
)

type HTTPHandler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHTTPHandler(svc *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger}
}

type addReq struct {
	ISBN string `json:"isbn" validate:"required,notblank,max=64"`
}

// StatusCode is the HTTP status an outcome is reported with.
func StatusCode(s Status) int {
	switch s {
	case StatusAdded:
		return http.StatusCreated
	case StatusDuplicate:
		return http.StatusConflict
	case StatusNotFound:
		return http.StatusNotFound
	case StatusLookupFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type outcomeBody struct {
	Outcome
	Message string `json:"message"`
}

// WriteOutcome renders an ingestion outcome. Every entry point that ingests
// uses it so the client sees one shape.
func WriteOutcome(w http.ResponseWriter, r *http.Request, out Outcome) {
	if out.Status == StatusAdded {
		httpx.JSONCreated(w, r, outcomeBody{Outcome: out, Message: out.Message()})
		return
	}
	httpx.JSONError(w, r, StatusCode(out.Status), string(out.Status), out.Message(), nil)
}

// Add handles POST /v1/library
// @Summary Add a book by ISBN
// @Description Looks the ISBN up in the catalog and adds it to the caller's collection
// @Tags library
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body addReq true "ISBN"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /library [post]
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	out := h.svc.Ingest(r.Context(), httpx.UserIDFrom(r), req.ISBN, SourceManual)
	WriteOutcome(w, r, out)
}

// History handles GET /v1/library/history
// @Summary Recent ingestion attempts
// @Tags library
// @Produce json
// @Security Bearer
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} httpx.SuccessResponse
// @Router /library/history [get]
func (h *HTTPHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a positive integer", nil)
			return
		}
		limit = n
	}

	userID := httpx.UserIDFrom(r)
	attempts, err := h.svc.History(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("list ingest history", zap.String("user_id", userID), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, attempts, map[string]any{"count": len(attempts)})
}
