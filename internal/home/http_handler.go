package home

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"bookscanner/internal/httpx"
)

type HTTPHandler struct {
	svc    *Service
	logger *zap.Logger
	now    func() time.Time
}

func NewHTTPHandler(svc *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger, now: time.Now}
}

// Get handles GET /v1/home
// @Summary Landing screen
// @Description Username, collection size and shuffled cover thumbnails
// @Tags home
// @Produce json
// @Security Bearer
// @Param seed query int false "Shuffle seed"
// @Success 200 {object} httpx.SuccessResponse
// @Router /home [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	seed := uint64(h.now().UnixNano())
	if v := r.URL.Query().Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "seed must be a non-negative integer", nil)
			return
		}
		seed = n
	}

	userID := httpx.UserIDFrom(r)
	screen, err := h.svc.Load(r.Context(), userID, seed)
	if err != nil {
		h.logger.Error("load home screen", zap.String("user_id", userID), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "STORE_READ_FAILED", "Could not load your collection", nil)
		return
	}
	httpx.JSONSuccess(w, r, screen, nil)
}
