package book

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"bookscanner/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// List handles GET /v1/library
// @Summary List the library
// @Description Whole collection sorted by sort (author_az, author_za, title_az, title_za) and filtered by q
// @Tags library
// @Produce json
// @Security Bearer
// @Param sort query string false "Sort option" default(author_az)
// @Param q query string false "Search text matched against title and authors"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /library [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	query := r.URL.Query()

	sort := query.Get("sort")
	opts, err := ParseSortOption(sort)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_SORT", "Unknown sort option", []httpx.ErrorDetail{
			{Field: "sort", Message: "sort must be one of: author_az, author_za, title_az, title_za"},
		})
		return
	}
	opts.Search = query.Get("q")
	if sort == "" {
		sort = DefaultSort
	}

	books, total, err := h.service.View(r.Context(), userID, opts)
	if err != nil {
		h.logger.Error("list library", zap.String("user_id", userID), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]any{
		"total": total,
		"count": len(books),
		"sort":  strings.ToLower(sort),
	})
}

// Delete handles DELETE /v1/library/{isbn}
// @Summary Remove a book
// @Description Removes every copy with this ISBN; removing nothing is not an error
// @Tags library
// @Produce json
// @Security Bearer
// @Param isbn path string true "ISBN"
// @Success 200 {object} httpx.SuccessResponse
// @Router /library/{isbn} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	isbn := strings.TrimSpace(r.PathValue("isbn"))
	if isbn == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "isbn is required", nil)
		return
	}

	n, err := h.service.Collection(userID).DeleteByISBN(r.Context(), isbn)
	if err != nil {
		h.logger.Error("delete book", zap.String("user_id", userID), zap.String("isbn", isbn), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "STORE_WRITE_FAILED", "The book could not be removed.", nil)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{"isbn": isbn, "deleted": n}, nil)
}
