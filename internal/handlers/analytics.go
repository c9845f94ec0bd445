package handlers

import (
	"net/http"

	"github.com/minilink/shortener/internal/middleware"
	"github.com/minilink/shortener/internal/model"
)

// GetAnalytics обрабатывает GET /analytics?page&limit: страница событий
// кликов владельца, новые первыми. Пустой журнал — 404.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		h.writeMessage(w, http.StatusUnauthorized, "Unauthorized: no valid owner identity")
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultAnalyticsPageLimit)

	events, pagination, err := h.analytics.Events(r.Context(), ownerID, page, limit)
	if err != nil {
		h.handleError(w, err, "No analytics data found for this user.")
		return
	}

	h.writeJSON(w, http.StatusOK, model.AnalyticsResponse{
		Data:       events,
		Pagination: pagination,
	})
}

// GetClicks обрабатывает GET /clicks: сводка кликов владельца —
// общий итог, разбивка по устройствам и по дням (UTC). Пустой журнал — 404.
func (h *Handler) GetClicks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		h.writeMessage(w, http.StatusUnauthorized, "Unauthorized: no valid owner identity")
		return
	}

	summary, err := h.analytics.Summary(r.Context(), ownerID)
	if err != nil {
		h.handleError(w, err, "No analytics data found.")
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}
