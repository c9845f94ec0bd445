package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/minilink/shortener/internal/middleware"
	"github.com/minilink/shortener/internal/model"
)

// Значения по умолчанию для пагинации (как у оригинального API).
const (
	defaultPageLimit          = 5
	defaultAnalyticsPageLimit = 10
)

// Shortener — контракт сервиса ссылок, который нужен обработчикам.
type Shortener interface {
	CreateLink(ctx context.Context, ownerID, origin, remarks string, expiresAt *time.Time) (*model.Link, error)
	UpdateLink(ctx context.Context, code, origin, remarks string, expiresAt *time.Time) (*model.Link, error)
	ListLinks(ctx context.Context, ownerID string, page, limit int) ([]*model.Link, model.Pagination, error)
	DeleteLink(ctx context.Context, ownerID, id string) error
	Resolve(ctx context.Context, code string, meta model.RequestMeta) (string, error)
	Ping(ctx context.Context) error
}

// Analytics — контракт сервиса аналитики.
type Analytics interface {
	Events(ctx context.Context, ownerID string, page, limit int) ([]*model.AnalyticsEvent, model.AnalyticsPagination, error)
	Summary(ctx context.Context, ownerID string) (*model.ClickSummary, error)
}

type Handler struct {
	shortener Shortener
	analytics Analytics
	logger    *zap.Logger
	baseURL   string
}

// NewHandler создаёт обработчики поверх сервисов ссылок и аналитики.
func NewHandler(shortener Shortener, analytics Analytics, logger *zap.Logger, baseURL string) *Handler {
	return &Handler{
		shortener: shortener,
		analytics: analytics,
		logger:    logger,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

// CreateURL обрабатывает POST /url: создаёт короткую ссылку владельца.
func (h *Handler) CreateURL(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		h.writeMessage(w, http.StatusUnauthorized, "Unauthorized: no valid owner identity")
		return
	}

	var req model.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.URL == "" {
		h.writeMessage(w, http.StatusBadRequest, "URL is required.")
		return
	}

	expiresAt, err := parseExpiry(req.Expiry)
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid expiry date format.")
		return
	}

	link, err := h.shortener.CreateLink(r.Context(), ownerID, req.URL, req.Remarks, expiresAt)
	if err != nil {
		h.handleError(w, err, "URL not found.")
		return
	}

	h.writeJSON(w, http.StatusCreated, model.ShortenResponse{
		Message:  "Shortened URL created successfully.",
		ShortURL: h.shortURL(link.ShortCode),
		Data:     link,
	})
}

// UpdateURL обрабатывает PUT /url: обновляет ссылку, найденную по коду.
// Смена URL влечёт новый короткий код; отсутствующий expiry снимает срок.
func (h *Handler) UpdateURL(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.OwnerID(r.Context()); !ok {
		h.writeMessage(w, http.StatusUnauthorized, "Unauthorized: no valid owner identity")
		return
	}

	var req model.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.URL == "" {
		h.writeMessage(w, http.StatusBadRequest, "URL is required.")
		return
	}
	if req.ShortURL == "" {
		h.writeMessage(w, http.StatusBadRequest, "shortUrl is required.")
		return
	}

	expiresAt, err := parseExpiry(req.Expiry)
	if err != nil {
		h.writeMessage(w, http.StatusBadRequest, "Invalid expiry date format.")
		return
	}

	// Клиент может прислать как голый код, так и полный короткий URL.
	code := strings.TrimPrefix(req.ShortURL, h.baseURL+"/")

	link, err := h.shortener.UpdateLink(r.Context(), code, req.URL, req.Remarks, expiresAt)
	if err != nil {
		h.handleError(w, err, "URL not found.")
		return
	}

	h.writeJSON(w, http.StatusOK, model.ShortenResponse{
		Message:  "Shortened URL updated successfully.",
		ShortURL: h.shortURL(link.ShortCode),
		Data:     link,
	})
}

// ListURLs обрабатывает GET /url?page&limit: страница ссылок владельца.
func (h *Handler) ListURLs(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		h.writeMessage(w, http.StatusUnauthorized, "Unauthorized: no valid owner identity")
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultPageLimit)

	links, pagination, err := h.shortener.ListLinks(r.Context(), ownerID, page, limit)
	if err != nil {
		h.handleError(w, err, "URL not found.")
		return
	}
	if links == nil {
		links = []*model.Link{}
	}

	h.writeJSON(w, http.StatusOK, model.ListResponse{
		Pagination: pagination,
		Data:       links,
	})
}

// DeleteURL обрабатывает DELETE /url/{id}. Чужие ссылки неотличимы
// от несуществующих: в обоих случаях 404.
func (h *Handler) DeleteURL(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		h.writeMessage(w, http.StatusUnauthorized, "Unauthorized: no valid owner identity")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.shortener.DeleteLink(r.Context(), ownerID, id); err != nil {
		h.handleError(w, err, "URL not found or does not belong to the user.")
		return
	}

	h.writeMessage(w, http.StatusOK, "URL deleted successfully.")
}

// Redirect обрабатывает GET /{shortCode}: публичный редирект.
// Успех даёт ровно одно событие аналитики и один инкремент счётчика.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "shortCode")
	if code == "" {
		h.writeMessage(w, http.StatusBadRequest, "Missing short code.")
		return
	}

	ua := r.Header.Get("X-Forwarded-User-Agent")
	if ua == "" {
		ua = r.UserAgent()
	}

	origin, err := h.shortener.Resolve(r.Context(), code, model.RequestMeta{
		UserAgent:    ua,
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
		RemoteAddr:   r.RemoteAddr,
	})
	if err != nil {
		h.handleError(w, err, "URL not found.")
		return
	}

	http.Redirect(w, r, origin, http.StatusFound)
}

// Ping обрабатывает GET /ping: проверка доступности хранилища.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.shortener.Ping(r.Context()); err != nil {
		h.logger.Error("Хранилище недоступно", zap.Error(err))
		h.writeMessage(w, http.StatusInternalServerError, "Storage unavailable.")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) shortURL(code string) string {
	return h.baseURL + "/" + code
}

// handleError переводит доменные ошибки в HTTP-статусы: валидация — 400,
// не найдено — 404, истёкший срок — 400, остальное — 500 с общим текстом;
// детали уходят только в лог.
func (h *Handler) handleError(w http.ResponseWriter, err error, notFoundMsg string) {
	if ve, ok := model.AsValidation(err); ok {
		h.writeMessage(w, http.StatusBadRequest, ve.Error())
		return
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		h.writeMessage(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, model.ErrLinkExpired):
		h.writeMessage(w, http.StatusBadRequest, "The URL has expired.")
	case errors.Is(err, model.ErrUnauthorized):
		h.writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.logger.Error("Внутренняя ошибка запроса", zap.Error(err))
		h.writeMessage(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Не удалось записать JSON-ответ", zap.Error(err))
	}
}

func (h *Handler) writeMessage(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, model.MessageResponse{Message: message})
}

// parseExpiry разбирает срок действия: пустая строка — без срока,
// принимаются RFC 3339 и дата без времени.
func parseExpiry(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
