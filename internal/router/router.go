package router

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/minilink/shortener/internal/auth"
	"github.com/minilink/shortener/internal/handlers"
	"github.com/minilink/shortener/internal/middleware"
)

// NewRouter создаёт и настраивает маршрутизатор.
// Редирект и ping публичные, остальное требует личности владельца.
func NewRouter(handler *handlers.Handler, authService *auth.Auth, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.GzipMiddleware)

	r.Get("/ping", handler.Ping)
	r.Get("/{shortCode}", handler.Redirect)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireOwner(authService))

		r.Post("/url", handler.CreateURL)
		r.Put("/url", handler.UpdateURL)
		r.Get("/url", handler.ListURLs)
		r.Delete("/url/{id}", handler.DeleteURL)

		r.Get("/analytics", handler.GetAnalytics)
		r.Get("/clicks", handler.GetClicks)
	})

	return r
}
