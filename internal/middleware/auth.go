package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/minilink/shortener/internal/auth"
)

type ownerCtxKey struct{}

// RequireOwner пропускает дальше только запросы с проверенной личностью
// владельца и кладёт её в контекст. Ядро учётные данные не проверяет —
// этим занимается внешний сервис аутентификации, выдавший куку.
func RequireOwner(a *auth.Auth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID, ok := a.ValidateOwnerID(r)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"message": "Unauthorized: no valid owner identity",
				})
				return
			}

			ctx := context.WithValue(r.Context(), ownerCtxKey{}, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerID достаёт идентификатор владельца из контекста запроса.
func OwnerID(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerCtxKey{}).(string)
	return ownerID, ok && ownerID != ""
}

// WithOwnerID возвращает контекст с идентификатором владельца (для тестов).
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerCtxKey{}, ownerID)
}
