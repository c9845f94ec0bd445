package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	"github.com/minilink/shortener/internal/model"
)

type exampleShortener struct{}

func (exampleShortener) CreateLink(ctx context.Context, ownerID, origin, remarks string, expiresAt *time.Time) (*model.Link, error) {
	return &model.Link{OwnerID: ownerID, Origin: origin, ShortCode: "0a1b2c3d4"}, nil
}

func (exampleShortener) UpdateLink(ctx context.Context, code, origin, remarks string, expiresAt *time.Time) (*model.Link, error) {
	return &model.Link{Origin: origin, ShortCode: code}, nil
}

func (exampleShortener) ListLinks(ctx context.Context, ownerID string, page, limit int) ([]*model.Link, model.Pagination, error) {
	return nil, model.Pagination{}, nil
}

func (exampleShortener) DeleteLink(ctx context.Context, ownerID, id string) error { return nil }

func (exampleShortener) Resolve(ctx context.Context, code string, meta model.RequestMeta) (string, error) {
	return "https://example.com", nil
}

func (exampleShortener) Ping(ctx context.Context) error { return nil }

type exampleAnalytics struct{}

func (exampleAnalytics) Events(ctx context.Context, ownerID string, page, limit int) ([]*model.AnalyticsEvent, model.AnalyticsPagination, error) {
	return nil, model.AnalyticsPagination{}, model.ErrNotFound
}

func (exampleAnalytics) Summary(ctx context.Context, ownerID string) (*model.ClickSummary, error) {
	return nil, model.ErrNotFound
}

// ExampleHandler_Redirect демонстрирует публичный редирект по короткому коду.
func ExampleHandler_Redirect() {
	logger, _ := zap.NewDevelopment()
	h := NewHandler(exampleShortener{}, exampleAnalytics{}, logger, "http://localhost:8080")

	req := httptest.NewRequest(http.MethodGet, "/0a1b2c3d4", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("shortCode", "0a1b2c3d4")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.Redirect(rec, req)

	fmt.Println(rec.Code)
	fmt.Println(rec.Header().Get("Location"))

	// Output:
	// 302
	// https://example.com
}
