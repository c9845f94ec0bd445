package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/minilink/shortener/internal/model"
)

//go:generate mockgen -source=contracts.go -destination=mocks/mocks.go -package=mocks

// LinkRepository определяет методы хранилища ссылок.
type LinkRepository interface {
	Save(ctx context.Context, link *model.Link) error
	GetByShortCode(ctx context.Context, code string) (*model.Link, error)
	Update(ctx context.Context, link *model.Link) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*model.Link, int, error)
	DeleteByIDForOwner(ctx context.Context, id uuid.UUID, ownerID string) (bool, error)
	IncrementClicks(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// AnalyticsRepository определяет методы журнала событий кликов.
type AnalyticsRepository interface {
	SaveEvent(ctx context.Context, event *model.AnalyticsEvent) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*model.AnalyticsEvent, int, error)
	SummaryByOwner(ctx context.Context, ownerID string) ([]model.DayDeviceCount, error)
}
