package repositories

import (
	"context"
	"fmt"

	"github.com/minilink/shortener/internal/database"
	"github.com/minilink/shortener/internal/model"
)

// AnalyticsRepository хранит события кликов в PostgreSQL.
// Журнал только дописывается: UPDATE и DELETE для него не существуют.
type AnalyticsRepository struct {
	db *database.DB
}

// NewAnalyticsRepository создаёт новый экземпляр AnalyticsRepository.
func NewAnalyticsRepository(db *database.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// SaveEvent дописывает одно событие редиректа.
func (r *AnalyticsRepository) SaveEvent(ctx context.Context, event *model.AnalyticsEvent) error {
	query := `INSERT INTO analytics_events
              (id, link_id, owner_id, origin, short_code, occurred_at, ip_address, device_type, platform)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Pool.Exec(ctx, query,
		event.ID, event.LinkID, event.OwnerID, event.Origin, event.ShortCode,
		event.OccurredAt, event.IPAddress, event.DeviceType, event.Platform,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}

// ListByOwner возвращает страницу событий владельца (новые первыми)
// и общее количество его событий.
func (r *AnalyticsRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*model.AnalyticsEvent, int, error) {
	query := `SELECT id, link_id, owner_id, origin, short_code, occurred_at, ip_address, device_type, platform
              FROM analytics_events WHERE owner_id = $1
              ORDER BY occurred_at DESC
              LIMIT $2 OFFSET $3`

	rows, err := r.db.Pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query analytics events: %w", err)
	}
	defer rows.Close()

	var results []*model.AnalyticsEvent
	for rows.Next() {
		event := &model.AnalyticsEvent{}
		err := rows.Scan(
			&event.ID, &event.LinkID, &event.OwnerID, &event.Origin, &event.ShortCode,
			&event.OccurredAt, &event.IPAddress, &event.DeviceType, &event.Platform,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	var total int
	err = r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM analytics_events WHERE owner_id = $1`, ownerID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count analytics events: %w", err)
	}

	return results, total, nil
}

// SummaryByOwner считает промежуточные итоги (сутки UTC, тип устройства).
// Дальнейшая свёртка в три выходные формы выполняется сервисом за один проход.
func (r *AnalyticsRepository) SummaryByOwner(ctx context.Context, ownerID string) ([]model.DayDeviceCount, error) {
	query := `SELECT to_char(occurred_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
                     device_type,
                     COUNT(*)
              FROM analytics_events WHERE owner_id = $1
              GROUP BY 1, 2
              ORDER BY 1, 3 DESC, 2`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query click summary: %w", err)
	}
	defer rows.Close()

	var results []model.DayDeviceCount
	for rows.Next() {
		var c model.DayDeviceCount
		if err := rows.Scan(&c.Day, &c.DeviceType, &c.Clicks); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return results, nil
}
