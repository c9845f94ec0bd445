package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/minilink/shortener/internal/model"
)

// AnalyticsService отдаёт два read-only представления журнала кликов,
// оба в рамках одного владельца.
type AnalyticsService struct {
	events AnalyticsRepository
	logger *zap.Logger
}

// NewAnalyticsService создает новый экземпляр сервиса аналитики.
func NewAnalyticsService(events AnalyticsRepository, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{events: events, logger: logger}
}

// Events возвращает страницу событий владельца, новые первыми.
// Пустой журнал — NotFound, а не нулевая страница: так ведёт себя
// весь остальной API, поведение сохранено для совместимости.
func (s *AnalyticsService) Events(ctx context.Context, ownerID string, page, limit int) ([]*model.AnalyticsEvent, model.AnalyticsPagination, error) {
	offset := (page - 1) * limit

	events, total, err := s.events.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, model.AnalyticsPagination{}, err
	}
	if total == 0 {
		return nil, model.AnalyticsPagination{},
			fmt.Errorf("%w: no analytics data for owner", model.ErrNotFound)
	}

	return events, model.AnalyticsPagination{
		CurrentPage: page,
		TotalPages:  totalPages(total, limit),
		TotalCount:  total,
		Limit:       limit,
	}, nil
}

// Summary собирает сводку кликов владельца: общий итог, разбивку
// по типам устройств и по суткам (UTC). Хранилище отдаёт промежуточные
// итоги по парам (сутки, устройство), свёртка в три формы — один проход.
func (s *AnalyticsService) Summary(ctx context.Context, ownerID string) (*model.ClickSummary, error) {
	rows, err := s.events.SummaryByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no analytics data for owner", model.ErrNotFound)
	}

	summary := &model.ClickSummary{}
	deviceTotals := make(map[model.DeviceType]int64)
	dayIndex := make(map[string]int)

	// Строки отсортированы по дням, поэтому ClicksPerDay выходит
	// в возрастающем порядке дат без дополнительной сортировки.
	for _, row := range rows {
		summary.TotalClicks += row.Clicks
		deviceTotals[row.DeviceType] += row.Clicks

		if i, ok := dayIndex[row.Day]; ok {
			summary.ClicksPerDay[i].TotalClicks += row.Clicks
		} else {
			dayIndex[row.Day] = len(summary.ClicksPerDay)
			summary.ClicksPerDay = append(summary.ClicksPerDay, model.DayClicks{
				Day:         row.Day,
				TotalClicks: row.Clicks,
			})
		}
	}

	summary.ClicksPerDevice = make([]model.DeviceClicks, 0, len(deviceTotals))
	for deviceType, clicks := range deviceTotals {
		summary.ClicksPerDevice = append(summary.ClicksPerDevice, model.DeviceClicks{
			DeviceType: deviceType,
			Clicks:     clicks,
		})
	}
	sort.Slice(summary.ClicksPerDevice, func(i, j int) bool {
		a, b := summary.ClicksPerDevice[i], summary.ClicksPerDevice[j]
		if a.Clicks != b.Clicks {
			return a.Clicks > b.Clicks
		}
		return a.DeviceType < b.DeviceType
	})

	return summary, nil
}
