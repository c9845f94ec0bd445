package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/minilink/shortener/internal/model"
	"github.com/minilink/shortener/internal/service/mocks"
)

func newAnalyticsService(t *testing.T) (*AnalyticsService, *mocks.MockAnalyticsRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)

	events := mocks.NewMockAnalyticsRepository(ctrl)
	return NewAnalyticsService(events, zap.NewNop()), events
}

// Тест свёртки фиксированного набора: два дня, два типа устройств
func TestSummary(t *testing.T) {
	svc, events := newAnalyticsService(t)

	events.EXPECT().SummaryByOwner(gomock.Any(), "owner-1").Return([]model.DayDeviceCount{
		{Day: "2024-01-01", DeviceType: model.DeviceMobile, Clicks: 1},
		{Day: "2024-01-01", DeviceType: model.DeviceDesktop, Clicks: 1},
		{Day: "2024-01-02", DeviceType: model.DeviceMobile, Clicks: 1},
	}, nil)

	summary, err := svc.Summary(context.Background(), "owner-1")
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalClicks)
	assert.Equal(t, []model.DeviceClicks{
		{DeviceType: model.DeviceMobile, Clicks: 2},
		{DeviceType: model.DeviceDesktop, Clicks: 1},
	}, summary.ClicksPerDevice)
	assert.Equal(t, []model.DayClicks{
		{Day: "2024-01-01", TotalClicks: 2},
		{Day: "2024-01-02", TotalClicks: 1},
	}, summary.ClicksPerDay)
}

// Тест: при равных кликах устройства идут в алфавитном порядке
func TestSummary_DeviceTieBreak(t *testing.T) {
	svc, events := newAnalyticsService(t)

	events.EXPECT().SummaryByOwner(gomock.Any(), "owner-1").Return([]model.DayDeviceCount{
		{Day: "2024-03-10", DeviceType: model.DeviceTablet, Clicks: 4},
		{Day: "2024-03-10", DeviceType: model.DeviceDesktop, Clicks: 4},
	}, nil)

	summary, err := svc.Summary(context.Background(), "owner-1")
	require.NoError(t, err)

	assert.Equal(t, []model.DeviceClicks{
		{DeviceType: model.DeviceDesktop, Clicks: 4},
		{DeviceType: model.DeviceTablet, Clicks: 4},
	}, summary.ClicksPerDevice)
}

// Тест: пустой журнал — NotFound, а не нулевая сводка
func TestSummary_Empty(t *testing.T) {
	svc, events := newAnalyticsService(t)

	events.EXPECT().SummaryByOwner(gomock.Any(), "owner-1").Return(nil, nil)

	_, err := svc.Summary(context.Background(), "owner-1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEvents(t *testing.T) {
	svc, events := newAnalyticsService(t)

	stored := []*model.AnalyticsEvent{
		{ShortCode: "abc123def", OccurredAt: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)},
		{ShortCode: "abc123def", OccurredAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
	}
	events.EXPECT().ListByOwner(gomock.Any(), "owner-1", 10, 0).Return(stored, 25, nil)

	result, pagination, err := svc.Events(context.Background(), "owner-1", 1, 10)
	require.NoError(t, err)

	assert.Equal(t, stored, result)
	assert.Equal(t, model.AnalyticsPagination{
		CurrentPage: 1,
		TotalPages:  3,
		TotalCount:  25,
		Limit:       10,
	}, pagination)
}

func TestEvents_Empty(t *testing.T) {
	svc, events := newAnalyticsService(t)

	events.EXPECT().ListByOwner(gomock.Any(), "owner-1", 10, 0).Return(nil, 0, nil)

	_, _, err := svc.Events(context.Background(), "owner-1", 1, 10)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
