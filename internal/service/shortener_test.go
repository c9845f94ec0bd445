package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/minilink/shortener/internal/model"
	"github.com/minilink/shortener/internal/service/mocks"
	"github.com/minilink/shortener/internal/shortcode"
)

const mobileUA = "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Mobile Safari/537.36"

func newTestService(t *testing.T) (*ShortenerService, *mocks.MockLinkRepository, *mocks.MockAnalyticsRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)

	links := mocks.NewMockLinkRepository(ctrl)
	events := mocks.NewMockAnalyticsRepository(ctrl)
	svc := NewShortenerService(links, events, zap.NewNop())
	return svc, links, events
}

func TestCreateLink(t *testing.T) {
	svc, links, _ := newTestService(t)

	var saved *model.Link
	links.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, link *model.Link) error {
			saved = link
			return nil
		})

	link, err := svc.CreateLink(context.Background(), "owner-1", "https://yandex.ru", "кампания", nil)
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, "owner-1", link.OwnerID)
	assert.Equal(t, "https://yandex.ru", link.Origin)
	assert.Equal(t, "кампания", link.Remarks)
	assert.Len(t, link.ShortCode, shortcode.CodeLength)
	assert.NotEqual(t, uuid.Nil, link.ID)
	assert.Same(t, saved, link)
}

func TestCreateLink_InvalidURL(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []string{
		"",
		"not-a-url",
		"ftp://example.com/file",
		"//no-scheme.example.com",
	}

	for _, raw := range tests {
		_, err := svc.CreateLink(context.Background(), "owner-1", raw, "", nil)
		_, ok := model.AsValidation(err)
		assert.True(t, ok, "ожидалась ошибка валидации для %q, получено %v", raw, err)
	}
}

// Тест цикла перегенерации при коллизии короткого кода
func TestCreateLink_RetryOnCollision(t *testing.T) {
	svc, links, _ := newTestService(t)

	// Каждая попытка использует новую метку времени — коды различаются.
	tick := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Nanosecond)
		return tick
	}

	var codes []string
	gomock.InOrder(
		links.EXPECT().Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, link *model.Link) error {
				codes = append(codes, link.ShortCode)
				return model.ErrShortCodeTaken
			}),
		links.EXPECT().Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, link *model.Link) error {
				codes = append(codes, link.ShortCode)
				return nil
			}),
	)

	link, err := svc.CreateLink(context.Background(), "owner-1", "https://yandex.ru", "", nil)
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.NotEqual(t, codes[0], codes[1])
	assert.Equal(t, codes[1], link.ShortCode)
}

func TestUpdateLink_NewURLRegeneratesCode(t *testing.T) {
	svc, links, _ := newTestService(t)

	stored := &model.Link{
		ID:        uuid.New(),
		OwnerID:   "owner-1",
		Origin:    "https://old.example.com",
		ShortCode: "0aaaaaaaa",
	}

	links.EXPECT().GetByShortCode(gomock.Any(), "0aaaaaaaa").Return(stored, nil)
	links.EXPECT().Update(gomock.Any(), stored).Return(nil)

	link, err := svc.UpdateLink(context.Background(), "0aaaaaaaa", "https://new.example.com", "", nil)
	require.NoError(t, err)

	assert.Equal(t, "https://new.example.com", link.Origin)
	assert.NotEqual(t, "0aaaaaaaa", link.ShortCode)
	assert.Len(t, link.ShortCode, shortcode.CodeLength)
}

// Тест: смена только remarks не трогает короткий код
func TestUpdateLink_RemarksOnlyKeepsCode(t *testing.T) {
	svc, links, _ := newTestService(t)

	stored := &model.Link{
		ID:        uuid.New(),
		OwnerID:   "owner-1",
		Origin:    "https://example.com",
		ShortCode: "0aaaaaaaa",
		Remarks:   "старое",
	}

	links.EXPECT().GetByShortCode(gomock.Any(), "0aaaaaaaa").Return(stored, nil)
	links.EXPECT().Update(gomock.Any(), stored).Return(nil)

	link, err := svc.UpdateLink(context.Background(), "0aaaaaaaa", "https://example.com", "новое", nil)
	require.NoError(t, err)

	assert.Equal(t, "0aaaaaaaa", link.ShortCode)
	assert.Equal(t, "новое", link.Remarks)
}

// Тест: отсутствующий expiry при обновлении снимает срок действия
func TestUpdateLink_ClearsExpiry(t *testing.T) {
	svc, links, _ := newTestService(t)

	expiry := time.Now().Add(24 * time.Hour)
	stored := &model.Link{
		ID:        uuid.New(),
		OwnerID:   "owner-1",
		Origin:    "https://example.com",
		ShortCode: "0aaaaaaaa",
		ExpiresAt: &expiry,
	}

	links.EXPECT().GetByShortCode(gomock.Any(), "0aaaaaaaa").Return(stored, nil)
	links.EXPECT().Update(gomock.Any(), stored).Return(nil)

	link, err := svc.UpdateLink(context.Background(), "0aaaaaaaa", "https://example.com", "", nil)
	require.NoError(t, err)
	assert.Nil(t, link.ExpiresAt)
}

// Тест: неизвестный код — NotFound и ни одного побочного эффекта.
// Отсутствие ожиданий на SaveEvent и IncrementClicks контролирует gomock.
func TestResolve_NotFound(t *testing.T) {
	svc, links, _ := newTestService(t)

	links.EXPECT().GetByShortCode(gomock.Any(), "missing11").
		Return(nil, model.ErrNotFound)

	_, err := svc.Resolve(context.Background(), "missing11", model.RequestMeta{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// Тест: истёкшая ссылка — Expired и ни одного побочного эффекта
func TestResolve_Expired(t *testing.T) {
	svc, links, _ := newTestService(t)

	past := time.Now().Add(-time.Hour)
	links.EXPECT().GetByShortCode(gomock.Any(), "expired00").
		Return(&model.Link{
			ID:        uuid.New(),
			Origin:    "https://example.com",
			ShortCode: "expired00",
			ExpiresAt: &past,
		}, nil)

	_, err := svc.Resolve(context.Background(), "expired00", model.RequestMeta{})
	assert.ErrorIs(t, err, model.ErrLinkExpired)
}

func TestResolve_Success(t *testing.T) {
	svc, links, events := newTestService(t)

	linkID := uuid.New()
	links.EXPECT().GetByShortCode(gomock.Any(), "abc123def").
		Return(&model.Link{
			ID:        linkID,
			OwnerID:   "owner-1",
			Origin:    "https://example.com/landing",
			ShortCode: "abc123def",
		}, nil)

	var recorded *model.AnalyticsEvent
	events.EXPECT().
		SaveEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *model.AnalyticsEvent) error {
			recorded = event
			return nil
		})
	links.EXPECT().IncrementClicks(gomock.Any(), linkID).Return(nil)

	origin, err := svc.Resolve(context.Background(), "abc123def", model.RequestMeta{
		UserAgent:    mobileUA,
		ForwardedFor: "203.0.113.7, 10.0.0.1",
		RemoteAddr:   "192.0.2.1:54321",
	})
	require.NoError(t, err)
	require.NotNil(t, recorded)

	assert.Equal(t, "https://example.com/landing", origin)
	assert.Equal(t, linkID, recorded.LinkID)
	assert.Equal(t, "owner-1", recorded.OwnerID)
	assert.Equal(t, "https://example.com/landing", recorded.Origin)
	assert.Equal(t, "abc123def", recorded.ShortCode)
	assert.Equal(t, model.DeviceMobile, recorded.DeviceType)
	assert.Equal(t, "Android", recorded.Platform)
	assert.Equal(t, "203.0.113.7", recorded.IPAddress)
}

// Тест: без X-Forwarded-For берём адрес соединения без порта
func TestResolve_RemoteAddrFallback(t *testing.T) {
	svc, links, events := newTestService(t)

	linkID := uuid.New()
	links.EXPECT().GetByShortCode(gomock.Any(), "abc123def").
		Return(&model.Link{ID: linkID, OwnerID: "owner-1", Origin: "https://example.com", ShortCode: "abc123def"}, nil)

	var recorded *model.AnalyticsEvent
	events.EXPECT().SaveEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *model.AnalyticsEvent) error {
			recorded = event
			return nil
		})
	links.EXPECT().IncrementClicks(gomock.Any(), linkID).Return(nil)

	_, err := svc.Resolve(context.Background(), "abc123def", model.RequestMeta{
		RemoteAddr: "192.0.2.1:54321",
	})
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.1", recorded.IPAddress)
	assert.Equal(t, model.DeviceDesktop, recorded.DeviceType)
}

func TestDeleteLink(t *testing.T) {
	svc, links, _ := newTestService(t)

	id := uuid.New()
	links.EXPECT().DeleteByIDForOwner(gomock.Any(), id, "owner-1").Return(true, nil)

	err := svc.DeleteLink(context.Background(), "owner-1", id.String())
	assert.NoError(t, err)
}

// Тест: чужая ссылка удаляется как несуществующая — NotFound, не Unauthorized
func TestDeleteLink_NotOwned(t *testing.T) {
	svc, links, _ := newTestService(t)

	id := uuid.New()
	links.EXPECT().DeleteByIDForOwner(gomock.Any(), id, "owner-2").Return(false, nil)

	err := svc.DeleteLink(context.Background(), "owner-2", id.String())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteLink_InvalidID(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.DeleteLink(context.Background(), "owner-1", "not-a-uuid")
	_, ok := model.AsValidation(err)
	assert.True(t, ok)
}

func TestListLinks(t *testing.T) {
	svc, links, _ := newTestService(t)

	stored := []*model.Link{
		{ShortCode: "code00002"},
		{ShortCode: "code00001"},
	}
	links.EXPECT().ListByOwner(gomock.Any(), "owner-1", 5, 5).Return(stored, 12, nil)

	result, pagination, err := svc.ListLinks(context.Background(), "owner-1", 2, 5)
	require.NoError(t, err)

	assert.Equal(t, stored, result)
	assert.Equal(t, model.Pagination{Page: 2, TotalPages: 3, TotalURLs: 12, Limit: 5}, pagination)
}
