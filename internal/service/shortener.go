package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minilink/shortener/internal/model"
	"github.com/minilink/shortener/internal/shortcode"
	"github.com/minilink/shortener/internal/uaparse"
)

// shortCodeAttempts — сколько раз перегенерировать код при коллизии.
// Коллизия на 48-битном префиксе дайджеста почти невероятна, но индекс
// в БД её всё равно отклонит, поэтому пробуем с новой солью.
const shortCodeAttempts = 3

// ShortenerService реализует бизнес-логику сокращения ссылок
// и резолвер редиректа.
type ShortenerService struct {
	links  LinkRepository
	events AnalyticsRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewShortenerService создает новый экземпляр сервиса.
func NewShortenerService(links LinkRepository, events AnalyticsRepository, logger *zap.Logger) *ShortenerService {
	return &ShortenerService{
		links:  links,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// CreateLink создаёт ссылку для владельца ownerID и возвращает её
// вместе со сгенерированным коротким кодом.
func (s *ShortenerService) CreateLink(ctx context.Context, ownerID, origin, remarks string, expiresAt *time.Time) (*model.Link, error) {
	if err := validateURL(origin); err != nil {
		return nil, err
	}

	link := &model.Link{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Origin:    origin,
		Remarks:   remarks,
		ExpiresAt: expiresAt,
	}

	for attempt := 0; attempt < shortCodeAttempts; attempt++ {
		link.ShortCode = shortcode.Generate(origin, s.now())

		err := s.links.Save(ctx, link)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, model.ErrShortCodeTaken) {
			return nil, err
		}
		s.logger.Warn("Коллизия короткого кода, генерируем заново",
			zap.String("short_code", link.ShortCode))
	}

	return nil, fmt.Errorf("failed to generate unique short code after %d attempts: %w",
		shortCodeAttempts, model.ErrShortCodeTaken)
}

// UpdateLink обновляет ссылку, найденную по короткому коду.
// Смена URL влечёт перегенерацию кода; expiresAt == nil снимает
// ранее установленный срок действия.
func (s *ShortenerService) UpdateLink(ctx context.Context, code, origin, remarks string, expiresAt *time.Time) (*model.Link, error) {
	if err := validateURL(origin); err != nil {
		return nil, err
	}

	link, err := s.links.GetByShortCode(ctx, code)
	if err != nil {
		return nil, err
	}

	regen := link.Origin != origin
	link.Origin = origin
	link.Remarks = remarks
	link.ExpiresAt = expiresAt

	attempts := 1
	if regen {
		attempts = shortCodeAttempts
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if regen {
			link.ShortCode = shortcode.Generate(origin, s.now())
		}

		err := s.links.Update(ctx, link)
		if err == nil {
			return link, nil
		}
		if !regen || !errors.Is(err, model.ErrShortCodeTaken) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed to generate unique short code after %d attempts: %w",
		attempts, model.ErrShortCodeTaken)
}

// ListLinks возвращает страницу ссылок владельца, новые первыми.
func (s *ShortenerService) ListLinks(ctx context.Context, ownerID string, page, limit int) ([]*model.Link, model.Pagination, error) {
	offset := (page - 1) * limit

	links, total, err := s.links.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	return links, model.Pagination{
		Page:       page,
		TotalPages: totalPages(total, limit),
		TotalURLs:  total,
		Limit:      limit,
	}, nil
}

// DeleteLink удаляет ссылку владельца по идентификатору.
// Чужая ссылка неотличима от несуществующей: в обоих случаях NotFound,
// чтобы не раскрывать факт её существования.
func (s *ShortenerService) DeleteLink(ctx context.Context, ownerID, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return model.NewValidationError("id", "must be a valid UUID")
	}

	deleted, err := s.links.DeleteByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: link %s", model.ErrNotFound, id)
	}
	return nil
}

// Resolve разрешает короткий код в оригинальный URL. Успешный резолв
// даёт ровно два побочных эффекта: одно событие аналитики и один
// инкремент счётчика. Отказ (NotFound, истёкший срок) эффектов не даёт.
func (s *ShortenerService) Resolve(ctx context.Context, code string, meta model.RequestMeta) (string, error) {
	link, err := s.links.GetByShortCode(ctx, code)
	if err != nil {
		return "", err
	}

	if link.Expired(s.now()) {
		return "", fmt.Errorf("%w: short code %s", model.ErrLinkExpired, code)
	}

	deviceType, platform := uaparse.Classify(meta.UserAgent)

	event := &model.AnalyticsEvent{
		ID:         uuid.New(),
		LinkID:     link.ID,
		OwnerID:    link.OwnerID,
		Origin:     link.Origin,
		ShortCode:  link.ShortCode,
		OccurredAt: s.now(),
		IPAddress:  clientIP(meta),
		DeviceType: deviceType,
		Platform:   platform,
	}

	// Вставка события и инкремент — две независимые записи без транзакции;
	// окно рассинхронизации между ними принято осознанно.
	if err := s.events.SaveEvent(ctx, event); err != nil {
		return "", err
	}
	if err := s.links.IncrementClicks(ctx, link.ID); err != nil {
		return "", err
	}

	return link.Origin, nil
}

// Ping проверяет доступность хранилища.
func (s *ShortenerService) Ping(ctx context.Context) error {
	return s.links.Ping(ctx)
}

// validateURL принимает только абсолютные http(s)-URL.
func validateURL(raw string) error {
	if raw == "" {
		return model.NewValidationError("url", "URL is required")
	}
	parsed, err := url.ParseRequestURI(raw)
	if err != nil || parsed.Host == "" {
		return model.NewValidationError("url", "must be an absolute URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return model.NewValidationError("url", "scheme must be http or https")
	}
	return nil
}

// clientIP выбирает адрес клиента: первый элемент X-Forwarded-For,
// иначе адрес соединения без порта.
func clientIP(meta model.RequestMeta) string {
	if meta.ForwardedFor != "" {
		first := meta.ForwardedFor
		if i := strings.Index(first, ","); i >= 0 {
			first = first[:i]
		}
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(meta.RemoteAddr)
	if err != nil {
		return meta.RemoteAddr
	}
	return host
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
