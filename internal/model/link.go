package model

import (
	"time"

	"github.com/google/uuid"
)

// DeviceType — категория устройства, определённая по User-Agent.
type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
)

// Link представляет одно сопоставление короткого кода и оригинального URL.
// ShortCode уникален глобально и пересоздаётся при смене Origin.
type Link struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   string     `json:"userId"`
	Origin    string     `json:"url"`
	ShortCode string     `json:"shortUrl"`
	Remarks   string     `json:"remarks"`
	ExpiresAt *time.Time `json:"expiry,omitempty"`
	Clicks    int64      `json:"clicks"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Expired сообщает, истёк ли срок действия ссылки на момент now.
// Ссылка без expiry не истекает никогда.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// AnalyticsEvent — одна запись о успешном редиректе.
// Origin и ShortCode денормализованы: это снимок ссылки на момент клика,
// последующие изменения Link на событие не влияют. Записи не обновляются
// и не удаляются.
type AnalyticsEvent struct {
	ID         uuid.UUID  `json:"id"`
	LinkID     uuid.UUID  `json:"urlId"`
	OwnerID    string     `json:"userId"`
	Origin     string     `json:"url"`
	ShortCode  string     `json:"shortUrl"`
	OccurredAt time.Time  `json:"date"`
	IPAddress  string     `json:"ipAddress"`
	DeviceType DeviceType `json:"deviceType"`
	Platform   string     `json:"platform"`
}

// DayDeviceCount — промежуточный итог агрегации: количество кликов
// за календарные сутки (UTC) по одному типу устройства.
type DayDeviceCount struct {
	Day        string
	DeviceType DeviceType
	Clicks     int64
}

// RequestMeta — сырые метаданные запроса, нужные резолверу редиректа.
type RequestMeta struct {
	UserAgent    string
	ForwardedFor string
	RemoteAddr   string
}
