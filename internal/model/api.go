package model

// ShortenRequest — тело запроса POST /url.
type ShortenRequest struct {
	URL     string `json:"url"`
	Expiry  string `json:"expiry,omitempty"`
	Remarks string `json:"remarks,omitempty"`
}

// UpdateRequest — тело запроса PUT /url. Ссылка ищется по ShortURL.
// Отсутствующий Expiry снимает ранее установленный срок действия.
type UpdateRequest struct {
	ShortURL string `json:"shortUrl"`
	URL      string `json:"url"`
	Expiry   string `json:"expiry,omitempty"`
	Remarks  string `json:"remarks,omitempty"`
}

// ShortenResponse — ответ на создание или обновление ссылки.
type ShortenResponse struct {
	Message  string `json:"message"`
	ShortURL string `json:"shortUrl"`
	Data     *Link  `json:"data"`
}

// Pagination — блок пагинации списка ссылок.
type Pagination struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	TotalURLs  int `json:"totalUrls"`
	Limit      int `json:"limit"`
}

// ListResponse — ответ GET /url.
type ListResponse struct {
	Pagination Pagination `json:"pagination"`
	Data       []*Link    `json:"data"`
}

// AnalyticsPagination — блок пагинации списка событий.
type AnalyticsPagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
	Limit       int `json:"limit"`
}

// AnalyticsResponse — ответ GET /analytics.
type AnalyticsResponse struct {
	Data       []*AnalyticsEvent   `json:"data"`
	Pagination AnalyticsPagination `json:"pagination"`
}

// DeviceClicks — суммарные клики по одному типу устройства.
type DeviceClicks struct {
	DeviceType DeviceType `json:"deviceType"`
	Clicks     int64      `json:"clicks"`
}

// DayClicks — суммарные клики за календарные сутки (UTC).
type DayClicks struct {
	Day         string `json:"day"`
	TotalClicks int64  `json:"totalClicks"`
}

// ClickSummary — ответ GET /clicks: общий итог и две разбивки.
type ClickSummary struct {
	TotalClicks     int64          `json:"totalClicks"`
	ClicksPerDevice []DeviceClicks `json:"clicksPerDevice"`
	ClicksPerDay    []DayClicks    `json:"clicksPerDay"`
}

// MessageResponse — типовой ответ с одним сообщением (ошибки, удаление).
type MessageResponse struct {
	Message string `json:"message"`
}
