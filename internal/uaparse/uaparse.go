// Package uaparse классифицирует User-Agent для записи аналитики.
package uaparse

import (
	"github.com/mileusna/useragent"

	"github.com/minilink/shortener/internal/model"
)

// UnknownPlatform подставляется, когда ОС из User-Agent не распознана.
const UnknownPlatform = "Unknown"

// Classify определяет тип устройства и платформу (имя ОС) по строке
// User-Agent. Приоритет: мобильный признак, затем планшетный,
// всё остальное считается десктопом.
func Classify(uaString string) (model.DeviceType, string) {
	ua := useragent.Parse(uaString)

	device := model.DeviceDesktop
	switch {
	case ua.Mobile:
		device = model.DeviceMobile
	case ua.Tablet:
		device = model.DeviceTablet
	}

	platform := ua.OS
	if platform == "" {
		platform = UnknownPlatform
	}

	return device, platform
}
