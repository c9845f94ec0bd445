// Package auth проверяет личность владельца, выданную внешним сервисом
// аутентификации. Ядро сервиса учётные данные не проверяет: ему нужна
// только кука auth_token вида ownerID:signature с валидной HMAC-подписью.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
)

const cookieName = "auth_token"

type Auth struct {
	SecretKey string
}

func New(secret string) *Auth {
	return &Auth{SecretKey: secret}
}

// Создать подпись
func (a *Auth) sign(ownerID string) string {
	mac := hmac.New(sha256.New, []byte(a.SecretKey))
	mac.Write([]byte(ownerID))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidateOwnerID проверяет куку и возвращает идентификатор владельца.
// Отсутствие или битая подпись — false, запрос не аутентифицирован.
func (a *Auth) ValidateOwnerID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	parts := strings.SplitN(cookie.Value, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", false
	}
	if !hmac.Equal([]byte(a.sign(parts[0])), []byte(parts[1])) {
		return "", false
	}

	return parts[0], true
}

// SignCookieValue собирает валидное значение куки. Используется
// выдающей стороной и тестами.
func (a *Auth) SignCookieValue(ownerID string) string {
	return fmt.Sprintf("%s:%s", ownerID, a.sign(ownerID))
}

// CookieName возвращает имя ожидаемой куки.
func CookieName() string { return cookieName }
