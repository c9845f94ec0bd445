// Package shortcode детерминированно выводит короткий код из URL
// и метки времени. Соль по времени означает, что один и тот же URL
// в разные моменты даёт разные коды — дедупликации здесь нет,
// уникальность гарантирует только индекс в хранилище.
package shortcode

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"time"
)

// Alphabet — алфавит base62: цифры, затем строчные и заглавные буквы.
// Порядок совпадает с кодировкой оригинального сервиса.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CodeLength — фиксированная длина кода. Шесть байт дайджеста дают
// значения до 2^48, для их записи в base62 нужно не более девяти знаков.
const CodeLength = 9

// Generate возвращает короткий код для longURL в момент now.
// Функция чистая: одинаковые аргументы всегда дают одинаковый код.
func Generate(longURL string, now time.Time) string {
	hash := sha256.Sum256([]byte(longURL + strconv.FormatInt(now.UnixNano(), 10)))

	// Первые 6 байт дайджеста как беззнаковое целое (big-endian).
	var buf [8]byte
	copy(buf[2:], hash[:6])
	n := binary.BigEndian.Uint64(buf[:])

	return encodeBase62(n)
}

// encodeBase62 кодирует n в base62 с ведущими нулями до CodeLength.
func encodeBase62(n uint64) string {
	code := [CodeLength]byte{}
	for i := range code {
		code[i] = Alphabet[0]
	}

	for i := CodeLength - 1; n > 0 && i >= 0; i-- {
		code[i] = Alphabet[n%62]
		n /= 62
	}
	return string(code[:])
}
