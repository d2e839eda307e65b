package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnvOrDefault returns the trimmed ENV value or the fallback.
func EnvOrDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var nonAlnum = regexp.MustCompile(`[^A-Z0-9]`)

// GenerateCode returns n random characters from an unambiguous A-Z/2-9 set.
// crypto/rand + rand.Int avoids modulo bias.
func GenerateCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(codeCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeCharset[num.Int64()])
	}
	return sb.String(), nil
}

// NormalizeCode upper-cases and strips hyphens and anything non-alphanumeric.
func NormalizeCode(code string) string {
	return nonAlnum.ReplaceAllString(strings.ToUpper(strings.TrimSpace(code)), "")
}

// FormatConfirmationCode turns 8 raw characters into "XXXX-XXXX".
func FormatConfirmationCode(raw string) (string, error) {
	raw = NormalizeCode(raw)
	if len(raw) != 8 {
		return "", errors.New("raw must be length 8")
	}
	return raw[:4] + "-" + raw[4:], nil
}

// NewConfirmationCode generates a guest-facing reservation code.
func NewConfirmationCode() (string, error) {
	raw, err := GenerateCode(8)
	if err != nil {
		return "", err
	}
	return FormatConfirmationCode(raw)
}

// NewDocumentNumber builds numbers such as "PO-20261016-3F9A1C2B".
func NewDocumentNumber(prefix string, at time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return prefix + "-" + at.Format("20060102") + "-" + short
}
