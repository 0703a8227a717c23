// Package source содержит реализации domain.DigestSource.
package source

import (
	"strings"
	"time"

	"ai-daily/internal/domain"
)

// New выбирает HTTP-источник для http(s) адресов и каталог для остальных.
func New(base string, timeout time.Duration) domain.DigestSource {
	lower := strings.ToLower(base)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTP(base, timeout)
	}
	return NewDir(strings.TrimPrefix(base, "file://"))
}
