package source

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ai-daily/internal/domain"
)

const maxDocumentSize = 32 << 20

// Decode разбирает документ сводки. Неизвестные поля игнорируются,
// отсутствующие списки заменяются пустыми.
func Decode(r io.Reader) (domain.DailyDigest, error) {
	var digest domain.DailyDigest
	if err := json.NewDecoder(io.LimitReader(r, maxDocumentSize)).Decode(&digest); err != nil {
		return domain.DailyDigest{}, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if strings.TrimSpace(digest.Date) == "" {
		return domain.DailyDigest{}, fmt.Errorf("%w: missing date", domain.ErrMalformedPayload)
	}
	digest.Normalize()
	return digest, nil
}

func fileName(artifact string) string {
	return artifact + ".json"
}

// artifactTarget сводит имя документа к метке метрик: latest или day.
func artifactTarget(artifact string) string {
	if artifact == domain.LatestArtifact {
		return domain.LatestArtifact
	}
	return "day"
}
