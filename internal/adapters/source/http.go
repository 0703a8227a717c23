package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-daily/internal/domain"
	"ai-daily/internal/infra/metrics"
)

// HTTPSource читает документы сводки по адресу {base}/{artifact}.json.
type HTTPSource struct {
	client  *http.Client
	baseURL string
}

var _ domain.DigestSource = (*HTTPSource)(nil)

// NewHTTP создаёт источник. timeout == 0 оставляет поведение транспорта по умолчанию.
func NewHTTP(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Fetch выполняет GET документа и разбирает его.
func (s *HTTPSource) Fetch(ctx context.Context, artifact string) (domain.DailyDigest, error) {
	endpoint := s.baseURL + "/" + url.PathEscape(fileName(artifact))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.DailyDigest{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	digest, err := s.do(req)
	metrics.ObserveNetworkRequest("digest_source", "fetch", artifactTarget(artifact), start, err)
	return digest, err
}

func (s *HTTPSource) do(req *http.Request) (domain.DailyDigest, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return domain.DailyDigest{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.DailyDigest{}, fmt.Errorf("%s: %w", req.URL.Path, domain.ErrArtifactNotFound)
	case resp.StatusCode >= 300:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.DailyDigest{}, fmt.Errorf("fetch failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return Decode(resp.Body)
}
