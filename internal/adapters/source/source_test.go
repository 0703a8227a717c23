package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"ai-daily/internal/domain"
	"ai-daily/internal/infra/metrics"
)

func TestDirSourceReadsArtifact(t *testing.T) {
	src := NewDir("testdata")
	digest, err := src.Fetch(context.Background(), "2026-10-14")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if digest.Date != "2026-10-14" {
		t.Fatalf("неожиданная дата %q", digest.Date)
	}
	want := domain.SocialPost{
		ID:           "t-1",
		AuthorName:   "Ada",
		AuthorHandle: "@ada",
		Text:         "New eval harness released",
		Lang:         "en",
		CreatedAt:    "2026-10-14T06:10:00+00:00",
		Likes:        12345,
		Reposts:      980,
		Replies:      45,
		Bookmarks:    1500,
		URLs:         []string{"https://example.com/evals"},
		Tags:         []string{"evals"},
		ClusterID:    "c-1",
		HeatScore:    87.25,
	}
	if diff := cmp.Diff(want, digest.TopTweets[0]); diff != "" {
		t.Fatalf("пост разобран неверно (-want +got):\n%s", diff)
	}
	if digest.GitHubTrending[0].TrendStatus != domain.TrendRising {
		t.Fatalf("ожидали rising, получили %q", digest.GitHubTrending[0].TrendStatus)
	}
	if digest.Leaderboards != nil {
		t.Fatalf("ожидали отсутствие рейтингов")
	}
}

func TestDirSourceErrors(t *testing.T) {
	src := NewDir("testdata")
	tests := []struct {
		artifact string
		want     error
	}{
		{artifact: "2020-01-01", want: domain.ErrArtifactNotFound},
		{artifact: "../secret", want: domain.ErrArtifactNotFound},
		{artifact: "broken", want: domain.ErrMalformedPayload},
	}
	for _, tt := range tests {
		if _, err := src.Fetch(context.Background(), tt.artifact); !errors.Is(err, tt.want) {
			t.Fatalf("Fetch(%q): ожидали %v, получили %v", tt.artifact, tt.want, err)
		}
	}
}

func TestDecodeRejectsDocumentsWithoutDate(t *testing.T) {
	for _, raw := range []string{`null`, `{}`, `[]`, `{"date": "  "}`} {
		if _, err := Decode(strings.NewReader(raw)); !errors.Is(err, domain.ErrMalformedPayload) {
			t.Fatalf("Decode(%s): ожидали ErrMalformedPayload, получили %v", raw, err)
		}
	}
}

func TestHTTPSource(t *testing.T) {
	latest, err := os.ReadFile("testdata/latest.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/data/latest.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(latest)
		case "/data/2026-10-13.json":
			_, _ = w.Write([]byte("<html>oops</html>"))
		case "/data/2026-10-12.json":
			http.Error(w, "upstream down", http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTP(srv.URL+"/data/", 0)

	digest, err := src.Fetch(context.Background(), domain.LatestArtifact)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !digest.Meta.Degraded || digest.Meta.DegradedModules[0] != "web3" {
		t.Fatalf("meta разобрана неверно: %+v", digest.Meta)
	}

	if _, err := src.Fetch(context.Background(), "2026-10-15"); !errors.Is(err, domain.ErrArtifactNotFound) {
		t.Fatalf("ожидали ErrArtifactNotFound, получили %v", err)
	}
	if _, err := src.Fetch(context.Background(), "2026-10-13"); !errors.Is(err, domain.ErrMalformedPayload) {
		t.Fatalf("ожидали ErrMalformedPayload, получили %v", err)
	}
	_, err = src.Fetch(context.Background(), "2026-10-12")
	if err == nil || errors.Is(err, domain.ErrArtifactNotFound) || !strings.Contains(err.Error(), "502") {
		t.Fatalf("ожидали транспортную ошибку со статусом, получили %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if paths[0] != "/data/latest.json" {
		t.Fatalf("неожиданный путь запроса %q", paths[0])
	}
}

func TestHTTPSourceHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHTTP(srv.URL, 0).Fetch(ctx, "2026-10-14"); !errors.Is(err, context.Canceled) {
		t.Fatalf("ожидали context.Canceled, получили %v", err)
	}
}

func TestNewPicksImplementation(t *testing.T) {
	if _, ok := New("https://cdn.example.com/data", 0).(*HTTPSource); !ok {
		t.Fatalf("ожидали HTTPSource")
	}
	if _, ok := New("./data", 0).(*DirSource); !ok {
		t.Fatalf("ожидали DirSource")
	}
}

func TestHTTPSourceMetricsDoNotGrowWithDates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	src := NewHTTP(srv.URL, 0)

	fetchDays := func(from int) {
		for i := from; i < from+100; i++ {
			day := fmt.Sprintf("2025-%02d-%02d", i/28%12+1, i%28+1)
			_, _ = src.Fetch(context.Background(), day)
		}
	}
	fetchDays(0)
	before := testutil.CollectAndCount(metrics.NetworkRequestTotal)
	fetchDays(100)
	if after := testutil.CollectAndCount(metrics.NetworkRequestTotal); after != before {
		t.Fatalf("число серий выросло с %d до %d", before, after)
	}
}

func TestArtifactTarget(t *testing.T) {
	if got := artifactTarget(domain.LatestArtifact); got != "latest" {
		t.Fatalf("artifactTarget(latest) = %q", got)
	}
	if got := artifactTarget("2026-10-14"); got != "day" {
		t.Fatalf("artifactTarget(date) = %q", got)
	}
}
