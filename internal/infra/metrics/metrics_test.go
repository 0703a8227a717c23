package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegisterOnFreshRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg)
}

func TestObserveNetworkRequestLabelsStatus(t *testing.T) {
	before := testutil.ToFloat64(NetworkRequestTotal.WithLabelValues("digest_source", "fetch", "latest", "error"))
	ObserveNetworkRequest("digest_source", "fetch", "latest", time.Now(), errors.New("boom"))
	after := testutil.ToFloat64(NetworkRequestTotal.WithLabelValues("digest_source", "fetch", "latest", "error"))
	if after-before != 1 {
		t.Fatalf("ожидали рост счётчика ошибок на 1, получили %v", after-before)
	}

	ObserveNetworkRequest("", "", "", time.Now(), nil)
	if v := testutil.ToFloat64(NetworkRequestTotal.WithLabelValues("unknown", "unknown", "unknown", "success")); v < 1 {
		t.Fatalf("ожидали подстановку unknown для пустых меток")
	}
}

func TestObserveDigestLoad(t *testing.T) {
	before := testutil.ToFloat64(DigestLoadTotal.WithLabelValues("degraded"))
	ObserveDigestLoad("degraded", time.Now())
	if got := testutil.ToFloat64(DigestLoadTotal.WithLabelValues("degraded")); got != before+1 {
		t.Fatalf("ожидали %v, получили %v", before+1, got)
	}
}
