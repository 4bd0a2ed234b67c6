package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveSymbol(t *testing.T) {
	c := NewCollector()

	c.ObserveSymbol(OutcomeReported)
	c.ObserveSymbol(OutcomeReported)
	c.ObserveSymbol(OutcomeOmitted)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.symbolsTotal.WithLabelValues(OutcomeReported)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.symbolsTotal.WithLabelValues(OutcomeOmitted)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.symbolsTotal.WithLabelValues(OutcomeFailed)))
}

func TestCollector_ObserveFetch(t *testing.T) {
	c := NewCollector()

	c.ObserveFetch("mock", 20*time.Millisecond, nil)
	c.ObserveFetch("mock", time.Second, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(c.fetchLatency))
}

func TestCollector_ObserveRun(t *testing.T) {
	c := NewCollector()
	c.ObserveRun(1500 * time.Millisecond)

	assert.Equal(t, 1.5, testutil.ToFloat64(c.runDuration))
}

func TestCollector_RegistriesAreIndependent(t *testing.T) {
	a := NewCollector()
	b := NewCollector()

	a.ObserveCache("hit")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.cacheTotal.WithLabelValues("hit")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.cacheTotal.WithLabelValues("hit")))
}

func TestCollector_Push(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewCollector()
	c.ObserveSymbol(OutcomeReported)

	require.NoError(t, c.Push(context.Background(), server.URL, "stock_signals"))
	assert.Equal(t, "/metrics/job/stock_signals", gotPath)
}

func TestCollector_PushDisabled(t *testing.T) {
	assert.NoError(t, NewCollector().Push(context.Background(), "", "job"))
}
