package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/foresight/pkg/config"
	"github.com/wonny/foresight/pkg/logger"
)

const statsPage = `<html><body>
<table class="stats">
<tr><th>Date</th><th>Value</th></tr>
<tr><td>2025-01-01</td><td>1,234.5</td></tr>
<tr><td>2025-01-02</td><td>987</td></tr>
<tr><td>합계</td><td>-</td></tr>
</table>
</body></html>`

func testFetcher(t *testing.T) *Fetcher {
	t.Helper()
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
		Fetcher: config.FetcherConfig{
			RatePerSec:  100,
			Timeout:     5 * time.Second,
			TableSelect: "table.stats tr",
		},
	}
	return NewFetcher(cfg, logger.New(cfg))
}

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(statsPage))
	}))
	defer srv.Close()

	series, err := testFetcher(t).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	// 숫자가 아닌 행(헤더, 합계)은 건너뛰고 천 단위 구분 기호는 제거
	assert.Equal(t, []string{"2025-01-01", "2025-01-02"}, series.Labels)
	assert.Equal(t, []float64{1234.5, 987}, series.Values)
}

func TestFetcher_NoObservationRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>no table here</p></body></html>"))
	}))
	defer srv.Close()

	_, err := testFetcher(t).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetcher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testFetcher(t).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}
