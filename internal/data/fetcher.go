package data

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/wonny/foresight/pkg/config"
	"github.com/wonny/foresight/pkg/logger"
)

// Fetcher pulls an observation series from an HTML statistics page.
// ⭐ SSOT: 외부 페이지에서 관측열을 가져오는 호출은 이 타입을 통해서만
type Fetcher struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	tableSelect string
	logger      *logger.Logger
}

// NewFetcher creates a rate-limited series fetcher.
func NewFetcher(cfg *config.Config, log *logger.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Fetcher.Timeout,
		},
		limiter:     rate.NewLimiter(rate.Limit(cfg.Fetcher.RatePerSec), 1),
		tableSelect: cfg.Fetcher.TableSelect,
		logger:      log.WithField("module", "fetcher"),
	}
}

// Fetch downloads the page at url and extracts (label, value) rows from the
// first two cells of each table row matching the configured selector.
// 숫자로 파싱되지 않는 행(헤더 등)은 건너뜀
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Series, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	series := f.parseTable(doc, url)
	if series.Len() == 0 {
		return nil, fmt.Errorf("no observation rows found at %s", url)
	}

	f.logger.WithFields(map[string]interface{}{
		"url":   url,
		"count": series.Len(),
	}).Debug("Fetched observation series")

	return series, nil
}

// parseTable extracts observation rows from the document.
func (f *Fetcher) parseTable(doc *goquery.Document, url string) *Series {
	series := &Series{Name: url}

	doc.Find(f.tableSelect).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		label := strings.TrimSpace(cells.Eq(0).Text())
		raw := strings.TrimSpace(cells.Eq(1).Text())
		raw = strings.ReplaceAll(raw, ",", "")

		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return
		}

		series.Labels = append(series.Labels, label)
		series.Values = append(series.Values, value)
	})

	return series
}
