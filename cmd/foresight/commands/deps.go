package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/wonny/foresight/internal/api/handlers"
	"github.com/wonny/foresight/internal/data"
	"github.com/wonny/foresight/pkg/config"
	"github.com/wonny/foresight/pkg/database"
	"github.com/wonny/foresight/pkg/logger"
)

// initDeps loads configuration and builds the logger.
func initDeps() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	return cfg, log, nil
}

// initDBDeps loads configuration, logger, and a database connection.
func initDBDeps() (*config.Config, *logger.Logger, *database.DB, error) {
	cfg, log, err := initDeps()
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	return cfg, log, db, nil
}

// newSeriesLoader builds the default series source for api/scheduler runs.
// CSV 경로가 설정돼 있으면 파일, 아니면 HTML 페이지에서 로드
func newSeriesLoader(cfg *config.Config, log *logger.Logger) (handlers.SeriesLoader, error) {
	if cfg.Search.SeriesCSV != "" {
		path := cfg.Search.SeriesCSV
		return func(ctx context.Context) (*data.Series, error) {
			return data.LoadCSV(path)
		}, nil
	}

	if cfg.Fetcher.BaseURL != "" {
		fetcher := data.NewFetcher(cfg, log)
		url := cfg.Fetcher.BaseURL
		return func(ctx context.Context) (*data.Series, error) {
			return fetcher.Fetch(ctx, url)
		}, nil
	}

	return nil, fmt.Errorf("no series source configured: set SEARCH_SERIES_CSV or FETCHER_BASE_URL")
}

// maskPassword hides the password in a connection URL for console output.
func maskPassword(url string) string {
	at := strings.Index(url, "@")
	scheme := strings.Index(url, "://")
	if at < 0 || scheme < 0 {
		return url
	}

	creds := url[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		creds = creds[:colon] + ":****"
	}
	return url[:scheme+3] + creds + url[at:]
}
