package search

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run 한 번의 그리드 탐색 실행 기록
type Run struct {
	ID         int64
	Dataset    string
	SeriesLen  int
	NTest      int
	Candidates int
	Ranked     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// RankedResult 저장된 랭킹 항목
type RankedResult struct {
	RunID  int64
	Rank   int
	Config string
	RMSE   float64
}

// Repository 탐색 실행/결과 저장소
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository 새 저장소 생성
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveRun 실행 기록 저장
func (r *Repository) SaveRun(ctx context.Context, run Run) (int64, error) {
	query := `
		INSERT INTO analytics.search_runs
			(dataset, series_len, n_test, candidates, ranked, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		run.Dataset, run.SeriesLen, run.NTest,
		run.Candidates, run.Ranked, run.StartedAt, run.FinishedAt,
	).Scan(&id)

	return id, err
}

// SaveScores 랭킹 일괄 저장
// scores는 이미 RMSE 오름차순으로 정렬된 상태여야 함
func (r *Repository) SaveScores(ctx context.Context, runID int64, scores []Score) error {
	if len(scores) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO analytics.search_results (run_id, rank, config, rmse)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_id, rank) DO UPDATE SET
			config = EXCLUDED.config,
			rmse = EXCLUDED.rmse`

	for i, s := range scores {
		batch.Queue(query, runID, i+1, s.Config.String(), s.RMSE)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range scores {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// GetRuns 최근 실행 기록 조회
func (r *Repository) GetRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, dataset, series_len, n_test, candidates, ranked, started_at, finished_at
		FROM analytics.search_runs
		ORDER BY started_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.Dataset, &run.SeriesLen, &run.NTest,
			&run.Candidates, &run.Ranked, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetTopResults 실행의 상위 K개 결과 조회
func (r *Repository) GetTopResults(ctx context.Context, runID int64, limit int) ([]RankedResult, error) {
	query := `
		SELECT run_id, rank, config, rmse
		FROM analytics.search_results
		WHERE run_id = $1
		ORDER BY rank
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []RankedResult
	for rows.Next() {
		var res RankedResult
		if err := rows.Scan(&res.RunID, &res.Rank, &res.Config, &res.RMSE); err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, rows.Err()
}
