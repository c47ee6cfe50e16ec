// Package data loads univariate observation series for the search engine.
package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Series 시간 인덱스가 붙은 단변량 관측열
type Series struct {
	Name   string
	Labels []string  // 시간 인덱스 (원본 문자열 그대로)
	Values []float64 // 관측값, 시간순
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Values)
}

// LoadCSV reads a series from a CSV file with one header row, an index
// column, and a value column.
// 행 순서가 곧 시간 순서이며 재정렬하지 않는다.
func LoadCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open series file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("series file %s has no data rows", path)
	}

	series := &Series{
		Name:   path,
		Labels: make([]string, 0, len(records)-1),
		Values: make([]float64, 0, len(records)-1),
	}

	// 첫 행은 헤더
	for i, record := range records[1:] {
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: expected index and value columns, got %d columns", i+2, len(record))
		}

		value, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid value %q: %w", i+2, record[1], err)
		}

		series.Labels = append(series.Labels, record[0])
		series.Values = append(series.Values, value)
	}

	return series, nil
}
