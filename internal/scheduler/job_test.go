package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobHistory_AddResult(t *testing.T) {
	h := &JobHistory{}

	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{
			JobName:   "model_search",
			StartTime: time.Now(),
			Success:   i%2 == 0,
		})
	}

	// 최근 100건만 유지
	assert.Len(t, h.Results, 100)
}

func TestJobHistory_GetLatestResults(t *testing.T) {
	h := &JobHistory{}
	h.AddResult(JobResult{JobName: "first"})
	h.AddResult(JobResult{JobName: "second"})
	h.AddResult(JobResult{JobName: "third"})

	latest := h.GetLatestResults(2)
	assert.Len(t, latest, 2)
	assert.Equal(t, "second", latest[0].JobName)
	assert.Equal(t, "third", latest[1].JobName)

	// 요청이 보유량보다 많으면 전체 반환
	assert.Len(t, h.GetLatestResults(10), 3)
	assert.Empty(t, (&JobHistory{}).GetLatestResults(5))
}

func TestJobHistory_GetSuccessRate(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.GetSuccessRate())

	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: false})
	h.AddResult(JobResult{Success: true})

	assert.InDelta(t, 0.75, h.GetSuccessRate(), 1e-12)
}
