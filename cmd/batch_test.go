package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscore-cli/internal/model"
)

func fakeResult(url string, score int) *model.ResearchResult {
	p := model.NewCompanyProfile()
	p.CompanyName = url
	return &model.ResearchResult{
		URL:     url,
		Profile: p,
		Score:   model.ScoreBreakdown{Score: score, Priority: model.PriorityFor(score)},
	}
}

func TestProcessBatch_PreservesOrderAndErrors(t *testing.T) {
	list := []model.Lead{
		{Name: "A", Website: "https://a.com"},
		{Name: "B", Website: "https://b.com"},
		{Name: "C", Website: ""},
		{Name: "D", Website: "https://d.com"},
	}

	research := func(_ context.Context, url string) (*model.ResearchResult, error) {
		if url == "https://b.com" {
			return nil, errors.New("fetch https://b.com: failed after 3 attempts")
		}
		return fakeResult(url, 90), nil
	}

	results := processBatch(context.Background(), list, batchOptions{Concurrency: 3}, research)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, list[i].Name, r.Lead.Name)
	}

	assert.Empty(t, results[0].Err)
	require.NotNil(t, results[0].Lead.Score)
	assert.Equal(t, 90, results[0].Lead.Score.Score)
	assert.Equal(t, "https://a.com", results[0].Lead.Profile.CompanyName)

	assert.Contains(t, results[1].Err, "failed after 3 attempts")
	assert.Nil(t, results[1].Lead.Score)

	assert.Equal(t, "missing website", results[2].Err)
	assert.Empty(t, results[3].Err)
}

func TestProcessBatch_Limit(t *testing.T) {
	list := []model.Lead{
		{Website: "https://a.com"},
		{Website: "https://b.com"},
		{Website: "https://c.com"},
	}
	var calls atomic.Int64
	research := func(_ context.Context, url string) (*model.ResearchResult, error) {
		calls.Add(1)
		return fakeResult(url, 50), nil
	}

	results := processBatch(context.Background(), list, batchOptions{Limit: 2, Concurrency: 2}, research)
	assert.Len(t, results, 2)
	assert.Equal(t, int64(2), calls.Load())
}

func TestProcessBatch_Empty(t *testing.T) {
	results := processBatch(context.Background(), nil, batchOptions{Concurrency: 2}, nil)
	assert.Empty(t, results)
}

func TestProcessBatch_RespectsConcurrency(t *testing.T) {
	list := make([]model.Lead, 8)
	for i := range list {
		list[i] = model.Lead{Website: "https://example.com"}
	}

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	research := func(_ context.Context, url string) (*model.ResearchResult, error) {
		mu.Lock()
		active++
		if active > maxSeen {
			maxSeen = active
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		return fakeResult(url, 70), nil
	}

	results := processBatch(context.Background(), list, batchOptions{Concurrency: 2}, research)
	assert.Len(t, results, 8)
	assert.LessOrEqual(t, maxSeen, 2)
}

func TestProcessBatch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	list := []model.Lead{{Website: "https://a.com"}}
	research := func(ctx context.Context, url string) (*model.ResearchResult, error) {
		return nil, ctx.Err()
	}

	results := processBatch(ctx, list, batchOptions{Concurrency: 1, RPS: 1}, research)
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Err)
	assert.Nil(t, results[0].Lead.Score)
}
