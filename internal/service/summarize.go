// Package service contains the documentation pipeline: per-file
// summarization, stage orchestration and job scheduling.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/raphaelgruber/autoreadme/internal/fetch"
	"github.com/raphaelgruber/autoreadme/internal/llm"
	"github.com/raphaelgruber/autoreadme/internal/metrics"
)

// ErrAllSummariesFailed indicates that not a single candidate produced a
// summary. Use errors.Is() to check for it in calling code.
var ErrAllSummariesFailed = errors.New("summarization failed for every file")

// SummaryResult is the outcome for one candidate: Text on success, Err
// on permanent failure after the retry budget is spent.
type SummaryResult struct {
	Path string
	Text string
	Err  error
}

// FileSummarizer fans candidate files out to the text-generation service
// with a fixed worker pool.
type FileSummarizer struct {
	model   llm.Summarizer
	workers int
	retries uint64
	metrics *metrics.Collector
}

// NewFileSummarizer creates a summarizer with the given pool size and
// per-file retry budget.
func NewFileSummarizer(model llm.Summarizer, workers int, retries uint64, mc *metrics.Collector) *FileSummarizer {
	if workers <= 0 {
		workers = 10
	}
	return &FileSummarizer{
		model:   model,
		workers: workers,
		retries: retries,
		metrics: mc,
	}
}

// SummarizeAll produces one result per candidate, preserving input order.
// Calls run on a bounded worker pool; each worker writes its result into
// a preallocated slot keyed by input index, so no reordering pass is
// needed afterwards. A file that fails permanently is recorded and never
// aborts its siblings.
func (s *FileSummarizer) SummarizeAll(ctx context.Context, candidates []fetch.Candidate) []SummaryResult {
	results := make([]SummaryResult, len(candidates))
	indexes := make(chan int, len(candidates))

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range indexes {
				if ctx.Err() != nil {
					results[i] = SummaryResult{Path: candidates[i].Path, Err: ctx.Err()}
					continue
				}
				results[i] = s.summarizeOne(ctx, workerID, candidates[i])
			}
		}(w)
	}

	for i := range candidates {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}

// summarizeOne calls the model with bounded retries and exponential
// backoff. Fatal API errors and context cancellation stop the retries
// immediately; anything else (rate limits, timeouts) is retried until
// the budget runs out.
func (s *FileSummarizer) summarizeOne(ctx context.Context, workerID int, c fetch.Candidate) SummaryResult {
	start := time.Now()

	var text string
	operation := func() error {
		out, err := s.model.Summarize(ctx, c.Path, c.Content)
		if err != nil {
			if errors.Is(err, llm.ErrFatalAPI) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		text = out
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.retries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		if s.metrics != nil {
			s.metrics.RecordFailure(metrics.OpSummarize, time.Since(start))
		}
		slog.Warn("file summarization failed", "worker", workerID, "file", c.Path, "error", err)
		return SummaryResult{Path: c.Path, Err: err}
	}

	if s.metrics != nil {
		s.metrics.RecordTiming(metrics.OpSummarize, time.Since(start))
	}
	slog.Debug("file summarized", "worker", workerID, "file", c.Path)
	return SummaryResult{Path: c.Path, Text: text}
}

// successCount returns the number of results with a summary.
func successCount(results []SummaryResult) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}
