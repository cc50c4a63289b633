package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/mokja-app/mokja-backend/internal/shipping"
	"github.com/mokja-app/mokja-backend/pkg/logger"
)

type fakeManualQuoteSweeper struct {
	stats     shipping.SweepStats
	err       error
	called    int
	batchSize int
}

func (f *fakeManualQuoteSweeper) ExpirePendingManualQuotes(ctx context.Context, batchSize int) (shipping.SweepStats, error) {
	f.called++
	f.batchSize = batchSize
	return f.stats, f.err
}

func newManualQuoteTimeoutJob(t *testing.T, sweeper *fakeManualQuoteSweeper, batchSize int) Job {
	t.Helper()
	job, err := NewManualQuoteTimeoutJob(ManualQuoteTimeoutJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Shipping:  sweeper,
		BatchSize: batchSize,
	})
	if err != nil {
		t.Fatalf("NewManualQuoteTimeoutJob: %v", err)
	}
	return job
}

func TestManualQuoteTimeoutJobRunsSweep(t *testing.T) {
	sweeper := &fakeManualQuoteSweeper{stats: shipping.SweepStats{Scanned: 3, Expired: 3}}
	job := newManualQuoteTimeoutJob(t, sweeper, 250)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sweeper.called != 1 {
		t.Fatalf("expected one sweep, got %d", sweeper.called)
	}
	if sweeper.batchSize != 250 {
		t.Fatalf("expected configured batch size, got %d", sweeper.batchSize)
	}
}

func TestManualQuoteTimeoutJobDefaultsBatchSize(t *testing.T) {
	sweeper := &fakeManualQuoteSweeper{}
	job := newManualQuoteTimeoutJob(t, sweeper, 0)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sweeper.batchSize != defaultSweepBatchSize {
		t.Fatalf("expected default batch size %d, got %d", defaultSweepBatchSize, sweeper.batchSize)
	}
}

func TestManualQuoteTimeoutJobPropagatesError(t *testing.T) {
	sweeper := &fakeManualQuoteSweeper{err: errors.New("boom")}
	job := newManualQuoteTimeoutJob(t, sweeper, 0)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestManualQuoteTimeoutJobPartialFailuresAreSoft(t *testing.T) {
	sweeper := &fakeManualQuoteSweeper{stats: shipping.SweepStats{Scanned: 5, Expired: 3, Errors: 2}}
	job := newManualQuoteTimeoutJob(t, sweeper, 0)

	// Per-quote failures are logged and retried next cycle, not escalated.
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
