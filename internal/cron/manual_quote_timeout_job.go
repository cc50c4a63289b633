package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mokja-app/mokja-backend/internal/shipping"
	"github.com/mokja-app/mokja-backend/pkg/logger"
)

const defaultSweepBatchSize = 1000

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type manualQuoteSweeper interface {
	ExpirePendingManualQuotes(ctx context.Context, batchSize int) (shipping.SweepStats, error)
}

// ManualQuoteTimeoutJobParams configure the manual quote expiry sweep.
type ManualQuoteTimeoutJobParams struct {
	Logger    *logger.Logger
	Shipping  manualQuoteSweeper
	BatchSize int
}

// NewManualQuoteTimeoutJob builds the job that flags manual quotes whose
// restaurant never set a price in time.
func NewManualQuoteTimeoutJob(params ManualQuoteTimeoutJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Shipping == nil {
		return nil, fmt.Errorf("shipping service required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}
	return &manualQuoteTimeoutJob{
		logg:      params.Logger,
		shipping:  params.Shipping,
		batchSize: batchSize,
		now:       time.Now,
	}, nil
}

type manualQuoteTimeoutJob struct {
	logg      *logger.Logger
	shipping  manualQuoteSweeper
	batchSize int
	now       func() time.Time
}

func (j *manualQuoteTimeoutJob) Name() string { return "manual-quote-timeout" }

func (j *manualQuoteTimeoutJob) Run(ctx context.Context) error {
	stats, err := j.shipping.ExpirePendingManualQuotes(ctx, j.batchSize)
	if err != nil {
		return fmt.Errorf("manual quote sweep: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned": stats.Scanned,
		"expired": stats.Expired,
		"errors":  stats.Errors,
	})
	if stats.Errors > 0 {
		j.logg.Warn(logCtx, "manual quote sweep finished with failures")
		return nil
	}
	j.logg.Info(logCtx, "manual quote sweep complete")
	return nil
}
