package batch

import (
	"context"
	"customer-service/internal/infrastructure/monitoring"
	"fmt"
	"log/slog"
	"time"
)

type CustomerCounter interface {
	CountCustomers(ctx context.Context) (int64, error)
}

// CustomerStatsJob refreshes the stored customer gauge.
type CustomerStatsJob struct {
	counter  CustomerCounter
	setGauge func(int64)
	logger   *slog.Logger
}

func NewCustomerStatsJob(counter CustomerCounter, logger *slog.Logger) *CustomerStatsJob {
	if counter == nil || logger == nil {
		panic("CustomerStatsJob dependencies cannot be nil")
	}
	return &CustomerStatsJob{
		counter:  counter,
		setGauge: monitoring.SetCustomerCount,
		logger:   logger.With("job", "CustomerStats"),
	}
}

func (j *CustomerStatsJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting customer stats job.")

	count, err := j.counter.CountCustomers(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to count customers, gauge left unchanged.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to count customers: %w", err)
	}

	j.setGauge(count)
	j.logger.InfoContext(ctx, "Customer stats job finished successfully.",
		slog.Int64("customers", count),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}
