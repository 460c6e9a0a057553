// Package jobs provides scheduled background tasks driven by
// github.com/robfig/cron/v3. Jobs are external callers of the application
// layer: all time-based policy (payment timeouts) lives here, never inside
// the domain model.
package jobs

import (
	"fmt"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	paymentTimeoutJob *PaymentTimeoutJob
}

// NewJobManager creates a job manager wiring the sweep handler into its job.
func NewJobManager(
	sweepHandler commands.SweepStalePaymentsCommandHandler,
	sweepSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		paymentTimeoutJob: NewPaymentTimeoutJob(sweepHandler, sweepSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.paymentTimeoutJob.Start(); err != nil {
		return fmt.Errorf("failed to start payment timeout job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.paymentTimeoutJob.Stop()
}
