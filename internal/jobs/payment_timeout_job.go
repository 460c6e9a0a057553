package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PaymentTimeoutJob periodically fails orders stuck in payment processing
// past the configured timeout. The domain holds no timers; this job is the
// external caller that applies the time-based policy.
type PaymentTimeoutJob struct {
	handler  commands.SweepStalePaymentsCommandHandler
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger
}

// NewPaymentTimeoutJob creates a job running the stale-payment sweep on the
// given cron schedule (standard five-field expression, e.g. "* * * * *").
func NewPaymentTimeoutJob(
	handler commands.SweepStalePaymentsCommandHandler,
	schedule string,
	logger *slog.Logger,
) *PaymentTimeoutJob {
	return &PaymentTimeoutJob{
		handler:  handler,
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger.With("component", "payment_timeout_job"),
	}
}

// Start begins the sweep on its schedule.
func (j *PaymentTimeoutJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewSweepStalePaymentsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Payment timeout sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payment timeout job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *PaymentTimeoutJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Payment timeout job stopped")
}
