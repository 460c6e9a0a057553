package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/pkg/guard"
)

var ErrSweepStalePaymentsCommandIsNotConstructed = errors.New(
	"SweepStalePaymentsCommand must be created via NewSweepStalePaymentsCommand constructor",
)

// SweepStalePaymentsCommand fails every order stuck in payment_processing
// longer than the configured timeout. The core holds no timers; the sweep
// is driven by a scheduled job.
type SweepStalePaymentsCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewSweepStalePaymentsCommand creates a sweep command.
func NewSweepStalePaymentsCommand() SweepStalePaymentsCommand {
	return SweepStalePaymentsCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c SweepStalePaymentsCommand) Validate() error {
	return c.guard.Validate(ErrSweepStalePaymentsCommandIsNotConstructed)
}

// SweepStalePaymentsCommandHandler finds orders whose payment has been
// processing past the timeout and applies a synthetic failure to each,
// reusing the gateway failure path so retry counting and audit entries
// stay uniform.
type SweepStalePaymentsCommandHandler struct {
	uowFactory  OrderUoWFactory
	failHandler FailPaymentCommandHandler
	timeout     time.Duration
	logger      *slog.Logger
}

// NewSweepStalePaymentsCommandHandler creates a handler sweeping payments
// stuck longer than timeout.
func NewSweepStalePaymentsCommandHandler(
	uowFactory OrderUoWFactory,
	failHandler FailPaymentCommandHandler,
	timeout time.Duration,
	logger *slog.Logger,
) SweepStalePaymentsCommandHandler {
	return SweepStalePaymentsCommandHandler{
		uowFactory:  uowFactory,
		failHandler: failHandler,
		timeout:     timeout,
		logger:      logger.With("component", "sweep_stale_payments"),
	}
}

// Handle fails all stale orders. A failure on one order is logged and does
// not stop the sweep; each order is failed in its own transaction.
func (h SweepStalePaymentsCommandHandler) Handle(ctx context.Context, cmd SweepStalePaymentsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-h.timeout)

	// Read outside any transaction; each stale order is failed through the
	// regular handler, which opens its own unit of work.
	stale, err := h.uowFactory.Create().OrderRepository().GetStaleInPaymentProcessing(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, aggregate := range stale {
		failCmd, err := NewFailPaymentCommand(aggregate.ID(), "payment processing timed out", "system")
		if err != nil {
			return err
		}

		if _, err := h.failHandler.Handle(ctx, failCmd); err != nil {
			h.logger.ErrorContext(ctx, "Failed to time out stale payment",
				"order_id", aggregate.ID().String(), "error", err)
		}
	}

	return nil
}
