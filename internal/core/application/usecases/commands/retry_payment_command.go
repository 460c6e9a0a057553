package commands

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrRetryPaymentCommandIsNotConstructed = errors.New(
	"RetryPaymentCommand must be created via NewRetryPaymentCommand constructor",
)

// RetryPaymentCommand re-enters payment processing after a failed capture.
type RetryPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewRetryPaymentCommand creates a command to retry a failed payment.
func NewRetryPaymentCommand(orderID kernel.UUID, actor string, version int64) (RetryPaymentCommand, error) {
	cmd := RetryPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return RetryPaymentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RetryPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRetryPaymentCommandIsNotConstructed)
}

// OrderID returns the order to retry payment for.
func (c RetryPaymentCommand) OrderID() kernel.UUID { return c.orderID }

// Actor returns the identity recorded in the audit trail.
func (c RetryPaymentCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c RetryPaymentCommand) Version() int64 { return c.version }

func (c *RetryPaymentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RetryPaymentCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *RetryPaymentCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// RetryPaymentCommandHandler re-enters payment processing while under the
// configured attempt limit.
type RetryPaymentCommandHandler struct {
	transitioner
	maxAttempts int
}

// NewRetryPaymentCommandHandler creates a handler for payment retries.
func NewRetryPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	maxAttempts int,
) RetryPaymentCommandHandler {
	return RetryPaymentCommandHandler{
		transitioner: newTransitioner(uowFactory, publisher),
		maxAttempts:  maxAttempts,
	}
}

// Handle processes the payment retry command.
func (h RetryPaymentCommandHandler) Handle(ctx context.Context, cmd RetryPaymentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.RetryPayment(cmd.Actor(), h.maxAttempts)
	})
}
