package commands

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrFailPaymentCommandIsNotConstructed = errors.New(
	"FailPaymentCommand must be created via NewFailPaymentCommand constructor",
)

// FailPaymentCommand applies a payment-failure event from the gateway.
// Like captures, failure callbacks carry no version expectation.
type FailPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string
	actor   string

	guard guard.ConstructorGuard
}

// NewFailPaymentCommand creates a command applying a failure event.
// The reason is optional gateway diagnostics.
func NewFailPaymentCommand(orderID kernel.UUID, reason, actor string) (FailPaymentCommand, error) {
	cmd := FailPaymentCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return FailPaymentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FailPaymentCommand) Validate() error {
	return c.guard.Validate(ErrFailPaymentCommandIsNotConstructed)
}

// OrderID returns the order the failure applies to.
func (c FailPaymentCommand) OrderID() kernel.UUID { return c.orderID }

// Reason returns the gateway-supplied failure reason.
func (c FailPaymentCommand) Reason() string { return c.reason }

// Actor returns the identity recorded in the audit trail.
func (c FailPaymentCommand) Actor() string { return c.actor }

func (c *FailPaymentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *FailPaymentCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

// FailPaymentCommandHandler moves an order into payment_failed and counts
// the attempt. Failure events replayed against an order no longer in
// payment_processing are acknowledged without mutation.
type FailPaymentCommandHandler struct {
	transitioner
}

// NewFailPaymentCommandHandler creates a handler for payment failure events.
func NewFailPaymentCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) FailPaymentCommandHandler {
	return FailPaymentCommandHandler{
		transitioner: newTransitioner(uowFactory, publisher),
	}
}

// Handle processes the failure event.
func (h FailPaymentCommandHandler) Handle(ctx context.Context, cmd FailPaymentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	// Duplicate delivery of the failure event: acknowledge without mutation.
	if aggregate.Status() == order.PaymentFailed {
		return aggregate, nil
	}

	if err = aggregate.FailPayment(cmd.Actor(), cmd.Reason()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publish(ctx, aggregate)
	return aggregate, nil
}
