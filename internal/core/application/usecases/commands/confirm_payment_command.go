package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand applies a payment-capture event from the gateway.
// Carries no version expectation: gateway callbacks are asynchronous and
// may arrive out of order or duplicated; idempotency is keyed on paymentID.
type ConfirmPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	paymentID string
	actor     string

	guard guard.ConstructorGuard
}

// NewConfirmPaymentCommand creates a command applying a capture event.
func NewConfirmPaymentCommand(orderID kernel.UUID, paymentID, actor string) (ConfirmPaymentCommand, error) {
	cmd := ConfirmPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPaymentID(paymentID),
		cmd.setActor(actor),
	); err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

// OrderID returns the order the capture applies to.
func (c ConfirmPaymentCommand) OrderID() kernel.UUID { return c.orderID }

// PaymentID returns the gateway payment identifier used for deduplication.
func (c ConfirmPaymentCommand) PaymentID() string { return c.paymentID }

// Actor returns the identity recorded in the audit trail.
func (c ConfirmPaymentCommand) Actor() string { return c.actor }

func (c *ConfirmPaymentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ConfirmPaymentCommand) setPaymentID(paymentID string) error {
	if paymentID == "" {
		return errs.NewValueIsRequiredError("paymentID")
	}
	c.paymentID = paymentID
	return nil
}

func (c *ConfirmPaymentCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

// ConfirmPaymentCommandHandler settles a capture event: the order becomes
// confirmed, inventory is reserved for its items inside the transaction
// boundary, and a confirmation notification is emitted after the commit.
//
// Replaying a capture with an already-applied paymentID is a no-op returning
// the current aggregate: confirmed-state side effects are never double
// applied and no additional audit entry is recorded.
type ConfirmPaymentCommandHandler struct {
	transitioner
	inventory ports.Inventory
	notifier  ports.Notifier
	logger    *slog.Logger
}

// NewConfirmPaymentCommandHandler creates a handler for payment capture events.
func NewConfirmPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	inventory ports.Inventory,
	notifier ports.Notifier,
	logger *slog.Logger,
) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		transitioner: newTransitioner(uowFactory, publisher),
		inventory:    inventory,
		notifier:     notifier,
		logger:       logger.With("component", "confirm_payment_handler"),
	}
}

// Handle processes the capture event.
func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*order.Order, error) {
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

	// Duplicate delivery of the same capture event: acknowledge without
	// touching the aggregate or its side effects.
	if aggregate.AlreadyCaptured(cmd.PaymentID()) {
		h.logger.InfoContext(ctx, "Duplicate payment capture ignored",
			"order_id", aggregate.ID().String(), "payment_id", cmd.PaymentID())
		return aggregate, nil
	}

	// A capture may arrive before the order was handed to processing.
	if aggregate.Status() == order.Pending {
		if err = aggregate.ProcessPayment(cmd.Actor()); err != nil {
			return nil, err
		}
	}

	if err = aggregate.ConfirmPayment(cmd.Actor(), cmd.PaymentID()); err != nil {
		return nil, err
	}

	// Reserve inventory inside the transition boundary: a failure here
	// rolls back the whole transition and is reported as retryable.
	if err = h.inventory.Reserve(ctx, aggregate.ID(), aggregate.Items()); err != nil {
		return nil, errs.NewSideEffectError("reserve inventory", err)
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if notifyErr := h.notifier.Notify(ctx, aggregate.CustomerID(), "order_confirmed", map[string]any{
		"order_number": aggregate.Number(),
		"total":        aggregate.Total(),
	}); notifyErr != nil {
		h.logger.WarnContext(ctx, "Confirmation notification failed",
			"order_id", aggregate.ID().String(), "error", notifyErr)
	}

	h.publish(ctx, aggregate)
	return aggregate, nil
}
