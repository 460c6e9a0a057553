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

var ErrInitiateRefundCommandIsNotConstructed = errors.New(
	"InitiateRefundCommand must be created via NewInitiateRefundCommand constructor",
)

// InitiateRefundCommand starts a refund for a returned or canceled order.
// A nil amount means the full refundable balance.
type InitiateRefundCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	amount  *int64
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewInitiateRefundCommand creates a command to start a refund.
func NewInitiateRefundCommand(
	orderID kernel.UUID,
	amount *int64,
	actor string,
	version int64,
) (InitiateRefundCommand, error) {
	cmd := InitiateRefundCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAmount(amount),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return InitiateRefundCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c InitiateRefundCommand) Validate() error {
	return c.guard.Validate(ErrInitiateRefundCommandIsNotConstructed)
}

// OrderID returns the order to refund.
func (c InitiateRefundCommand) OrderID() kernel.UUID { return c.orderID }

// Amount returns the requested refund amount, nil for the full refundable balance.
func (c InitiateRefundCommand) Amount() *int64 { return c.amount }

// Actor returns the identity recorded in the audit trail.
func (c InitiateRefundCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c InitiateRefundCommand) Version() int64 { return c.version }

func (c *InitiateRefundCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *InitiateRefundCommand) setAmount(amount *int64) error {
	if amount != nil && *amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is not greater than 0", *amount))
	}
	c.amount = amount
	return nil
}

func (c *InitiateRefundCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *InitiateRefundCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// InitiateRefundCommandHandler starts a refund. The aggregate enforces the
// refundable-balance ceiling.
type InitiateRefundCommandHandler struct {
	transitioner
}

// NewInitiateRefundCommandHandler creates a handler for refund initiation.
func NewInitiateRefundCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) InitiateRefundCommandHandler {
	return InitiateRefundCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the refund initiation.
func (h InitiateRefundCommandHandler) Handle(ctx context.Context, cmd InitiateRefundCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.InitiateRefund(cmd.Actor(), cmd.Amount())
	})
}
