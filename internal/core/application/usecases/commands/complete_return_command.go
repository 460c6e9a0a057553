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

var ErrCompleteReturnCommandIsNotConstructed = errors.New(
	"CompleteReturnCommand must be created via NewCompleteReturnCommand constructor",
)

// CompleteReturnCommand records receipt of the returned goods at the warehouse.
// The restock flag finalizes the intent captured at approval time.
type CompleteReturnCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	restock bool
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewCompleteReturnCommand creates a command to complete a return.
func NewCompleteReturnCommand(orderID kernel.UUID, restock bool, actor string, version int64) (CompleteReturnCommand, error) {
	cmd := CompleteReturnCommand{restock: restock, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return CompleteReturnCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteReturnCommand) Validate() error {
	return c.guard.Validate(ErrCompleteReturnCommandIsNotConstructed)
}

// OrderID returns the order whose return completed.
func (c CompleteReturnCommand) OrderID() kernel.UUID { return c.orderID }

// Restock reports whether the received goods go back to stock.
func (c CompleteReturnCommand) Restock() bool { return c.restock }

// Actor returns the identity recorded in the audit trail.
func (c CompleteReturnCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c CompleteReturnCommand) Version() int64 { return c.version }

func (c *CompleteReturnCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CompleteReturnCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *CompleteReturnCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// CompleteReturnCommandHandler marks the returned goods as received.
// Restocking happens when the refund settles, not here, so a refund that
// never completes leaves the stock adjustment pending with it.
type CompleteReturnCommandHandler struct {
	transitioner
}

// NewCompleteReturnCommandHandler creates a handler for return completion.
func NewCompleteReturnCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) CompleteReturnCommandHandler {
	return CompleteReturnCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the completion command.
func (h CompleteReturnCommandHandler) Handle(ctx context.Context, cmd CompleteReturnCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.CompleteReturn(cmd.Actor(), cmd.Restock())
	})
}
