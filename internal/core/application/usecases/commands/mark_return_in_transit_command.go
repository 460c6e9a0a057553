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

var ErrMarkReturnInTransitCommandIsNotConstructed = errors.New(
	"MarkReturnInTransitCommand must be created via NewMarkReturnInTransitCommand constructor",
)

// MarkReturnInTransitCommand records that returned goods were picked up and
// are on their way back.
type MarkReturnInTransitCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewMarkReturnInTransitCommand creates a command to mark a return in transit.
func NewMarkReturnInTransitCommand(orderID kernel.UUID, actor string, version int64) (MarkReturnInTransitCommand, error) {
	cmd := MarkReturnInTransitCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return MarkReturnInTransitCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkReturnInTransitCommand) Validate() error {
	return c.guard.Validate(ErrMarkReturnInTransitCommandIsNotConstructed)
}

// OrderID returns the order whose return is in transit.
func (c MarkReturnInTransitCommand) OrderID() kernel.UUID { return c.orderID }

// Actor returns the identity recorded in the audit trail.
func (c MarkReturnInTransitCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c MarkReturnInTransitCommand) Version() int64 { return c.version }

func (c *MarkReturnInTransitCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *MarkReturnInTransitCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *MarkReturnInTransitCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// MarkReturnInTransitCommandHandler records the return pickup.
type MarkReturnInTransitCommandHandler struct {
	transitioner
}

// NewMarkReturnInTransitCommandHandler creates a handler for return transit updates.
func NewMarkReturnInTransitCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) MarkReturnInTransitCommandHandler {
	return MarkReturnInTransitCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the command.
func (h MarkReturnInTransitCommandHandler) Handle(ctx context.Context, cmd MarkReturnInTransitCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.MarkReturnInTransit(cmd.Actor())
	})
}
