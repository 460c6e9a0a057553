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

var ErrReleaseHoldCommandIsNotConstructed = errors.New(
	"ReleaseHoldCommand must be created via NewReleaseHoldCommand constructor",
)

// ReleaseHoldCommand resumes a held order at the exact status it was paused in.
type ReleaseHoldCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewReleaseHoldCommand creates a command to resume a held order.
func NewReleaseHoldCommand(orderID kernel.UUID, actor string, version int64) (ReleaseHoldCommand, error) {
	cmd := ReleaseHoldCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return ReleaseHoldCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseHoldCommand) Validate() error {
	return c.guard.Validate(ErrReleaseHoldCommandIsNotConstructed)
}

// OrderID returns the held order.
func (c ReleaseHoldCommand) OrderID() kernel.UUID { return c.orderID }

// Actor returns the identity recorded in the audit trail.
func (c ReleaseHoldCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c ReleaseHoldCommand) Version() int64 { return c.version }

func (c *ReleaseHoldCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ReleaseHoldCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *ReleaseHoldCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// ReleaseHoldCommandHandler resumes a held order.
type ReleaseHoldCommandHandler struct {
	transitioner
}

// NewReleaseHoldCommandHandler creates a handler for releasing holds.
func NewReleaseHoldCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) ReleaseHoldCommandHandler {
	return ReleaseHoldCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the command.
func (h ReleaseHoldCommandHandler) Handle(ctx context.Context, cmd ReleaseHoldCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.ReleaseHold(cmd.Actor())
	})
}
