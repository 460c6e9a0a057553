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

var ErrApproveReturnCommandIsNotConstructed = errors.New(
	"ApproveReturnCommand must be created via NewApproveReturnCommand constructor",
)

// ApproveReturnCommand accepts a pending return request. The restock flag
// records whether the goods go back to stock once the return completes.
type ApproveReturnCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	notes   string
	restock bool
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewApproveReturnCommand creates a command to approve a return request.
func NewApproveReturnCommand(
	orderID kernel.UUID,
	notes string,
	restock bool,
	actor string,
	version int64,
) (ApproveReturnCommand, error) {
	cmd := ApproveReturnCommand{notes: notes, restock: restock, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return ApproveReturnCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApproveReturnCommand) Validate() error {
	return c.guard.Validate(ErrApproveReturnCommandIsNotConstructed)
}

// OrderID returns the order with a pending return request.
func (c ApproveReturnCommand) OrderID() kernel.UUID { return c.orderID }

// Notes returns optional reviewer notes.
func (c ApproveReturnCommand) Notes() string { return c.notes }

// Restock reports whether returned goods go back to stock.
func (c ApproveReturnCommand) Restock() bool { return c.restock }

// Actor returns the identity recorded in the audit trail.
func (c ApproveReturnCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c ApproveReturnCommand) Version() int64 { return c.version }

func (c *ApproveReturnCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ApproveReturnCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *ApproveReturnCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// ApproveReturnCommandHandler accepts a return request.
type ApproveReturnCommandHandler struct {
	transitioner
}

// NewApproveReturnCommandHandler creates a handler for return approvals.
func NewApproveReturnCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) ApproveReturnCommandHandler {
	return ApproveReturnCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the approval.
func (h ApproveReturnCommandHandler) Handle(ctx context.Context, cmd ApproveReturnCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.ApproveReturn(cmd.Actor(), cmd.Notes(), cmd.Restock())
	})
}
