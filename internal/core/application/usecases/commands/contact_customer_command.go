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

var ErrContactCustomerCommandIsNotConstructed = errors.New(
	"ContactCustomerCommand must be created via NewContactCustomerCommand constructor",
)

// ContactCustomerCommand appends a customer-contact annotation to the order's
// audit trail without changing its status.
type ContactCustomerCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	method  string
	message string
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewContactCustomerCommand creates a command to record a customer contact.
func NewContactCustomerCommand(
	orderID kernel.UUID,
	method, message, actor string,
	version int64,
) (ContactCustomerCommand, error) {
	cmd := ContactCustomerCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setMethod(method),
		cmd.setMessage(message),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return ContactCustomerCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ContactCustomerCommand) Validate() error {
	return c.guard.Validate(ErrContactCustomerCommandIsNotConstructed)
}

// OrderID returns the contacted order.
func (c ContactCustomerCommand) OrderID() kernel.UUID { return c.orderID }

// Method returns the contact channel used, e.g. phone or email.
func (c ContactCustomerCommand) Method() string { return c.method }

// Message returns the contact summary recorded in the audit trail.
func (c ContactCustomerCommand) Message() string { return c.message }

// Actor returns the identity recorded in the audit trail.
func (c ContactCustomerCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c ContactCustomerCommand) Version() int64 { return c.version }

func (c *ContactCustomerCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ContactCustomerCommand) setMethod(method string) error {
	if method == "" {
		return errs.NewValueIsRequiredError("method")
	}
	c.method = method
	return nil
}

func (c *ContactCustomerCommand) setMessage(message string) error {
	if message == "" {
		return errs.NewValueIsRequiredError("message")
	}
	c.message = message
	return nil
}

func (c *ContactCustomerCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *ContactCustomerCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// ContactCustomerCommandHandler records a customer contact annotation.
type ContactCustomerCommandHandler struct {
	transitioner
}

// NewContactCustomerCommandHandler creates a handler for contact annotations.
func NewContactCustomerCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) ContactCustomerCommandHandler {
	return ContactCustomerCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the annotation command.
func (h ContactCustomerCommandHandler) Handle(ctx context.Context, cmd ContactCustomerCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.ContactCustomer(cmd.Actor(), cmd.Method(), cmd.Message())
	})
}
