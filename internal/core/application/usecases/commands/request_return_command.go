package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrRequestReturnCommandIsNotConstructed = errors.New(
	"RequestReturnCommand must be created via NewRequestReturnCommand constructor",
)

// RequestReturnCommand opens a return request for a delivered order.
type RequestReturnCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewRequestReturnCommand creates a command to request a return.
func NewRequestReturnCommand(orderID kernel.UUID, reason, actor string, version int64) (RequestReturnCommand, error) {
	cmd := RequestReturnCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return RequestReturnCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestReturnCommand) Validate() error {
	return c.guard.Validate(ErrRequestReturnCommandIsNotConstructed)
}

// OrderID returns the delivered order.
func (c RequestReturnCommand) OrderID() kernel.UUID { return c.orderID }

// Reason returns the mandatory return reason.
func (c RequestReturnCommand) Reason() string { return c.reason }

// Actor returns the identity recorded in the audit trail.
func (c RequestReturnCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c RequestReturnCommand) Version() int64 { return c.version }

func (c *RequestReturnCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RequestReturnCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	c.reason = reason
	return nil
}

func (c *RequestReturnCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *RequestReturnCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// RequestReturnCommandHandler opens a return request after checking the
// return window policy against the delivery timestamp.
type RequestReturnCommandHandler struct {
	transitioner
	policy *services.ReturnPolicy
}

// NewRequestReturnCommandHandler creates a handler for return requests.
func NewRequestReturnCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	policy *services.ReturnPolicy,
) RequestReturnCommandHandler {
	return RequestReturnCommandHandler{
		transitioner: newTransitioner(uowFactory, publisher),
		policy:       policy,
	}
}

// Handle processes the return request.
func (h RequestReturnCommandHandler) Handle(ctx context.Context, cmd RequestReturnCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		if err := h.policy.CheckEligibility(aggregate, time.Now().UTC()); err != nil {
			return err
		}
		return aggregate.RequestReturn(cmd.Actor(), cmd.Reason())
	})
}
