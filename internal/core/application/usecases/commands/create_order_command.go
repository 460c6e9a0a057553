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

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to create a new order together
// with its items. The order is born in pending status; items cannot be
// added after creation.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	number     string
	customerID kernel.UUID
	method     order.PaymentMethod
	items      []order.Item
	charges    order.Charges

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Item and charge validation is deferred to the aggregate constructor; the
// command validates identifiers, the order number, and the payment method.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	number string,
	customerID kernel.UUID,
	method order.PaymentMethod,
	items []order.Item,
	charges order.Charges,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		items:   items,
		charges: charges,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setNumber(number),
		cmd.setCustomerID(customerID),
		cmd.setMethod(method),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Number returns the human-readable order number.
func (c CreateOrderCommand) Number() string { return c.number }

// CustomerID returns the owning customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// Method returns the payment method.
func (c CreateOrderCommand) Method() order.PaymentMethod { return c.method }

// Items returns the order line items.
func (c CreateOrderCommand) Items() []order.Item { return c.items }

// Charges returns the monetary breakdown.
func (c CreateOrderCommand) Charges() order.Charges { return c.charges }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	c.number = number
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	c.method = method
	return nil
}

// CreateOrderCommandHandler handles the business logic for order creation.
// Creates the aggregate in pending status together with its items and
// persists it in one transaction.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the order creation command.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Number(),
		cmd.CustomerID(),
		cmd.Method(),
		cmd.Items(),
		cmd.Charges(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if h.publisher != nil {
		_ = h.publisher.PublishOrderChanged(ctx, aggregate)
	}
	return aggregate, nil
}
