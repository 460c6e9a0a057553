package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a single order by its identifier.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order identifier.
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderQueryResponse is the read model for a single order.
type GetOrderQueryResponse struct {
	ID                   kernel.UUID
	Number               string
	CustomerID           kernel.UUID
	Status               string
	PaymentStatus        string
	PaymentMethod        string
	Version              int64
	Total                int64
	TotalPaid            int64
	TotalRefunded        int64
	DeliveryAttempts     int
	DeliveryInstructions string
	HoldReason           string
	ReturnReason         string
	RefundAmount         int64
	CreatedAt            time.Time
	Items                []GetOrderQueryItem
}

// GetOrderQueryItem is one order line in the read model.
type GetOrderQueryItem struct {
	ProductID kernel.UUID
	Name      string
	Quantity  int
	UnitPrice int64
}
