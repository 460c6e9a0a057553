package order

import (
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Item is a line item created atomically with its order.
// Items are immutable after the order is confirmed; substitutions go
// through a separate flow that replaces the item wholesale.
// All monetary values are integer minor units.
type Item struct {
	productID kernel.UUID
	name      string
	quantity  int
	unitPrice int64
}

// NewItem creates a validated order line item.
func NewItem(productID kernel.UUID, name string, quantity int, unitPrice int64) (Item, error) {
	if err := productID.Validate(); err != nil {
		return Item{}, err
	}
	if name == "" {
		return Item{}, errs.NewValueIsRequiredError("item name")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if unitPrice < 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("unitPrice", fmt.Errorf("%d is negative", unitPrice))
	}
	return Item{
		productID: productID,
		name:      name,
		quantity:  quantity,
		unitPrice: unitPrice,
	}, nil
}

// ProductID returns the catalog identifier of the item.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Name returns the display name captured at order time.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the per-unit price in minor units.
func (i Item) UnitPrice() int64 {
	return i.unitPrice
}

// LineTotal returns quantity times unit price in minor units.
func (i Item) LineTotal() int64 {
	return int64(i.quantity) * i.unitPrice
}
