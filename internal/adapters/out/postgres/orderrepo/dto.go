// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between the domain model and the relational schema:
// one orders row, its order_items rows, and append-only order_history rows.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database row for an order aggregate. Status columns hold
// the snake_case enum names; money columns hold integer minor units.
type OrderDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number     string    `gorm:"uniqueIndex"`
	CustomerID uuid.UUID `gorm:"type:uuid;index"`

	Status        string `gorm:"index"`
	PaymentStatus string
	PaymentMethod string
	Version       int64

	Subtotal      int64
	Tax           int64
	DeliveryFee   int64
	Discount      int64
	TotalPaid     int64
	TotalRefunded int64

	PaymentID       string
	PaymentAttempts int

	PersonnelID          *uuid.UUID `gorm:"type:uuid"`
	DeliveryAttempts     int
	LastAttemptReason    string
	DeliveryInstructions string
	ScheduledDeliveryAt  *time.Time

	HoldReason   string
	HeldAt       *time.Time
	ResumeStatus string

	ReturnReason    string
	ReturnApprover  string
	ReturnNotes     string
	RestockOnReturn bool
	ReturnPickupAt  *time.Time

	RefundAmount    int64
	RefundReference string

	CreatedAt   time.Time
	ConfirmedAt *time.Time
	DeliveredAt *time.Time
	CanceledAt  *time.Time
	ReturnedAt  *time.Time
	RefundedAt  *time.Time
}

// TableName overrides GORM's default naming convention.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one order line. Lines are written once at order creation and
// never mutated afterwards.
type ItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Quantity  int
	UnitPrice int64
}

// TableName overrides GORM's default naming convention.
func (ItemDTO) TableName() string {
	return "order_items"
}

// HistoryDTO is one append-only audit trail entry.
type HistoryDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	ActionType string
	OldValue   string
	NewValue   string
	Reason     string
	Actor      string
	CreatedAt  time.Time
}

// TableName overrides GORM's default naming convention.
func (HistoryDTO) TableName() string {
	return "order_history"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var personnelID *uuid.UUID
	if id := aggregate.Personnel(); id != nil {
		raw := id.Bytes()
		personnelID = &raw
	}

	resumeStatus := ""
	if aggregate.Status() == order.OnHold {
		resumeStatus = aggregate.ResumeStatus().String()
	}

	charges := aggregate.Charges()

	return OrderDTO{
		ID:                   aggregate.ID().Bytes(),
		Number:               aggregate.Number(),
		CustomerID:           aggregate.CustomerID().Bytes(),
		Status:               aggregate.Status().String(),
		PaymentStatus:        aggregate.PaymentStatus().String(),
		PaymentMethod:        aggregate.PaymentMethod().String(),
		Version:              aggregate.Version(),
		Subtotal:             charges.Subtotal,
		Tax:                  charges.Tax,
		DeliveryFee:          charges.DeliveryFee,
		Discount:             charges.Discount,
		TotalPaid:            aggregate.TotalPaid(),
		TotalRefunded:        aggregate.TotalRefunded(),
		PaymentID:            aggregate.PaymentID(),
		PaymentAttempts:      aggregate.PaymentAttempts(),
		PersonnelID:          personnelID,
		DeliveryAttempts:     aggregate.DeliveryAttempts(),
		LastAttemptReason:    aggregate.LastAttemptReason(),
		DeliveryInstructions: aggregate.DeliveryInstructions(),
		ScheduledDeliveryAt:  aggregate.ScheduledDeliveryAt(),
		HoldReason:           aggregate.HoldReason(),
		HeldAt:               aggregate.HeldAt(),
		ResumeStatus:         resumeStatus,
		ReturnReason:         aggregate.ReturnReason(),
		ReturnApprover:       aggregate.ReturnApprover(),
		ReturnNotes:          aggregate.ReturnNotes(),
		RestockOnReturn:      aggregate.RestockOnReturn(),
		ReturnPickupAt:       aggregate.ReturnPickupAt(),
		RefundAmount:         aggregate.RefundAmount(),
		RefundReference:      aggregate.RefundReference(),
		CreatedAt:            aggregate.CreatedAt(),
		ConfirmedAt:          aggregate.ConfirmedAt(),
		DeliveredAt:          aggregate.DeliveredAt(),
		CanceledAt:           aggregate.CanceledAt(),
		ReturnedAt:           aggregate.ReturnedAt(),
		RefundedAt:           aggregate.RefundedAt(),
	}
}

// itemsFromDomain converts order lines to their database representation.
func itemsFromDomain(aggregate *order.Order) []ItemDTO {
	items := aggregate.Items()
	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			ProductID: item.ProductID().Bytes(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}
	return dtos
}

// historyFromDomain converts the aggregate's uncommitted audit entries to
// their database representation.
func historyFromDomain(aggregate *order.Order) []HistoryDTO {
	entries := aggregate.UncommittedHistory()
	dtos := make([]HistoryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, HistoryDTO{
			OrderID:    aggregate.ID().Bytes(),
			ActionType: entry.ActionType().String(),
			OldValue:   entry.OldValue(),
			NewValue:   entry.NewValue(),
			Reason:     entry.Reason(),
			Actor:      entry.Actor(),
			CreatedAt:  entry.CreatedAt(),
		})
	}
	return dtos
}

// toDomain reconstructs the complete aggregate from its rows using RestoreOrder.
func toDomain(dto OrderDTO, itemDTOs []ItemDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	method, err := order.PaymentMethodFromString(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}

	resumeStatus := order.Unknown
	if dto.ResumeStatus != "" {
		if resumeStatus, err = order.StatusFromString(dto.ResumeStatus); err != nil {
			return nil, err
		}
	}

	var personnelID *kernel.UUID
	if dto.PersonnelID != nil {
		pID, pErr := kernel.UUIDFromBytes((*dto.PersonnelID)[:])
		if pErr != nil {
			return nil, pErr
		}
		personnelID = &pID
	}

	items := make([]order.Item, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		productID, itemErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := order.NewItem(productID, itemDTO.Name, itemDTO.Quantity, itemDTO.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:            id,
		Number:        dto.Number,
		CustomerID:    customerID,
		Status:        status,
		PaymentStatus: paymentStatus,
		Method:        method,
		Version:       dto.Version,
		Charges: order.Charges{
			Subtotal:    dto.Subtotal,
			Tax:         dto.Tax,
			DeliveryFee: dto.DeliveryFee,
			Discount:    dto.Discount,
		},
		TotalPaid:            dto.TotalPaid,
		TotalRefunded:        dto.TotalRefunded,
		Items:                items,
		PaymentID:            dto.PaymentID,
		PaymentAttempts:      dto.PaymentAttempts,
		PersonnelID:          personnelID,
		DeliveryAttempts:     dto.DeliveryAttempts,
		LastAttemptReason:    dto.LastAttemptReason,
		DeliveryInstructions: dto.DeliveryInstructions,
		ScheduledDeliveryAt:  dto.ScheduledDeliveryAt,
		HoldReason:           dto.HoldReason,
		HeldAt:               dto.HeldAt,
		ResumeStatus:         resumeStatus,
		ReturnReason:         dto.ReturnReason,
		ReturnApprover:       dto.ReturnApprover,
		ReturnNotes:          dto.ReturnNotes,
		RestockOnReturn:      dto.RestockOnReturn,
		ReturnPickupAt:       dto.ReturnPickupAt,
		RefundAmount:         dto.RefundAmount,
		RefundReference:      dto.RefundReference,
		CreatedAt:            dto.CreatedAt,
		ConfirmedAt:          dto.ConfirmedAt,
		DeliveredAt:          dto.DeliveredAt,
		CanceledAt:           dto.CanceledAt,
		ReturnedAt:           dto.ReturnedAt,
		RefundedAt:           dto.RefundedAt,
	})
}
