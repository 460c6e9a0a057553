package http

import (
	"time"

	"orderflow/internal/core/domain/model/order"
)

// Request bodies. Every mutating request carries the actor identity and,
// except for order creation, the caller's last-seen aggregate version.

type createOrderRequest struct {
	OrderID       string             `json:"order_id"`
	Number        string             `json:"number"`
	CustomerID    string             `json:"customer_id"`
	PaymentMethod string             `json:"payment_method"`
	Items         []orderItemRequest `json:"items"`
	Subtotal      int64              `json:"subtotal"`
	Tax           int64              `json:"tax"`
	DeliveryFee   int64              `json:"delivery_fee"`
	Discount      int64              `json:"discount"`
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type actorRequest struct {
	Actor   string `json:"actor"`
	Version int64  `json:"version"`
}

type cancelOrderRequest struct {
	actorRequest
	Reason        string `json:"reason"`
	AdminOverride bool   `json:"admin_override"`
}

type reasonRequest struct {
	actorRequest
	Reason string `json:"reason"`
}

type assignDeliveryRequest struct {
	actorRequest
	PersonnelID string `json:"personnel_id"`
}

type deliveryAttemptRequest struct {
	actorRequest
	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`
}

type retryDeliveryRequest struct {
	actorRequest
	NewTime     *time.Time `json:"new_time,omitempty"`
	PersonnelID *string    `json:"personnel_id,omitempty"`
}

type markDeliveredRequest struct {
	actorRequest
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

type retryPaymentRequest struct {
	actorRequest
}

type approveReturnRequest struct {
	actorRequest
	Notes   string `json:"notes,omitempty"`
	Restock bool   `json:"restock"`
}

type scheduleReturnPickupRequest struct {
	actorRequest
	PickupAt time.Time `json:"pickup_at"`
}

type completeReturnRequest struct {
	actorRequest
	Restock bool `json:"restock"`
}

type initiateRefundRequest struct {
	actorRequest
	Amount *int64 `json:"amount,omitempty"`
}

type completeRefundRequest struct {
	actorRequest
	Reference string `json:"reference"`
}

type contactCustomerRequest struct {
	actorRequest
	Method  string `json:"method"`
	Message string `json:"message"`
}

type deliveryInstructionsRequest struct {
	actorRequest
	Text string `json:"text"`
}

// orderResponse is the representation of an order returned from every
// mutating endpoint and from GET /orders/:id via the read model.
type orderResponse struct {
	ID                   string              `json:"id"`
	Number               string              `json:"number"`
	CustomerID           string              `json:"customer_id"`
	Status               string              `json:"status"`
	PaymentStatus        string              `json:"payment_status"`
	PaymentMethod        string              `json:"payment_method"`
	Version              int64               `json:"version"`
	Total                int64               `json:"total"`
	TotalPaid            int64               `json:"total_paid"`
	TotalRefunded        int64               `json:"total_refunded"`
	DeliveryAttempts     int                 `json:"delivery_attempts"`
	DeliveryInstructions string              `json:"delivery_instructions,omitempty"`
	HoldReason           string              `json:"hold_reason,omitempty"`
	ReturnReason         string              `json:"return_reason,omitempty"`
	RefundAmount         int64               `json:"refund_amount,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	Items                []orderItemResponse `json:"items,omitempty"`
}

type orderItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type historyEntryResponse struct {
	ActionType string    `json:"action_type"`
	OldValue   string    `json:"old_value,omitempty"`
	NewValue   string    `json:"new_value,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Actor      string    `json:"actor"`
	CreatedAt  time.Time `json:"created_at"`
}

// fromAggregate maps a freshly mutated aggregate to its response form.
func fromAggregate(aggregate *order.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID().String(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}

	return orderResponse{
		ID:                   aggregate.ID().String(),
		Number:               aggregate.Number(),
		CustomerID:           aggregate.CustomerID().String(),
		Status:               aggregate.Status().String(),
		PaymentStatus:        aggregate.PaymentStatus().String(),
		PaymentMethod:        aggregate.PaymentMethod().String(),
		Version:              aggregate.Version(),
		Total:                aggregate.Total(),
		TotalPaid:            aggregate.TotalPaid(),
		TotalRefunded:        aggregate.TotalRefunded(),
		DeliveryAttempts:     aggregate.DeliveryAttempts(),
		DeliveryInstructions: aggregate.DeliveryInstructions(),
		HoldReason:           aggregate.HoldReason(),
		ReturnReason:         aggregate.ReturnReason(),
		RefundAmount:         aggregate.RefundAmount(),
		CreatedAt:            aggregate.CreatedAt(),
		Items:                items,
	}
}
