package order

import (
	"time"

	"orderflow/internal/pkg/errs"
)

// ActionType classifies an audit-trail entry.
type ActionType int

const (
	// ActionTypeUnknown represents an invalid or undefined action type.
	ActionTypeUnknown ActionType = iota

	// ActionTypeStatusChange records an accepted fulfillment-status transition.
	ActionTypeStatusChange

	// ActionTypePaymentStatusChange records an accepted payment-status transition.
	ActionTypePaymentStatusChange

	// ActionTypeCustomerContact records a customer-contact annotation.
	// Does not change order status.
	ActionTypeCustomerContact

	// ActionTypeDeliveryInstructionsUpdate records a delivery-instruction
	// annotation. Does not change order status.
	ActionTypeDeliveryInstructionsUpdate
)

func getActionTypeStrings() map[ActionType]string {
	return map[ActionType]string{
		ActionTypeUnknown:                    "unknown",
		ActionTypeStatusChange:               "status_change",
		ActionTypePaymentStatusChange:        "payment_status_change",
		ActionTypeCustomerContact:            "customer_contact",
		ActionTypeDeliveryInstructionsUpdate: "delivery_instructions_update",
	}
}

// String returns the snake_case name of the action type.
func (a ActionType) String() string {
	if str, ok := getActionTypeStrings()[a]; ok {
		return str
	}
	return "unknown"
}

// HistoryEntry is one immutable record in the order's append-only audit
// trail. Entries are never mutated or deleted; every accepted transition
// appends exactly one, and annotations append entries without changing status.
type HistoryEntry struct {
	actionType ActionType
	oldValue   string
	newValue   string
	reason     string
	actor      string
	createdAt  time.Time
}

// NewHistoryEntry creates an audit-trail entry.
// The actor is required; reason is optional.
func NewHistoryEntry(actionType ActionType, oldValue, newValue, reason, actor string, createdAt time.Time) (HistoryEntry, error) {
	if actionType == ActionTypeUnknown {
		return HistoryEntry{}, errs.NewValueIsInvalidError("actionType")
	}
	if actor == "" {
		return HistoryEntry{}, errs.NewValueIsRequiredError("actor")
	}
	return HistoryEntry{
		actionType: actionType,
		oldValue:   oldValue,
		newValue:   newValue,
		reason:     reason,
		actor:      actor,
		createdAt:  createdAt,
	}, nil
}

// ActionType returns the entry classification.
func (h HistoryEntry) ActionType() ActionType {
	return h.actionType
}

// OldValue returns the value before the recorded change.
// Empty for annotations.
func (h HistoryEntry) OldValue() string {
	return h.oldValue
}

// NewValue returns the value after the recorded change, or the annotation body.
func (h HistoryEntry) NewValue() string {
	return h.newValue
}

// Reason returns the optional free-text reason supplied by the actor.
func (h HistoryEntry) Reason() string {
	return h.reason
}

// Actor returns the identity that triggered the change.
func (h HistoryEntry) Actor() string {
	return h.actor
}

// CreatedAt returns when the entry was recorded.
func (h HistoryEntry) CreatedAt() time.Time {
	return h.createdAt
}
