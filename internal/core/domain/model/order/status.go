package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with a single explicit transition table so the
// full graph is auditable and testable in one place.
//
// State graph (terminal states marked *):
//
//	pending ──> payment_processing ──┬──> confirmed ──> preparing ──> ready_for_pickup ──> out_for_delivery ──┬──> delivered
//	                ▲                └──> payment_failed ──> payment_processing (retry)                       └──> delivery_attempted ──> out_for_delivery (retry)
//	                                                                                                                       │
//	{preparing, ready_for_pickup, out_for_delivery, delivery_attempted} <──> on_hold (release restores the captured state)
//	                                                                                                                       ▼
//	delivered ──> return_requested ──┬──> return_approved ──> return_pickup_scheduled ──> return_in_transit ──> returned ──> refund_pending ──> refunded*
//	                                 └──> return_rejected*
//	pre-delivery states ──> canceled*; fulfillment-impossible conditions ──> failed*
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first created.
	Pending

	// PaymentProcessing indicates a payment capture is in flight at the gateway.
	PaymentProcessing

	// PaymentFailed indicates the gateway declined or failed the capture.
	// The payment may be retried while under the configured attempt limit.
	PaymentFailed

	// Confirmed indicates payment settled (or settlement is deferred by the
	// payment method) and inventory has been reserved.
	Confirmed

	// OnHold indicates fulfillment is paused by an administrator.
	// The pre-hold status is captured and restored exactly on release.
	OnHold

	// Preparing indicates the order is being picked and packed.
	Preparing

	// ReadyForPickup indicates the order awaits delivery personnel assignment.
	ReadyForPickup

	// OutForDelivery indicates delivery personnel are en route.
	OutForDelivery

	// DeliveryAttempted indicates a delivery attempt failed.
	// The order may be re-dispatched while under the attempt limit.
	DeliveryAttempted

	// Delivered indicates the order reached the customer.
	// Opens the return-eligibility window.
	Delivered

	// ReturnRequested indicates the customer asked to return a delivered order.
	ReturnRequested

	// ReturnApproved indicates an administrator accepted the return request.
	ReturnApproved

	// ReturnRejected indicates an administrator declined the return request.
	// This is a terminal status.
	ReturnRejected

	// ReturnPickupScheduled indicates a pickup slot was booked for the return.
	ReturnPickupScheduled

	// ReturnInTransit indicates the returned goods are on their way back.
	ReturnInTransit

	// Returned indicates the returned goods were received.
	Returned

	// RefundPending indicates a refund was initiated and awaits settlement.
	RefundPending

	// Refunded indicates the refund settled. This is a terminal status.
	Refunded

	// Canceled indicates an intentional pre-delivery termination,
	// by the customer or an administrator. This is a terminal status.
	Canceled

	// Failed indicates the system detected a fulfillment-impossible
	// condition. This is a terminal status.
	Failed
)

// allowedTransitions is the single source of truth for transition legality.
// Hold release is additionally restricted to the exact captured status, and
// cancellation from dispatched states requires an admin override; both guards
// live on the aggregate because they depend on aggregate state.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:               {PaymentProcessing, Canceled},
		PaymentProcessing:     {Confirmed, PaymentFailed, Canceled},
		PaymentFailed:         {PaymentProcessing, Canceled, Failed},
		Confirmed:             {Preparing, Canceled},
		Preparing:             {ReadyForPickup, OnHold, Canceled},
		ReadyForPickup:        {OutForDelivery, OnHold, Canceled},
		OutForDelivery:        {Delivered, DeliveryAttempted, OnHold, Canceled},
		DeliveryAttempted:     {OutForDelivery, OnHold, Canceled, Failed},
		OnHold:                {Preparing, ReadyForPickup, OutForDelivery, DeliveryAttempted, Canceled},
		Delivered:             {ReturnRequested},
		ReturnRequested:       {ReturnApproved, ReturnRejected},
		ReturnApproved:        {ReturnPickupScheduled},
		ReturnPickupScheduled: {ReturnInTransit},
		ReturnInTransit:       {Returned},
		Returned:              {RefundPending},
		RefundPending:         {Refunded},
		Refunded:              {},
		Canceled:              {},
		Failed:                {},
		ReturnRejected:        {},
	}
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:               "unknown",
		Pending:               "pending",
		PaymentProcessing:     "payment_processing",
		PaymentFailed:         "payment_failed",
		Confirmed:             "confirmed",
		OnHold:                "on_hold",
		Preparing:             "preparing",
		ReadyForPickup:        "ready_for_pickup",
		OutForDelivery:        "out_for_delivery",
		DeliveryAttempted:     "delivery_attempted",
		Delivered:             "delivered",
		ReturnRequested:       "return_requested",
		ReturnApproved:        "return_approved",
		ReturnRejected:        "return_rejected",
		ReturnPickupScheduled: "return_pickup_scheduled",
		ReturnInTransit:       "return_in_transit",
		Returned:              "returned",
		RefundPending:         "refund_pending",
		Refunded:              "refunded",
		Canceled:              "canceled",
		Failed:                "failed",
	}
}

// AllStatuses returns every valid status value.
// Useful for exhaustive transition-legality checks.
func AllStatuses() []Status {
	statuses := make([]Status, 0, len(allowedTransitions()))
	for s := range allowedTransitions() {
		statuses = append(statuses, s)
	}
	return statuses
}

// Validate checks if the Status value is valid.
// Unknown (0) and values outside the defined set are invalid.
func (s Status) Validate() error {
	if _, ok := allowedTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", int(s)))
	}
	return nil
}

// String returns the snake_case name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromString parses a snake_case status name.
// Used when reconstructing orders from persistence or external input.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// IsTerminal reports whether no further transitions are defined for the status.
// Terminal-ness is a property of the status value itself, not a separate flag.
func (s Status) IsTerminal() bool {
	next, ok := allowedTransitions()[s]
	return ok && len(next) == 0
}

// IsHoldable reports whether an order in this status may be put on hold.
func (s Status) IsHoldable() bool {
	return s.CanTransitionTo(OnHold)
}

// IsCancelable reports whether cancellation is legal from this status at all.
// Cancellation from dispatched states additionally requires an admin override,
// which is enforced by the aggregate.
func (s Status) IsCancelable() bool {
	return s.CanTransitionTo(Canceled)
}

// Dispatched reports whether the order has left for the customer.
// Canceling a dispatched order is an admin decision.
func (s Status) Dispatched() bool {
	return s == OutForDelivery || s == DeliveryAttempted
}

// AtOrPastConfirmation reports whether the order has progressed to Confirmed
// or beyond. Used to detect replayed payment-capture events.
func (s Status) AtOrPastConfirmation() bool {
	switch s {
	case Unknown, Pending, PaymentProcessing, PaymentFailed, Canceled, Failed:
		return false
	default:
		return true
	}
}

// CanTransitionTo reports whether next is in this status's allow-list.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo validates the transition against the allow-list and returns
// the new status. The receiver is never mutated; an illegal transition
// returns an InvalidTransitionError and leaves the caller untouched.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewInvalidTransitionError(s.String(), next.String())
	}
	return next, nil
}
