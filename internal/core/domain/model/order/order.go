package order

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Charges holds the monetary breakdown of an order in integer minor units.
type Charges struct {
	Subtotal    int64
	Tax         int64
	DeliveryFee int64
	Discount    int64
}

// Total returns subtotal + tax + delivery fee - discount.
func (c Charges) Total() int64 {
	return c.Subtotal + c.Tax + c.DeliveryFee - c.Discount
}

func (c Charges) validate() error {
	if c.Subtotal < 0 || c.Tax < 0 || c.DeliveryFee < 0 || c.Discount < 0 {
		return errs.NewValueIsInvalidError("charges must not be negative")
	}
	if c.Total() <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("charges", fmt.Errorf("total %d is not greater than 0", c.Total()))
	}
	return nil
}

// Order is the aggregate root coordinating a commerce order through its full
// lifecycle: creation, payment settlement, preparation, delivery with retries,
// and post-delivery return/refund.
//
// Order follows these invariants:
//   - Status and PaymentStatus stay mutually consistent; Confirmed requires a
//     settled payment unless the payment method defers settlement
//   - Every accepted transition appends exactly one HistoryEntry
//   - Hold release restores exactly the status captured at hold time
//   - Refunded amount never exceeds the paid amount
//   - The version counter increments on every accepted mutation; a stale
//     write is rejected by the repository, never silently overwritten
//   - Terminal statuses accept no further transitions
//
// The struct uses private fields to ensure encapsulation; all mutation goes
// through transition methods that validate guards before touching any state.
type Order struct {
	id         kernel.UUID
	number     string
	customerID kernel.UUID

	status        Status
	paymentStatus PaymentStatus
	method        PaymentMethod

	// version is the optimistic-concurrency counter, bumped by the
	// repository on every successful write.
	version int64

	charges       Charges
	totalPaid     int64
	totalRefunded int64
	items         []Item

	paymentID       string
	paymentAttempts int

	personnelID          *kernel.UUID
	deliveryAttempts     int
	lastAttemptReason    string
	deliveryInstructions string
	scheduledDeliveryAt  *time.Time

	holdReason   string
	heldAt       *time.Time
	resumeStatus Status

	returnReason    string
	returnApprover  string
	returnNotes     string
	restockOnReturn bool
	returnPickupAt  *time.Time

	refundAmount    int64
	refundReference string

	createdAt   time.Time
	confirmedAt *time.Time
	deliveredAt *time.Time
	canceledAt  *time.Time
	returnedAt  *time.Time
	refundedAt  *time.Time

	// uncommitted holds audit entries recorded since the last save.
	// The repository persists and clears them together with the aggregate.
	uncommitted []HistoryEntry

	isConstructed bool
}

// NewOrder creates a new Order in Pending status together with its items.
// Items are created atomically with the order and cannot be added later.
func NewOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	method PaymentMethod,
	items []Item,
	charges Charges,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		method.Validate(),
		charges.validate(),
	); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("order items")
	}

	return &Order{
		id:            id,
		number:        number,
		customerID:    customerID,
		status:        Pending,
		paymentStatus: PaymentStatusPending,
		method:        method,
		version:       1,
		charges:       charges,
		items:         items,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreParams carries the full persisted state of an order.
// Used only by repositories rehydrating aggregates.
type RestoreParams struct {
	ID            kernel.UUID
	Number        string
	CustomerID    kernel.UUID
	Status        Status
	PaymentStatus PaymentStatus
	Method        PaymentMethod
	Version       int64
	Charges       Charges
	TotalPaid     int64
	TotalRefunded int64
	Items         []Item

	PaymentID       string
	PaymentAttempts int

	PersonnelID          *kernel.UUID
	DeliveryAttempts     int
	LastAttemptReason    string
	DeliveryInstructions string
	ScheduledDeliveryAt  *time.Time

	HoldReason   string
	HeldAt       *time.Time
	ResumeStatus Status

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

// RestoreOrder reconstructs an order from persistence.
// Validates identifiers, enum values, the status/payment-status consistency
// invariant, and the refund invariant before returning the aggregate.
func RestoreOrder(p RestoreParams) (*Order, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.CustomerID.Validate(),
		p.Status.Validate(),
		p.PaymentStatus.Validate(),
		p.Method.Validate(),
	); err != nil {
		return nil, err
	}
	if p.Version < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", p.Version))
	}
	if p.TotalRefunded > p.TotalPaid {
		return nil, errs.NewValueIsInvalidErrorWithCause("totalRefunded",
			fmt.Errorf("%d exceeds total paid %d", p.TotalRefunded, p.TotalPaid))
	}
	if p.Status == OnHold {
		if err := p.ResumeStatus.Validate(); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("resumeStatus", err)
		}
	}
	if err := validateConsistency(p.Status, p.PaymentStatus, p.Method); err != nil {
		return nil, err
	}

	return &Order{
		id:                   p.ID,
		number:               p.Number,
		customerID:           p.CustomerID,
		status:               p.Status,
		paymentStatus:        p.PaymentStatus,
		method:               p.Method,
		version:              p.Version,
		charges:              p.Charges,
		totalPaid:            p.TotalPaid,
		totalRefunded:        p.TotalRefunded,
		items:                p.Items,
		paymentID:            p.PaymentID,
		paymentAttempts:      p.PaymentAttempts,
		personnelID:          p.PersonnelID,
		deliveryAttempts:     p.DeliveryAttempts,
		lastAttemptReason:    p.LastAttemptReason,
		deliveryInstructions: p.DeliveryInstructions,
		scheduledDeliveryAt:  p.ScheduledDeliveryAt,
		holdReason:           p.HoldReason,
		heldAt:               p.HeldAt,
		resumeStatus:         p.ResumeStatus,
		returnReason:         p.ReturnReason,
		returnApprover:       p.ReturnApprover,
		returnNotes:          p.ReturnNotes,
		restockOnReturn:      p.RestockOnReturn,
		returnPickupAt:       p.ReturnPickupAt,
		refundAmount:         p.RefundAmount,
		refundReference:      p.RefundReference,
		createdAt:            p.CreatedAt,
		confirmedAt:          p.ConfirmedAt,
		deliveredAt:          p.DeliveredAt,
		canceledAt:           p.CanceledAt,
		returnedAt:           p.ReturnedAt,
		refundedAt:           p.RefundedAt,
		isConstructed:        true,
	}, nil
}

// validateConsistency enforces the status/payment-status invariant.
func validateConsistency(status Status, paymentStatus PaymentStatus, method PaymentMethod) error {
	if status.AtOrPastConfirmation() && paymentStatus == PaymentStatusPending && !method.DefersSettlement() {
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus",
			fmt.Errorf("%s order cannot have pending payment with method %s", status, method))
	}
	return nil
}

// Validate ensures the Order instance was properly constructed through a factory.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Number returns the human-readable order number.
func (o *Order) Number() string { return o.number }

// CustomerID returns the owning customer's identifier.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// Status returns the current fulfillment status.
func (o *Order) Status() Status { return o.status }

// PaymentStatus returns the current settlement status.
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }

// PaymentMethod returns how the order settles.
func (o *Order) PaymentMethod() PaymentMethod { return o.method }

// Version returns the optimistic-concurrency counter.
func (o *Order) Version() int64 { return o.version }

// Charges returns the monetary breakdown in minor units.
func (o *Order) Charges() Charges { return o.charges }

// Total returns the grand total in minor units.
func (o *Order) Total() int64 { return o.charges.Total() }

// TotalPaid returns the settled amount in minor units.
func (o *Order) TotalPaid() int64 { return o.totalPaid }

// TotalRefunded returns the refunded amount in minor units.
func (o *Order) TotalRefunded() int64 { return o.totalRefunded }

// RefundableAmount returns how much may still be refunded.
func (o *Order) RefundableAmount() int64 { return o.totalPaid - o.totalRefunded }

// Items returns a copy of the order's line items.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// PaymentID returns the gateway payment identifier, if captured.
func (o *Order) PaymentID() string { return o.paymentID }

// PaymentAttempts returns the number of failed capture attempts.
func (o *Order) PaymentAttempts() int { return o.paymentAttempts }

// Personnel returns the assigned delivery personnel's ID, or nil.
func (o *Order) Personnel() *kernel.UUID { return o.personnelID }

// DeliveryAttempts returns the monotonic failed-delivery counter.
func (o *Order) DeliveryAttempts() int { return o.deliveryAttempts }

// LastAttemptReason returns the reason recorded with the latest failed attempt.
func (o *Order) LastAttemptReason() string { return o.lastAttemptReason }

// DeliveryInstructions returns the customer's delivery instructions.
func (o *Order) DeliveryInstructions() string { return o.deliveryInstructions }

// ScheduledDeliveryAt returns the planned delivery time, or nil.
func (o *Order) ScheduledDeliveryAt() *time.Time { return o.scheduledDeliveryAt }

// HoldReason returns why the order is (or was last) on hold.
func (o *Order) HoldReason() string { return o.holdReason }

// HeldAt returns when the hold was placed, or nil.
func (o *Order) HeldAt() *time.Time { return o.heldAt }

// ResumeStatus returns the status captured when the hold was placed.
func (o *Order) ResumeStatus() Status { return o.resumeStatus }

// ReturnReason returns the customer-supplied return reason.
func (o *Order) ReturnReason() string { return o.returnReason }

// ReturnApprover returns the admin who decided the return request.
func (o *Order) ReturnApprover() string { return o.returnApprover }

// ReturnNotes returns free-text notes recorded at return approval.
func (o *Order) ReturnNotes() string { return o.returnNotes }

// RestockOnReturn reports whether returned items should be restocked.
func (o *Order) RestockOnReturn() bool { return o.restockOnReturn }

// ReturnPickupAt returns the scheduled return-pickup time, or nil.
func (o *Order) ReturnPickupAt() *time.Time { return o.returnPickupAt }

// RefundAmount returns the initiated refund amount in minor units.
func (o *Order) RefundAmount() int64 { return o.refundAmount }

// RefundReference returns the external settlement reference.
func (o *Order) RefundReference() string { return o.refundReference }

// CreatedAt returns when the order was created.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// ConfirmedAt returns when payment was confirmed, or nil.
func (o *Order) ConfirmedAt() *time.Time { return o.confirmedAt }

// DeliveredAt returns the actual delivery time, or nil.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// CanceledAt returns when the order was canceled, or nil.
func (o *Order) CanceledAt() *time.Time { return o.canceledAt }

// ReturnedAt returns when returned goods were received, or nil.
func (o *Order) ReturnedAt() *time.Time { return o.returnedAt }

// RefundedAt returns when the refund settled, or nil.
func (o *Order) RefundedAt() *time.Time { return o.refundedAt }

// UncommittedHistory returns audit entries recorded since the last save.
func (o *Order) UncommittedHistory() []HistoryEntry {
	entries := make([]HistoryEntry, len(o.uncommitted))
	copy(entries, o.uncommitted)
	return entries
}

// ClearUncommittedHistory drops pending audit entries after they are persisted.
// Called by the repository inside the same transaction that saves the aggregate.
func (o *Order) ClearUncommittedHistory() {
	o.uncommitted = nil
}

// BumpVersion increments the optimistic-concurrency counter.
// Called by the repository after a successful version-checked write so the
// in-memory aggregate matches the stored row.
func (o *Order) BumpVersion() {
	o.version++
}

// ProcessPayment moves a pending order into payment processing.
// Driven when a capture is handed to the gateway.
func (o *Order) ProcessPayment(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	old := o.status
	next, err := o.status.TransitionTo(PaymentProcessing)
	if err != nil {
		return err
	}

	o.status = next
	o.paymentStatus = PaymentStatusProcessing
	o.recordStatusChange(old, next, "", actor)
	return nil
}

// AlreadyCaptured reports whether a capture event with the given payment ID
// has already been applied. Used to deduplicate replayed gateway callbacks.
func (o *Order) AlreadyCaptured(paymentID string) bool {
	return o.paymentID == paymentID && o.status.AtOrPastConfirmation()
}

// ConfirmPayment applies a gateway capture event: the order becomes Confirmed
// and the payment settles in full. The payment ID is retained so replayed
// capture events can be recognized via AlreadyCaptured.
//
// Records exactly one payment_status_change audit entry.
func (o *Order) ConfirmPayment(actor, paymentID string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if paymentID == "" {
		return errs.NewValueIsRequiredError("paymentID")
	}

	next, err := o.status.TransitionTo(Confirmed)
	if err != nil {
		return err
	}

	oldPayment := o.paymentStatus
	now := time.Now().UTC()
	o.status = next
	o.paymentStatus = PaymentStatusPaid
	o.paymentID = paymentID
	o.totalPaid = o.Total()
	o.confirmedAt = &now
	o.recordPaymentStatusChange(oldPayment, PaymentStatusPaid, "", actor)
	return nil
}

// ConfirmDeferred confirms an order whose payment method settles on delivery.
// The payment stays pending; settlement is recorded by MarkDelivered.
func (o *Order) ConfirmDeferred(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if !o.method.DefersSettlement() {
		return errs.NewPolicyViolationErrorWithCause("deferred confirmation",
			fmt.Errorf("method %s requires a captured payment", o.method))
	}

	old := o.status
	next, err := o.status.TransitionTo(Confirmed)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.status = next
	o.confirmedAt = &now
	o.recordStatusChange(old, next, "", actor)
	return nil
}

// FailPayment applies a gateway failure event and counts the attempt.
func (o *Order) FailPayment(actor, reason string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	next, err := o.status.TransitionTo(PaymentFailed)
	if err != nil {
		return err
	}

	oldPayment := o.paymentStatus
	o.status = next
	o.paymentStatus = PaymentStatusFailed
	o.paymentAttempts++
	o.recordPaymentStatusChange(oldPayment, PaymentStatusFailed, reason, actor)
	return nil
}

// RetryPayment re-enters payment processing after a failed capture,
// provided the attempt limit has not been reached.
func (o *Order) RetryPayment(actor string, maxAttempts int) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if o.status == PaymentFailed && o.paymentAttempts >= maxAttempts {
		return errs.NewPolicyViolationErrorWithCause("max payment attempts exceeded",
			fmt.Errorf("%d of %d attempts used", o.paymentAttempts, maxAttempts))
	}

	old := o.status
	next, err := o.status.TransitionTo(PaymentProcessing)
	if err != nil {
		return err
	}

	o.status = next
	o.paymentStatus = PaymentStatusProcessing
	o.recordStatusChange(old, next, "", actor)
	return nil
}

// Cancel intentionally terminates the order before delivery.
// A reason is always required. Cancellation of a dispatched order
// (OutForDelivery, DeliveryAttempted, or a hold captured in either)
// is an admin decision and requires the override flag.
//
// If the payment had completed, a refund of the refundable balance is
// initiated automatically, recorded as a separate payment_status_change entry.
func (o *Order) Cancel(actor, reason string, adminOverride bool) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	postDispatch := o.status.Dispatched() || (o.status == OnHold && o.resumeStatus.Dispatched())
	if postDispatch && !adminOverride {
		return errs.NewPolicyViolationError("cancellation after dispatch requires admin override")
	}

	old := o.status
	next, err := o.status.TransitionTo(Canceled)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.status = next
	o.canceledAt = &now
	o.recordStatusChange(old, next, reason, actor)

	if o.RefundableAmount() > 0 {
		oldPayment := o.paymentStatus
		o.paymentStatus = PaymentStatusRefundPending
		o.refundAmount = o.RefundableAmount()
		o.recordPaymentStatusChange(oldPayment, PaymentStatusRefundPending, "auto-initiated on cancellation", actor)
	}
	return nil
}

// MarkFailed terminates the order because fulfillment became impossible,
// e.g. payment attempts exhausted with no retry path, or delivery attempts
// exhausted with no admin decision possible.
func (o *Order) MarkFailed(actor, reason string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	old := o.status
	next, err := o.status.TransitionTo(Failed)
	if err != nil {
		return err
	}

	o.status = next
	o.recordStatusChange(old, next, reason, actor)
	return nil
}

// StartPreparing moves a confirmed order into preparation.
func (o *Order) StartPreparing(actor string) error {
	return o.simpleTransition(actor, Preparing, "")
}

// MarkReadyForPickup signals preparation finished; the order awaits
// personnel assignment.
func (o *Order) MarkReadyForPickup(actor string) error {
	return o.simpleTransition(actor, ReadyForPickup, "")
}

// AssignDelivery dispatches the order with the given personnel.
func (o *Order) AssignDelivery(actor string, personnelID kernel.UUID) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if err := personnelID.Validate(); err != nil {
		return err
	}

	old := o.status
	next, err := o.status.TransitionTo(OutForDelivery)
	if err != nil {
		return err
	}

	o.status = next
	o.personnelID = &personnelID
	o.recordStatusChange(old, next, "", actor)
	return nil
}

// RecordDeliveryAttempt records a failed delivery attempt.
// The attempt counter is monotonic and persisted with the order.
func (o *Order) RecordDeliveryAttempt(actor, reason, notes string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	old := o.status
	next, err := o.status.TransitionTo(DeliveryAttempted)
	if err != nil {
		return err
	}

	o.status = next
	o.deliveryAttempts++
	o.lastAttemptReason = reason
	detail := reason
	if notes != "" {
		detail = fmt.Sprintf("%s: %s", reason, notes)
	}
	o.recordStatusChange(old, next, detail, actor)
	return nil
}

// RetryDelivery re-dispatches the order after a failed attempt, provided the
// configured attempt limit has not been reached. Exceeding the limit blocks
// automatic retry; cancellation (admin override) or a hold remain available.
func (o *Order) RetryDelivery(actor string, maxAttempts int, newTime *time.Time, personnelID *kernel.UUID) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if o.status == DeliveryAttempted && o.deliveryAttempts >= maxAttempts {
		return errs.NewPolicyViolationErrorWithCause("max delivery attempts exceeded",
			fmt.Errorf("%d of %d attempts used", o.deliveryAttempts, maxAttempts))
	}
	if personnelID != nil {
		if err := personnelID.Validate(); err != nil {
			return err
		}
	}

	old := o.status
	next, err := o.status.TransitionTo(OutForDelivery)
	if err != nil {
		return err
	}

	o.status = next
	if newTime != nil {
		o.scheduledDeliveryAt = newTime
	}
	if personnelID != nil {
		o.personnelID = personnelID
	}
	o.recordStatusChange(old, next, "", actor)
	return nil
}

// MarkDelivered records a successful delivery at the given time and opens
// the return-eligibility window. For deferred-settlement methods the payment
// settles here, recorded as a separate payment_status_change entry.
func (o *Order) MarkDelivered(actor string, deliveredAt time.Time) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	old := o.status
	next, err := o.status.TransitionTo(Delivered)
	if err != nil {
		return err
	}

	o.status = next
	o.deliveredAt = &deliveredAt
	o.recordStatusChange(old, next, "", actor)

	if o.method.DefersSettlement() && o.paymentStatus == PaymentStatusPending {
		oldPayment := o.paymentStatus
		o.paymentStatus = PaymentStatusPaid
		o.totalPaid = o.Total()
		o.recordPaymentStatusChange(oldPayment, PaymentStatusPaid, "settled on delivery", actor)
	}
	return nil
}

// PutOnHold pauses fulfillment, capturing the current status so release can
// restore it exactly. Only holdable statuses accept a hold.
func (o *Order) PutOnHold(actor, reason string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	old := o.status
	next, err := o.status.TransitionTo(OnHold)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.resumeStatus = old
	o.holdReason = reason
	o.heldAt = &now
	o.status = next
	o.recordStatusChange(old, next, reason, actor)
	return nil
}

// ReleaseHold resumes fulfillment at exactly the status captured when the
// hold was placed. Release never advances the order beyond that status.
func (o *Order) ReleaseHold(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if o.status != OnHold {
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), o.resumeStatus.String(),
			errors.New("order is not on hold"))
	}

	old := o.status
	next, err := o.status.TransitionTo(o.resumeStatus)
	if err != nil {
		return err
	}

	o.status = next
	o.holdReason = ""
	o.heldAt = nil
	o.resumeStatus = Unknown
	o.recordStatusChange(old, next, "", actor)
	return nil
}

// RequestReturn opens the post-delivery return flow.
// Window eligibility is a time-based policy evaluated by the caller before
// invoking this method; the transition itself only guards the status graph.
func (o *Order) RequestReturn(actor, reason string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	old := o.status
	next, err := o.status.TransitionTo(ReturnRequested)
	if err != nil {
		return err
	}

	o.status = next
	o.returnReason = reason
	o.recordStatusChange(old, next, reason, actor)
	return nil
}

// ApproveReturn accepts a return request, recording the approver and the
// restock intent applied when the return completes.
func (o *Order) ApproveReturn(actor, notes string, restock bool) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	old := o.status
	next, err := o.status.TransitionTo(ReturnApproved)
	if err != nil {
		return err
	}

	o.status = next
	o.returnApprover = actor
	o.returnNotes = notes
	o.restockOnReturn = restock
	o.recordStatusChange(old, next, notes, actor)
	return nil
}

// RejectReturn declines a return request. Terminal: the order accepts no
// further transitions, including repeated return requests.
func (o *Order) RejectReturn(actor, reason string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	old := o.status
	next, err := o.status.TransitionTo(ReturnRejected)
	if err != nil {
		return err
	}

	o.status = next
	o.returnApprover = actor
	o.recordStatusChange(old, next, reason, actor)
	return nil
}

// ScheduleReturnPickup books a pickup slot for an approved return.
func (o *Order) ScheduleReturnPickup(actor string, pickupAt time.Time) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	old := o.status
	next, err := o.status.TransitionTo(ReturnPickupScheduled)
	if err != nil {
		return err
	}

	o.status = next
	o.returnPickupAt = &pickupAt
	o.recordStatusChange(old, next, "", actor)
	return nil
}

// MarkReturnInTransit records that the returned goods were picked up.
func (o *Order) MarkReturnInTransit(actor string) error {
	return o.simpleTransition(actor, ReturnInTransit, "")
}

// CompleteReturn records receipt of the returned goods. The restock flag
// finalizes the intent recorded at approval time.
func (o *Order) CompleteReturn(actor string, restock bool) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	old := o.status
	next, err := o.status.TransitionTo(Returned)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.status = next
	o.restockOnReturn = restock
	o.returnedAt = &now
	o.recordStatusChange(old, next, "", actor)
	return nil
}

// InitiateRefund starts a refund. The amount defaults to the full refundable
// balance when nil; a specified amount must be positive and must never exceed
// totalPaid minus totalRefunded. Violations are reported before any mutation.
//
// Legal from Returned (moves the order to RefundPending) and from Canceled
// when a paid balance remains (payment-side only; the order stays Canceled).
func (o *Order) InitiateRefund(actor string, amount *int64) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	refundable := o.RefundableAmount()
	requested := refundable
	if amount != nil {
		requested = *amount
	}
	if requested <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("refund amount",
			fmt.Errorf("%d is not greater than 0", requested))
	}
	if requested > refundable {
		return errs.NewPolicyViolationErrorWithCause("refund exceeds refundable balance",
			fmt.Errorf("%d requested, %d refundable", requested, refundable))
	}
	if o.paymentStatus == PaymentStatusRefundPending {
		return errs.NewPolicyViolationError("refund already pending")
	}

	switch o.status {
	case Returned:
		old := o.status
		next, err := o.status.TransitionTo(RefundPending)
		if err != nil {
			return err
		}
		o.status = next
		o.refundAmount = requested
		o.paymentStatus = PaymentStatusRefundPending
		o.recordStatusChange(old, next, "", actor)
	case Canceled:
		oldPayment := o.paymentStatus
		o.refundAmount = requested
		o.paymentStatus = PaymentStatusRefundPending
		o.recordPaymentStatusChange(oldPayment, PaymentStatusRefundPending, "", actor)
	default:
		return errs.NewInvalidTransitionError(o.status.String(), RefundPending.String())
	}
	return nil
}

// CompleteRefund records the refund settlement using the externally supplied
// reference. The workflow never talks to a payment gateway itself.
func (o *Order) CompleteRefund(actor, reference string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if reference == "" {
		return errs.NewValueIsRequiredError("settlement reference")
	}
	if o.paymentStatus != PaymentStatusRefundPending {
		return errs.NewPolicyViolationErrorWithCause("no refund pending",
			fmt.Errorf("payment status is %s", o.paymentStatus))
	}
	if o.totalRefunded+o.refundAmount > o.totalPaid {
		return errs.NewPolicyViolationErrorWithCause("refund exceeds refundable balance",
			fmt.Errorf("%d refunded plus %d pending exceeds %d paid", o.totalRefunded, o.refundAmount, o.totalPaid))
	}

	now := time.Now().UTC()
	settled := PaymentStatusRefunded
	if o.totalRefunded+o.refundAmount < o.totalPaid {
		settled = PaymentStatusPartiallyRefunded
	}

	if o.status == RefundPending {
		old := o.status
		next, err := o.status.TransitionTo(Refunded)
		if err != nil {
			return err
		}
		o.status = next
		o.totalRefunded += o.refundAmount
		o.paymentStatus = settled
		o.refundReference = reference
		o.refundedAt = &now
		o.recordStatusChange(old, next, "", actor)
		return nil
	}

	// Payment-side settlement for canceled orders.
	oldPayment := o.paymentStatus
	o.totalRefunded += o.refundAmount
	o.paymentStatus = settled
	o.refundReference = reference
	o.refundedAt = &now
	o.recordPaymentStatusChange(oldPayment, settled, "", actor)
	return nil
}

// ContactCustomer appends a customer-contact annotation to the audit trail
// without changing the order status.
func (o *Order) ContactCustomer(actor, method, message string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if method == "" {
		return errs.NewValueIsRequiredError("contact method")
	}
	if message == "" {
		return errs.NewValueIsRequiredError("message")
	}

	entry, err := NewHistoryEntry(ActionTypeCustomerContact, "", message, method, actor, time.Now().UTC())
	if err != nil {
		return err
	}
	o.uncommitted = append(o.uncommitted, entry)
	return nil
}

// UpdateDeliveryInstructions replaces the delivery instructions and appends
// an annotation entry without changing the order status.
func (o *Order) UpdateDeliveryInstructions(actor, text string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	if o.status.IsTerminal() {
		return errs.NewPolicyViolationErrorWithCause("order is closed",
			fmt.Errorf("status %s accepts no updates", o.status))
	}

	entry, err := NewHistoryEntry(ActionTypeDeliveryInstructionsUpdate, o.deliveryInstructions, text, "", actor, time.Now().UTC())
	if err != nil {
		return err
	}
	o.deliveryInstructions = text
	o.uncommitted = append(o.uncommitted, entry)
	return nil
}

// simpleTransition applies a guarded status change with no extra fields.
func (o *Order) simpleTransition(actor string, target Status, reason string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}

	old := o.status
	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = next
	o.recordStatusChange(old, next, reason, actor)
	return nil
}

func (o *Order) recordStatusChange(old, next Status, reason, actor string) {
	entry, err := NewHistoryEntry(ActionTypeStatusChange, old.String(), next.String(), reason, actor, time.Now().UTC())
	if err != nil {
		// Inputs are validated by the calling transition; reaching here is a bug.
		panic(err)
	}
	o.uncommitted = append(o.uncommitted, entry)
}

func (o *Order) recordPaymentStatusChange(old, next PaymentStatus, reason, actor string) {
	entry, err := NewHistoryEntry(ActionTypePaymentStatusChange, old.String(), next.String(), reason, actor, time.Now().UTC())
	if err != nil {
		panic(err)
	}
	o.uncommitted = append(o.uncommitted, entry)
}
