package services

import (
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// ReturnPolicy is a domain service deciding return eligibility.
// A return may only be requested for a delivered order within the configured
// window after the actual delivery time. The clock is supplied by the caller;
// the core runs no timers of its own.
type ReturnPolicy struct {
	window time.Duration
}

// NewReturnPolicy creates a return policy with the given eligibility window.
func NewReturnPolicy(window time.Duration) (ReturnPolicy, error) {
	if window <= 0 {
		return ReturnPolicy{}, errs.NewValueIsInvalidErrorWithCause("return window",
			fmt.Errorf("%s is not greater than 0", window))
	}
	return ReturnPolicy{window: window}, nil
}

// Window returns the configured eligibility window.
func (p ReturnPolicy) Window() time.Duration {
	return p.window
}

// CheckEligibility reports whether a return may be requested for the order
// at the given time. The status-graph guard (only Delivered orders) is left
// to the aggregate; this service owns only the time-based policy.
func (p ReturnPolicy) CheckEligibility(o *order.Order, now time.Time) error {
	deliveredAt := o.DeliveredAt()
	if deliveredAt == nil {
		return errs.NewPolicyViolationError("order has no delivery time")
	}
	if now.After(deliveredAt.Add(p.window)) {
		return errs.NewPolicyViolationErrorWithCause("return window expired",
			fmt.Errorf("delivered %s, window %s", deliveredAt.Format(time.RFC3339), p.window))
	}
	return nil
}
