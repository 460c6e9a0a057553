package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// PaymentStatus tracks the settlement side of the order independently of the
// fulfillment Status. The two must stay mutually consistent: an order cannot
// be Confirmed while its payment is still pending unless the payment method
// defers settlement (cash on delivery).
type PaymentStatus int

const (
	// PaymentStatusUnknown represents an invalid or undefined payment status.
	PaymentStatusUnknown PaymentStatus = iota

	// PaymentStatusPending means no capture has been attempted yet.
	PaymentStatusPending

	// PaymentStatusProcessing means a capture is in flight at the gateway.
	PaymentStatusProcessing

	// PaymentStatusPaid means the capture settled in full.
	PaymentStatusPaid

	// PaymentStatusFailed means the last capture attempt failed.
	PaymentStatusFailed

	// PaymentStatusRefundPending means a refund was initiated and awaits
	// an external settlement reference.
	PaymentStatusRefundPending

	// PaymentStatusPartiallyRefunded means some but not all of the paid
	// amount has been refunded.
	PaymentStatusPartiallyRefunded

	// PaymentStatusRefunded means the full paid amount has been refunded.
	PaymentStatusRefunded
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentStatusUnknown:           "unknown",
		PaymentStatusPending:           "pending",
		PaymentStatusProcessing:        "processing",
		PaymentStatusPaid:              "paid",
		PaymentStatusFailed:            "failed",
		PaymentStatusRefundPending:     "refund_pending",
		PaymentStatusPartiallyRefunded: "partially_refunded",
		PaymentStatusRefunded:          "refunded",
	}
}

// Validate checks if the PaymentStatus value is valid.
func (p PaymentStatus) Validate() error {
	if _, ok := getPaymentStatusStrings()[p]; !ok || p == PaymentStatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%d is not a valid payment status", int(p)))
	}
	return nil
}

// String returns the snake_case name of the payment status.
func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "unknown"
}

// PaymentStatusFromString parses a payment status name.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, name := range getPaymentStatusStrings() {
		if name == s && status != PaymentStatusUnknown {
			return status, nil
		}
	}
	return PaymentStatusUnknown, errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%q is not a valid payment status", s))
}

// PaymentMethod identifies how an order is settled. Card orders settle
// through asynchronous gateway callbacks before fulfillment; cash orders
// defer settlement until delivery.
type PaymentMethod int

const (
	// PaymentMethodUnknown represents an invalid or undefined payment method.
	PaymentMethodUnknown PaymentMethod = iota

	// PaymentMethodCard settles through the payment gateway before fulfillment.
	PaymentMethodCard

	// PaymentMethodCash settles on delivery.
	PaymentMethodCash
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentMethodUnknown: "unknown",
		PaymentMethodCard:    "card",
		PaymentMethodCash:    "cash",
	}
}

// Validate checks if the PaymentMethod value is valid.
func (m PaymentMethod) Validate() error {
	if _, ok := getPaymentMethodStrings()[m]; !ok || m == PaymentMethodUnknown {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%d is not a valid payment method", int(m)))
	}
	return nil
}

// DefersSettlement reports whether the method settles after fulfillment
// rather than before it.
func (m PaymentMethod) DefersSettlement() bool {
	return m == PaymentMethodCash
}

// String returns the name of the payment method.
func (m PaymentMethod) String() string {
	if str, ok := getPaymentMethodStrings()[m]; ok {
		return str
	}
	return "unknown"
}

// PaymentMethodFromString parses a payment method name.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	for method, name := range getPaymentMethodStrings() {
		if name == s && method != PaymentMethodUnknown {
			return method, nil
		}
	}
	return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not a valid payment method", s))
}
