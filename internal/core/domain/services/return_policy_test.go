package services_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliveredAt(t *testing.T, when time.Time) *order.Order {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), "espresso beans 1kg", 1, 1500)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), "ORD-1001", kernel.NewUUID(), order.PaymentMethodCard,
		[]order.Item{item}, order.Charges{Subtotal: 1500, Tax: 150, DeliveryFee: 300})
	require.NoError(t, err)

	require.NoError(t, o.ProcessPayment("admin"))
	require.NoError(t, o.ConfirmPayment("admin", "pay-1"))
	require.NoError(t, o.StartPreparing("admin"))
	require.NoError(t, o.MarkReadyForPickup("admin"))
	require.NoError(t, o.AssignDelivery("admin", kernel.NewUUID()))
	require.NoError(t, o.MarkDelivered("admin", when))
	return o
}

func TestNewReturnPolicy(t *testing.T) {
	t.Run("should create policy with positive window", func(t *testing.T) {
		policy, err := services.NewReturnPolicy(14 * 24 * time.Hour)

		require.NoError(t, err)
		assert.Equal(t, 14*24*time.Hour, policy.Window())
	})

	t.Run("should reject zero window", func(t *testing.T) {
		_, err := services.NewReturnPolicy(0)
		require.Error(t, err)
	})

	t.Run("should reject negative window", func(t *testing.T) {
		_, err := services.NewReturnPolicy(-time.Hour)
		require.Error(t, err)
	})
}

func TestReturnPolicy_CheckEligibility(t *testing.T) {
	policy, err := services.NewReturnPolicy(14 * 24 * time.Hour)
	require.NoError(t, err)

	now := time.Now().UTC()

	t.Run("should allow return inside the window", func(t *testing.T) {
		o := deliveredAt(t, now.Add(-7*24*time.Hour))

		require.NoError(t, policy.CheckEligibility(o, now))
	})

	t.Run("should allow return at the window boundary", func(t *testing.T) {
		o := deliveredAt(t, now.Add(-14*24*time.Hour))

		require.NoError(t, policy.CheckEligibility(o, now))
	})

	t.Run("should reject return past the window", func(t *testing.T) {
		o := deliveredAt(t, now.Add(-15*24*time.Hour))

		err := policy.CheckEligibility(o, now)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrPolicyViolation)
	})

	t.Run("should reject order without delivery time", func(t *testing.T) {
		item, err := order.NewItem(kernel.NewUUID(), "espresso beans 1kg", 1, 1500)
		require.NoError(t, err)
		o, err := order.NewOrder(kernel.NewUUID(), "ORD-1001", kernel.NewUUID(), order.PaymentMethodCard,
			[]order.Item{item}, order.Charges{Subtotal: 1500})
		require.NoError(t, err)

		checkErr := policy.CheckEligibility(o, now)
		require.Error(t, checkErr)
		assert.ErrorIs(t, checkErr, errs.ErrPolicyViolation)
	})
}
