package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItems(t *testing.T) []order.Item {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), "espresso beans 1kg", 2, 1500)
	require.NoError(t, err)
	return []order.Item{item}
}

func validCharges() order.Charges {
	return order.Charges{Subtotal: 3000, Tax: 300, DeliveryFee: 500}
}

func TestNewCreateOrderCommand(t *testing.T) {
	t.Run("should create valid command", func(t *testing.T) {
		orderID := kernel.NewUUID()
		customerID := kernel.NewUUID()
		items := validItems(t)

		cmd, err := commands.NewCreateOrderCommand(orderID, "ORD-1001", customerID, order.PaymentMethodCard, items, validCharges())

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.True(t, cmd.OrderID().IsEqual(orderID))
		assert.Equal(t, "ORD-1001", cmd.Number())
		assert.True(t, cmd.CustomerID().IsEqual(customerID))
		assert.Equal(t, order.PaymentMethodCard, cmd.Method())
		assert.Equal(t, items, cmd.Items())
	})

	t.Run("should fail with invalid order id", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := commands.NewCreateOrderCommand(invalidID, "ORD-1001", kernel.NewUUID(), order.PaymentMethodCard, validItems(t), validCharges())
		require.Error(t, err)
	})

	t.Run("should fail with empty number", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "", kernel.NewUUID(), order.PaymentMethodCard, validItems(t), validCharges())
		require.Error(t, err)
	})

	t.Run("should fail with unknown payment method", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "ORD-1001", kernel.NewUUID(), order.PaymentMethodUnknown, validItems(t), validCharges())
		require.Error(t, err)
	})

	t.Run("zero value command fails validation", func(t *testing.T) {
		var cmd commands.CreateOrderCommand
		require.Error(t, cmd.Validate())
	})
}
