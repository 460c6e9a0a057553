package order_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	productID := kernel.NewUUID()

	t.Run("should create valid item", func(t *testing.T) {
		item, err := order.NewItem(productID, "espresso beans 1kg", 2, 1500)

		require.NoError(t, err)
		assert.True(t, item.ProductID().IsEqual(productID))
		assert.Equal(t, "espresso beans 1kg", item.Name())
		assert.Equal(t, 2, item.Quantity())
		assert.Equal(t, int64(1500), item.UnitPrice())
		assert.Equal(t, int64(3000), item.LineTotal())
	})

	t.Run("should allow zero unit price", func(t *testing.T) {
		item, err := order.NewItem(productID, "free sample", 1, 0)

		require.NoError(t, err)
		assert.Zero(t, item.LineTotal())
	})

	t.Run("should fail with invalid product id", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := order.NewItem(invalidID, "espresso beans 1kg", 2, 1500)
		require.Error(t, err)
	})

	t.Run("should fail with empty name", func(t *testing.T) {
		_, err := order.NewItem(productID, "", 2, 1500)
		require.Error(t, err)
	})

	t.Run("should fail with zero quantity", func(t *testing.T) {
		_, err := order.NewItem(productID, "espresso beans 1kg", 0, 1500)
		require.Error(t, err)
	})

	t.Run("should fail with negative unit price", func(t *testing.T) {
		_, err := order.NewItem(productID, "espresso beans 1kg", 2, -1)
		require.Error(t, err)
	})
}

func TestNewHistoryEntry(t *testing.T) {
	t.Run("should fail with unknown action type", func(t *testing.T) {
		_, err := order.NewHistoryEntry(order.ActionTypeUnknown, "", "x", "", "admin", time.Now().UTC())
		require.Error(t, err)
	})

	t.Run("should fail without actor", func(t *testing.T) {
		_, err := order.NewHistoryEntry(order.ActionTypeStatusChange, "pending", "canceled", "", "", time.Now().UTC())
		require.Error(t, err)
	})
}
