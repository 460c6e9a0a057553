package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetStaleInPaymentProcessing(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockInventory struct{ mock.Mock }

func (m *MockInventory) Reserve(ctx context.Context, orderID kernel.UUID, items []order.Item) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *MockInventory) Release(ctx context.Context, orderID kernel.UUID, items []order.Item) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *MockInventory) Restock(ctx context.Context, items []order.Item) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, customerID kernel.UUID, event string, payload map[string]any) error {
	args := m.Called(ctx, customerID, event, payload)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishOrderChanged(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

type MockDeliveryCoordinator struct{ mock.Mock }

func (m *MockDeliveryCoordinator) AssignPersonnel(ctx context.Context, orderID, personnelID kernel.UUID) error {
	args := m.Called(ctx, orderID, personnelID)
	return args.Error(0)
}

func (m *MockDeliveryCoordinator) ScheduleRetry(ctx context.Context, orderID kernel.UUID, at *time.Time, personnelID *kernel.UUID) error {
	args := m.Called(ctx, orderID, at, personnelID)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// restoredOrder builds an aggregate at version 1 in any state via mutate.
// The base is a pending card order with two items totaling 4040.
func restoredOrder(t *testing.T, mutate func(p *order.RestoreParams)) *order.Order {
	t.Helper()

	beans, err := order.NewItem(kernel.NewUUID(), "espresso beans 1kg", 2, 1500)
	require.NoError(t, err)
	paper, err := order.NewItem(kernel.NewUUID(), "filter paper", 1, 400)
	require.NoError(t, err)

	p := order.RestoreParams{
		ID:            kernel.NewUUID(),
		Number:        "ORD-1001",
		CustomerID:    kernel.NewUUID(),
		Status:        order.Pending,
		PaymentStatus: order.PaymentStatusPending,
		Method:        order.PaymentMethodCard,
		Version:       1,
		Charges:       order.Charges{Subtotal: 3400, Tax: 340, DeliveryFee: 500, Discount: 200},
		Items:         []order.Item{beans, paper},
		CreatedAt:     time.Now().UTC(),
	}
	if mutate != nil {
		mutate(&p)
	}

	aggregate, err := order.RestoreOrder(p)
	require.NoError(t, err)
	return aggregate
}
