package commands_test

import (
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func deliveredTestOrder(t *testing.T, deliveredAt time.Time) *order.Order {
	t.Helper()
	return restoredOrder(t, func(p *order.RestoreParams) {
		p.Status = order.Delivered
		p.PaymentStatus = order.PaymentStatusPaid
		p.PaymentID = "pay-123"
		p.TotalPaid = 4040
		p.DeliveredAt = &deliveredAt
	})
}

func TestRequestReturnCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	deliveredAt := time.Now().UTC().Add(-24 * time.Hour)
	aggregate := deliveredTestOrder(t, deliveredAt)
	cmd, err := commands.NewRequestReturnCommand(aggregate.ID(), "wrong grind size", "customer:self", 1)
	require.NoError(t, err)

	policy, err := services.NewReturnPolicy(30 * 24 * time.Hour)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", mock.Anything, aggregate).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRequestReturnCommandHandler(factory, nil, &policy)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.ReturnRequested, result.Status())
	uow.AssertExpectations(t)
}

func TestRequestReturnCommandHandler_Handle_WindowExpired(t *testing.T) {
	ctx := t.Context()
	deliveredAt := time.Now().UTC().Add(-31 * 24 * time.Hour)
	aggregate := deliveredTestOrder(t, deliveredAt)
	cmd, err := commands.NewRequestReturnCommand(aggregate.ID(), "changed my mind", "customer:self", 1)
	require.NoError(t, err)

	policy, err := services.NewReturnPolicy(30 * 24 * time.Hour)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRequestReturnCommandHandler(factory, nil, &policy)
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrPolicyViolation)
	assert.Equal(t, order.Delivered, aggregate.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
