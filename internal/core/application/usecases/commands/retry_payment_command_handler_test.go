package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRetryPaymentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := restoredOrder(t, func(p *order.RestoreParams) {
		p.Status = order.PaymentFailed
		p.PaymentStatus = order.PaymentStatusFailed
		p.PaymentAttempts = 1
	})
	cmd, err := commands.NewRetryPaymentCommand(aggregate.ID(), "customer:42", 1)
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

	h := commands.NewRetryPaymentCommandHandler(factory, nil, 3)
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.PaymentProcessing, result.Status())
}

func TestRetryPaymentCommandHandler_Handle_AttemptLimitExceeded(t *testing.T) {
	ctx := t.Context()
	aggregate := restoredOrder(t, func(p *order.RestoreParams) {
		p.Status = order.PaymentFailed
		p.PaymentStatus = order.PaymentStatusFailed
		p.PaymentAttempts = 3
	})
	cmd, err := commands.NewRetryPaymentCommand(aggregate.ID(), "customer:42", 1)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRetryPaymentCommandHandler(factory, nil, 3)
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrPolicyViolation)
	assert.Equal(t, order.PaymentFailed, aggregate.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
