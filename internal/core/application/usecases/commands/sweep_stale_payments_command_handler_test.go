package commands_test

import (
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func staleProcessingOrder(t *testing.T) *order.Order {
	t.Helper()
	return restoredOrder(t, func(p *order.RestoreParams) {
		p.Status = order.PaymentProcessing
		p.PaymentStatus = order.PaymentStatusProcessing
		p.PaymentAttempts = 1
	})
}

func TestSweepStalePaymentsCommandHandler_Handle_FailsEachStaleOrder(t *testing.T) {
	ctx := t.Context()
	first := staleProcessingOrder(t)
	second := staleProcessingOrder(t)

	sweepRepo := new(MockOrderRepository)
	sweepRepo.On("GetStaleInPaymentProcessing", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{first, second}, nil).Once()

	sweepUoW := new(MockOrderUoW)
	sweepUoW.On("OrderRepository").Return(sweepRepo).Once()

	failRepo := new(MockOrderRepository)
	failUoW := new(MockOrderUoW)
	failUoW.On("Begin", ctx).Return(nil).Times(2)
	failUoW.On("OrderRepository").Return(failRepo).Times(2)
	failUoW.On("Commit", ctx).Return(nil).Times(2)
	failUoW.On("Rollback", ctx).Return(nil).Times(2)
	failRepo.On("Get", mock.Anything, first.ID()).Return(first, nil).Once()
	failRepo.On("Get", mock.Anything, second.ID()).Return(second, nil).Once()
	failRepo.On("Update", mock.Anything, first).Return(nil).Once()
	failRepo.On("Update", mock.Anything, second).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(sweepUoW).Once()
	failFactory := new(MockOrderUoWFactory)
	failFactory.On("Create").Return(failUoW).Times(2)

	failHandler := commands.NewFailPaymentCommandHandler(failFactory, nil)
	h := commands.NewSweepStalePaymentsCommandHandler(factory, failHandler, 15*time.Minute, discardLogger())

	err := h.Handle(ctx, commands.NewSweepStalePaymentsCommand())

	require.NoError(t, err)
	assert.Equal(t, order.PaymentFailed, first.Status())
	assert.Equal(t, order.PaymentFailed, second.Status())
	failRepo.AssertExpectations(t)
}

func TestSweepStalePaymentsCommandHandler_Handle_ContinuesPastFailures(t *testing.T) {
	ctx := t.Context()
	first := staleProcessingOrder(t)
	second := staleProcessingOrder(t)

	sweepRepo := new(MockOrderRepository)
	sweepRepo.On("GetStaleInPaymentProcessing", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{first, second}, nil).Once()

	sweepUoW := new(MockOrderUoW)
	sweepUoW.On("OrderRepository").Return(sweepRepo).Once()

	failRepo := new(MockOrderRepository)
	failUoW := new(MockOrderUoW)
	failUoW.On("Begin", ctx).Return(nil).Times(2)
	failUoW.On("OrderRepository").Return(failRepo).Times(2)
	failUoW.On("Commit", ctx).Return(nil).Once()
	failUoW.On("Rollback", ctx).Return(nil).Times(2)
	failRepo.On("Get", mock.Anything, first.ID()).Return(nil, assert.AnError).Once()
	failRepo.On("Get", mock.Anything, second.ID()).Return(second, nil).Once()
	failRepo.On("Update", mock.Anything, second).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(sweepUoW).Once()
	failFactory := new(MockOrderUoWFactory)
	failFactory.On("Create").Return(failUoW).Times(2)

	failHandler := commands.NewFailPaymentCommandHandler(failFactory, nil)
	h := commands.NewSweepStalePaymentsCommandHandler(factory, failHandler, 15*time.Minute, discardLogger())

	err := h.Handle(ctx, commands.NewSweepStalePaymentsCommand())

	require.NoError(t, err)
	assert.Equal(t, order.PaymentFailed, second.Status())
	failRepo.AssertExpectations(t)
}
