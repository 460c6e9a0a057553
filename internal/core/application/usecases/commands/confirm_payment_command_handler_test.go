package commands_test

import (
	"errors"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConfirmPaymentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := restoredOrder(t, func(p *order.RestoreParams) {
		p.Status = order.PaymentProcessing
		p.PaymentStatus = order.PaymentStatusProcessing
	})
	cmd, err := commands.NewConfirmPaymentCommand(aggregate.ID(), "pay-123", "payment_gateway")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	inventory := new(MockInventory)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		inventory.On("Reserve", mock.Anything, aggregate.ID(), aggregate.Items()).Return(nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, aggregate.CustomerID(), "order_confirmed", mock.Anything).Return(nil).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderChanged", mock.Anything, aggregate).Return(nil).Once()

	h := commands.NewConfirmPaymentCommandHandler(factory, publisher, inventory, notifier, discardLogger())
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, result.Status())
	assert.Equal(t, order.PaymentStatusPaid, result.PaymentStatus())
	assert.Equal(t, result.Total(), result.TotalPaid())
	inventory.AssertExpectations(t)
	notifier.AssertExpectations(t)
	publisher.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestConfirmPaymentCommandHandler_Handle_CaptureBeforeProcessing(t *testing.T) {
	ctx := t.Context()
	aggregate := restoredOrder(t, nil) // still pending
	cmd, err := commands.NewConfirmPaymentCommand(aggregate.ID(), "pay-123", "payment_gateway")
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

	inventory := new(MockInventory)
	inventory.On("Reserve", mock.Anything, aggregate.ID(), aggregate.Items()).Return(nil).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	h := commands.NewConfirmPaymentCommandHandler(factory, nil, inventory, notifier, discardLogger())
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, result.Status())
}

func TestConfirmPaymentCommandHandler_Handle_DuplicateCapture(t *testing.T) {
	ctx := t.Context()
	aggregate := restoredOrder(t, func(p *order.RestoreParams) {
		p.Status = order.Confirmed
		p.PaymentStatus = order.PaymentStatusPaid
		p.PaymentID = "pay-123"
		p.TotalPaid = 4040
	})
	cmd, err := commands.NewConfirmPaymentCommand(aggregate.ID(), "pay-123", "payment_gateway")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	inventory := new(MockInventory)
	notifier := new(MockNotifier)

	h := commands.NewConfirmPaymentCommandHandler(factory, nil, inventory, notifier, discardLogger())
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, result.Status())
	assert.Empty(t, result.UncommittedHistory())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	inventory.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPaymentCommandHandler_Handle_ReserveFailureRollsBack(t *testing.T) {
	ctx := t.Context()
	aggregate := restoredOrder(t, func(p *order.RestoreParams) {
		p.Status = order.PaymentProcessing
		p.PaymentStatus = order.PaymentStatusProcessing
	})
	cmd, err := commands.NewConfirmPaymentCommand(aggregate.ID(), "pay-123", "payment_gateway")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	inventory := new(MockInventory)
	inventory.On("Reserve", mock.Anything, aggregate.ID(), aggregate.Items()).
		Return(errors.New("stock service down")).Once()

	h := commands.NewConfirmPaymentCommandHandler(factory, nil, inventory, new(MockNotifier), discardLogger())
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrSideEffectFailed)
	assert.True(t, errs.IsRetryable(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestConfirmPaymentCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	aggregate := restoredOrder(t, nil)
	cmd, err := commands.NewConfirmPaymentCommand(aggregate.ID(), "pay-123", "payment_gateway")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", mock.Anything, aggregate.ID()).
		Return(nil, errs.NewObjectNotFoundError("orderID", aggregate.ID())).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewConfirmPaymentCommandHandler(factory, nil, new(MockInventory), new(MockNotifier), discardLogger())
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}
