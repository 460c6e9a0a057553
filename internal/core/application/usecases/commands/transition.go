package commands

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// transitioner bundles the machinery shared by every transition handler:
// load the aggregate inside a unit of work, check the caller's last-seen
// version, apply the guarded mutation together with its side effects,
// persist, commit, and publish the order-changed event after the commit.
//
// Side effects executed inside fn run within the transaction boundary: if
// fn fails, nothing is persisted and the whole transition is rolled back.
// The event publisher is fire-and-forget; publish failures never undo a
// committed transition.
type transitioner struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

func newTransitioner(uowFactory OrderUoWFactory, publisher ports.EventPublisher) transitioner {
	return transitioner{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// apply runs one guarded transition against the order identified by orderID.
// A non-zero lastSeenVersion must match the stored aggregate version or the
// operation fails with a ConcurrentModificationError before any mutation.
// Zero means the caller carries no version expectation (gateway callbacks).
func (t transitioner) apply(
	ctx context.Context,
	orderID kernel.UUID,
	lastSeenVersion int64,
	fn func(o *order.Order) error,
) (*order.Order, error) {
	uow := t.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if lastSeenVersion != 0 && aggregate.Version() != lastSeenVersion {
		return nil, errs.NewConcurrentModificationError("order", orderID.String(), lastSeenVersion)
	}

	if err = fn(aggregate); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	t.publish(ctx, aggregate)
	return aggregate, nil
}

// publish emits the order-changed event. Failures are handled (logged)
// inside the publisher adapter and never affect the committed transition.
func (t transitioner) publish(ctx context.Context, aggregate *order.Order) {
	if t.publisher == nil {
		return
	}
	_ = t.publisher.PublishOrderChanged(ctx, aggregate)
}
