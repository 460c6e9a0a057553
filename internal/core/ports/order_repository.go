package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Update enforces optimistic concurrency: the write carries the aggregate's
// last-seen version and fails with a ConcurrentModificationError when the
// stored version no longer matches. Both Add and Update persist the
// aggregate's uncommitted audit entries in the same transaction.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// Fails with a ConcurrentModificationError on a stale version.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetStaleInPaymentProcessing retrieves orders stuck in payment
	// processing since before the cutoff. Used by the payment timeout
	// sweep, an external caller of the state machine.
	GetStaleInPaymentProcessing(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
