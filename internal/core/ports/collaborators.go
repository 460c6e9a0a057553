package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// Inventory reserves and releases stock for orders.
// All operations are idempotent per order ID: replaying a reservation for
// the same order must not double-reserve. Failures abort the surrounding
// transition, which is rolled back and reported as retryable.
type Inventory interface {
	// Reserve holds stock for the order's items.
	Reserve(ctx context.Context, orderID kernel.UUID, items []order.Item) error

	// Release frees stock previously reserved for the order.
	Release(ctx context.Context, orderID kernel.UUID, items []order.Item) error

	// Restock returns goods to stock, e.g. after a completed return.
	Restock(ctx context.Context, items []order.Item) error
}

// Notifier dispatches customer-facing notifications.
// Fire-and-forget: failures are logged by callers and never block a
// transition. Delivery mechanics (push, SMS) live behind this port.
type Notifier interface {
	Notify(ctx context.Context, customerID kernel.UUID, event string, payload map[string]any) error
}

// EventPublisher broadcasts accepted order changes to interested systems.
// Publishing is fire-and-forget from the workflow's perspective: adapters
// log failures, and a lost event never undoes a committed transition.
type EventPublisher interface {
	PublishOrderChanged(ctx context.Context, aggregate *order.Order) error
}

// DeliveryCoordinator is the consumed interface to the external delivery
// system. The attempt counter itself lives on the order aggregate and is
// persisted with it; this port only informs the external system about
// assignments and retry scheduling.
type DeliveryCoordinator interface {
	// AssignPersonnel notifies the delivery system about a dispatch.
	AssignPersonnel(ctx context.Context, orderID, personnelID kernel.UUID) error

	// ScheduleRetry books a re-dispatch after a failed attempt.
	// Either of at and personnelID may be nil to keep the previous value.
	ScheduleRetry(ctx context.Context, orderID kernel.UUID, at *time.Time, personnelID *kernel.UUID) error
}
