// Package order provides domain entities and business logic for the commerce
// order lifecycle. It implements the Order aggregate root with guarded state
// transitions, an append-only audit trail, hold capture/restore, delivery
// retry accounting, and the post-delivery return/refund flow.
//
// The package includes:
//   - Order: the aggregate root owning identity, money, items, and lifecycle
//   - Status: a state machine with one explicit transition table
//   - PaymentStatus / PaymentMethod: the settlement side of the order
//   - HistoryEntry: immutable audit-trail records
//   - Item: line items created atomically with the order
//
// Key business rules:
//   - Transition legality is defined by a single allow-list table; anything
//     outside it fails with no partial mutation
//   - Terminal statuses (refunded, canceled, failed, return_rejected) accept
//     no further transitions
//   - Hold release restores exactly the status captured at hold time
//   - Refunded amount never exceeds the paid amount
//   - Every accepted transition appends exactly one audit entry; annotations
//     append entries without changing status
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
