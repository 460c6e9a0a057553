// Package errs provides standardized error types for the order workflow.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// The package defines one error type per failure kind the workflow can report:
//   - ValueIsRequiredError / ValueIsInvalidError: malformed or missing input
//   - ObjectNotFoundError: an object cannot be found by its identifier
//   - InvalidTransitionError: a status change outside the allow-list
//   - ConcurrentModificationError: an optimistic version-check failure
//   - PolicyViolationError: a business policy forbids the operation
//   - SideEffectError: a collaborator failed, the transition was rolled back
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrInvalidTransition)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Every kind also carries a stable machine-readable code (see Code) so
// transport adapters can map failures to wire-level responses without
// depending on concrete error types.
package errs
