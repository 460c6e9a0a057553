package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the error kinds produced by the order workflow.
// Each custom error type unwraps to exactly one of these, so callers can
// classify failures with errors.Is without inspecting concrete types.
var (
	ErrValueIsRequired        = errors.New("value is required")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrObjectNotFound         = errors.New("object not found")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrPolicyViolation        = errors.New("policy violation")
	ErrSideEffectFailed       = errors.New("side effect failed")
)

// Stable machine-readable codes carried across process boundaries
// (HTTP error envelopes, event payloads, logs).
const (
	CodeValidation             = "validation_error"
	CodeNotFound               = "not_found"
	CodeInvalidTransition      = "invalid_transition"
	CodeConcurrentModification = "concurrent_modification"
	CodePolicyViolation        = "policy_violation"
	CodeSideEffectFailed       = "side_effect_failed"
	CodeInternal               = "internal_error"
)

// Code classifies an error into its stable code.
// Unrecognized errors map to CodeInternal.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValueIsRequired), errors.Is(err, ErrValueIsInvalid):
		return CodeValidation
	case errors.Is(err, ErrObjectNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrConcurrentModification):
		return CodeConcurrentModification
	case errors.Is(err, ErrPolicyViolation):
		return CodePolicyViolation
	case errors.Is(err, ErrSideEffectFailed):
		return CodeSideEffectFailed
	default:
		return CodeInternal
	}
}

// IsRetryable reports whether the caller may safely re-invoke the failed
// operation. Only side-effect failures are retryable: the attempted state
// change was fully rolled back and the operation is idempotent.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSideEffectFailed)
}

// sanitize strips newlines from values interpolated into error messages
// so a single log line stays a single log line.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// ValueIsRequiredError indicates a required value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates an error for a missing required value.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates an error for a missing required value
// with an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, sanitize(e.ParamName), sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, sanitize(e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError indicates a malformed or out-of-domain value,
// e.g. a negative refund amount or an unknown status.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates an error for an invalid value.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates an error for an invalid value
// with an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, sanitize(e.ParamName), sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, sanitize(e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ObjectNotFoundError indicates a lookup by identifier found nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an error for a missing object.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an error for a missing object
// with an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, sanitize(e.ParamName), e.ID, sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// InvalidTransitionError indicates a requested status change is not in
// the current status's allow-list. The aggregate is left untouched.
type InvalidTransitionError struct {
	From  string
	To    string
	Cause error
}

// NewInvalidTransitionError creates an error for a disallowed status change.
func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

// NewInvalidTransitionErrorWithCause creates an error for a disallowed status
// change with an underlying cause.
func NewInvalidTransitionErrorWithCause(from, to string, cause error) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Cause: cause}
}

func (e *InvalidTransitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s -> %s (cause: %s)",
			ErrInvalidTransition, sanitize(e.From), sanitize(e.To), sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, sanitize(e.From), sanitize(e.To))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ConcurrentModificationError indicates a stale write: the caller's
// last-seen version no longer matches the stored aggregate version.
type ConcurrentModificationError struct {
	ParamName string
	ID        any
	Expected  int64
}

// NewConcurrentModificationError creates an error for a version-check failure.
func NewConcurrentModificationError(paramName string, id any, expected int64) *ConcurrentModificationError {
	return &ConcurrentModificationError{ParamName: paramName, ID: id, Expected: expected}
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s: %s %s at version %d was modified by another writer",
		ErrConcurrentModification, sanitize(e.ParamName), e.ID, e.Expected)
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}

// PolicyViolationError indicates an operation that is structurally legal
// but forbidden by a business policy: refund exceeding the refundable
// balance, return window expired, delivery attempt limit reached.
type PolicyViolationError struct {
	Policy string
	Cause  error
}

// NewPolicyViolationError creates an error for a violated business policy.
func NewPolicyViolationError(policy string) *PolicyViolationError {
	return &PolicyViolationError{Policy: policy}
}

// NewPolicyViolationErrorWithCause creates an error for a violated business
// policy with an underlying cause.
func NewPolicyViolationErrorWithCause(policy string, cause error) *PolicyViolationError {
	return &PolicyViolationError{Policy: policy, Cause: cause}
}

func (e *PolicyViolationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrPolicyViolation, sanitize(e.Policy), sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s", ErrPolicyViolation, sanitize(e.Policy))
}

func (e *PolicyViolationError) Unwrap() error {
	return ErrPolicyViolation
}

// SideEffectError indicates an external collaborator failed while a
// transition was being applied. The transition was rolled back; the
// caller may safely retry the whole operation.
type SideEffectError struct {
	Effect string
	Cause  error
}

// NewSideEffectError creates a retryable error for a failed transition side effect.
func NewSideEffectError(effect string, cause error) *SideEffectError {
	return &SideEffectError{Effect: effect, Cause: cause}
}

func (e *SideEffectError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrSideEffectFailed, sanitize(e.Effect), sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s", ErrSideEffectFailed, sanitize(e.Effect))
}

func (e *SideEffectError) Unwrap() error {
	return ErrSideEffectFailed
}
