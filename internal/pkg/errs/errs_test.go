package errs_test

import (
	"errors"
	"testing"

	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "123")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "123", cause)

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("refundAmount")

		assert.Equal(t, "refundAmount", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: refundAmount", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("must be positive")
		err := errs.NewValueIsInvalidErrorWithCause("refundAmount", cause)

		assert.Equal(t, "refundAmount", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: refundAmount (cause: must be positive)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("multi\nline")
		assert.Contains(t, err.Error(), "multi line")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("actor")

		assert.Equal(t, "actor", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: actor", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing required field")
		err := errs.NewValueIsRequiredErrorWithCause("actor", cause)

		assert.Equal(t, "actor", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: actor (cause: missing required field)", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestInvalidTransitionError(t *testing.T) {
	t.Run("NewInvalidTransitionError", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("delivered", "preparing")

		assert.Equal(t, "delivered", err.From)
		assert.Equal(t, "preparing", err.To)
		require.NoError(t, err.Cause)
		assert.Equal(t, "invalid transition: delivered -> preparing", err.Error())
		assert.Equal(t, errs.ErrInvalidTransition, err.Unwrap())
	})

	t.Run("NewInvalidTransitionErrorWithCause", func(t *testing.T) {
		cause := errors.New("terminal status")
		err := errs.NewInvalidTransitionErrorWithCause("canceled", "preparing", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "invalid transition: canceled -> preparing (cause: terminal status)", err.Error())
	})
}

func TestConcurrentModificationError(t *testing.T) {
	err := errs.NewConcurrentModificationError("order", "123", 7)

	assert.Equal(t, "order", err.ParamName)
	assert.Equal(t, "123", err.ID)
	assert.Equal(t, int64(7), err.Expected)
	assert.Equal(t,
		"concurrent modification: order 123 at version 7 was modified by another writer",
		err.Error())
	assert.Equal(t, errs.ErrConcurrentModification, err.Unwrap())
}

func TestPolicyViolationError(t *testing.T) {
	t.Run("NewPolicyViolationError", func(t *testing.T) {
		err := errs.NewPolicyViolationError("return window expired")

		assert.Equal(t, "return window expired", err.Policy)
		require.NoError(t, err.Cause)
		assert.Equal(t, "policy violation: return window expired", err.Error())
		assert.Equal(t, errs.ErrPolicyViolation, err.Unwrap())
	})

	t.Run("NewPolicyViolationErrorWithCause", func(t *testing.T) {
		cause := errors.New("3 of 3 attempts used")
		err := errs.NewPolicyViolationErrorWithCause("max delivery attempts exceeded", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"policy violation: max delivery attempts exceeded (cause: 3 of 3 attempts used)",
			err.Error())
	})
}

func TestSideEffectError(t *testing.T) {
	cause := errors.New("inventory service unavailable")
	err := errs.NewSideEffectError("reserve inventory", cause)

	assert.Equal(t, "reserve inventory", err.Effect)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, "side effect failed: reserve inventory (cause: inventory service unavailable)", err.Error())
	assert.Equal(t, errs.ErrSideEffectFailed, err.Unwrap())
	assert.True(t, errs.IsRetryable(err))
}

func TestCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{"validation required", errs.NewValueIsRequiredError("actor"), errs.CodeValidation},
		{"validation invalid", errs.NewValueIsInvalidError("amount"), errs.CodeValidation},
		{"not found", errs.NewObjectNotFoundError("order", "123"), errs.CodeNotFound},
		{"invalid transition", errs.NewInvalidTransitionError("pending", "delivered"), errs.CodeInvalidTransition},
		{"concurrent modification", errs.NewConcurrentModificationError("order", "123", 1), errs.CodeConcurrentModification},
		{"policy violation", errs.NewPolicyViolationError("return window expired"), errs.CodePolicyViolation},
		{"side effect", errs.NewSideEffectError("notify", errors.New("boom")), errs.CodeSideEffectFailed},
		{"unknown", errors.New("something else"), errs.CodeInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, errs.Code(tc.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, errs.IsRetryable(errs.NewSideEffectError("reserve", errors.New("boom"))))
	assert.False(t, errs.IsRetryable(errs.NewPolicyViolationError("x")))
	assert.False(t, errs.IsRetryable(errs.NewInvalidTransitionError("a", "b")))
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		require.ErrorIs(t, errs.NewObjectNotFoundError("orderId", "123"), errs.ErrObjectNotFound)
		require.ErrorIs(t, errs.NewValueIsInvalidError("amount"), errs.ErrValueIsInvalid)
		require.ErrorIs(t, errs.NewValueIsRequiredError("actor"), errs.ErrValueIsRequired)
		require.ErrorIs(t, errs.NewInvalidTransitionError("pending", "delivered"), errs.ErrInvalidTransition)
		require.ErrorIs(t, errs.NewConcurrentModificationError("order", "123", 1), errs.ErrConcurrentModification)
		require.ErrorIs(t, errs.NewPolicyViolationError("window"), errs.ErrPolicyViolation)
		require.ErrorIs(t, errs.NewSideEffectError("notify", errors.New("boom")), errs.ErrSideEffectFailed)
	})
}
