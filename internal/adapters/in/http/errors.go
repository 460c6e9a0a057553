package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"orderflow/internal/pkg/errs"
)

type errorEnvelope struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

var codeToStatus = map[string]int{
	errs.CodeValidation:             http.StatusBadRequest,
	errs.CodeNotFound:               http.StatusNotFound,
	errs.CodeInvalidTransition:      http.StatusConflict,
	errs.CodeConcurrentModification: http.StatusConflict,
	errs.CodePolicyViolation:        http.StatusUnprocessableEntity,
	errs.CodeSideEffectFailed:       http.StatusServiceUnavailable,
	errs.CodeInternal:               http.StatusInternalServerError,
}

// writeError translates a domain or application error into the JSON
// error envelope. Unclassified errors surface as 500.
func writeError(c echo.Context, err error) error {
	code := errs.Code(err)

	status, ok := codeToStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	return c.JSON(status, errorEnvelope{
		Code:      code,
		Message:   err.Error(),
		Retryable: errs.IsRetryable(err),
	})
}

func writeBadRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorEnvelope{
		Code:    errs.CodeValidation,
		Message: err.Error(),
	})
}
