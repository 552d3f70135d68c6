package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

const UnknownErrorMessage = "Unknown error"

var (
	ErrUnsupportedMethod         = errors.New("unsupported http method")
	ErrEmptyPath                 = errors.New("endpoint path cannot be empty")
	ErrEndpointNotRegistered     = errors.New("endpoint not registered")
	ErrIdentifierNotRegistered   = errors.New("endpoint identifier not registered")
	ErrMissingPathParam          = errors.New("missing path param")
	ErrMalformedPath             = errors.New("malformed path template")
	ErrRequiredField             = errors.New("field is required")
	ErrInvalidResponse           = errors.New("response body is not a json object")
	ErrSessionStoreNotConfigured = errors.New("session store is not configured")
)

// ApiError is a failure reported by the ticketing API inside an otherwise
// successful response body, e.g. {"Error":{"ErrorCode":"...","ErrorMessage":"..."}}.
type ApiError struct {
	details map[string]any
}

func NewApiError(value any) *ApiError {
	details, ok := value.(map[string]any)
	if !ok {
		details = map[string]any{"ErrorMessage": value}
	}
	return &ApiError{details: details}
}

func (e *ApiError) Code() string {
	code := e.details["ErrorCode"]
	if !IsTruthy(code) {
		return ""
	}
	return fmt.Sprint(code)
}

func (e *ApiError) Message() string {
	message := e.details["ErrorMessage"]
	if !IsTruthy(message) {
		return UnknownErrorMessage
	}
	return fmt.Sprint(message)
}

func (e *ApiError) Details() map[string]any {
	return e.details
}

func (e *ApiError) Error() string {
	code := e.Code()
	if code == "" {
		return e.Message()
	}
	return fmt.Sprintf("%s: %s", code, e.Message())
}

// IsTruthy reports whether a decoded json value counts as set:
// null, false, zero, "" and empty containers do not.
func IsTruthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case map[string]any:
		return len(v) > 0
	case []any:
		return len(v) > 0
	default:
		return true
	}
}
