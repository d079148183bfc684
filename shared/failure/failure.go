package failure

import (
	"errors"
	"net/http"
)

// Machine-readable failure kinds. They are part of the API contract and must not change.
const (
	KindValidation            = "validation_error"
	KindUnauthenticated       = "unauthenticated"
	KindUnauthorizedActor     = "unauthorized_actor"
	KindNotFound              = "not_found"
	KindTerminalState         = "terminal_state_violation"
	KindInvalidTransition     = "invalid_transition"
	KindDuplicateDispute      = "duplicate_dispute"
	KindConflict              = "conflict"
	KindResourceBusy          = "resource_busy"
	KindMissingProof          = "missing_proof"
	KindDependencyUnavailable = "dependency_unavailable"
	KindInternal              = "internal_error"
	KindUnimplemented         = "unimplemented"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
// Kind is the stable machine-readable classification, Message the human-readable reason.
type Failure struct {
	Code      int    `json:"code"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Kind: KindUnauthorizedActor, Message: "You don't have the required permissions"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// Validation is an alias of BadRequestFromString used by the domain services.
func Validation(msg string) error {
	return BadRequestFromString(msg)
}

// Unauthorized returns a new Failure with code for unauthenticated requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Kind:    KindUnauthenticated,
		Message: msg,
	}
}

// UnauthorizedActor is returned when an authenticated identity is not allowed to drive an operation.
func UnauthorizedActor(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Kind:    KindUnauthorizedActor,
		Message: msg,
	}
}

func Forbidden(msg string) error {
	return UnauthorizedActor(msg)
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Kind:    KindInternal,
			Message: err.Error(),
		}
	}

	return nil
}

// Unimplemented returns a new Failure with code for unimplemented method.
func Unimplemented(methodName string) error {
	return &Failure{
		Code:    http.StatusNotImplemented,
		Kind:    KindUnimplemented,
		Message: methodName,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// TerminalState is returned for any transition attempted on a completed or cancelled entity.
func TerminalState(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindTerminalState,
		Message: message,
	}
}

func InvalidTransition(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindInvalidTransition,
		Message: message,
	}
}

func DuplicateDispute(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindDuplicateDispute,
		Message: message,
	}
}

// MissingProof is recoverable by the caller: submit the proof, then retry.
func MissingProof(message string) error {
	return &Failure{
		Code:    http.StatusPreconditionFailed,
		Kind:    KindMissingProof,
		Message: message,
	}
}

// ResourceBusy is returned when a per-entity lock could not be acquired in time.
func ResourceBusy(message string) error {
	return &Failure{
		Code:      http.StatusConflict,
		Kind:      KindResourceBusy,
		Message:   message,
		Retryable: true,
	}
}

// DependencyUnavailable is transient and safe to retry with backoff.
func DependencyUnavailable(message string) error {
	return &Failure{
		Code:      http.StatusServiceUnavailable,
		Kind:      KindDependencyUnavailable,
		Message:   message,
		Retryable: true,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the machine-readable kind of an error interface.
func GetKind(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}

func IsRetryable(err error) bool {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Retryable
	}

	return false
}

// Is reports whether err is a Failure of the given kind.
func Is(err error, kind string) bool {
	var fail *Failure

	return errors.As(err, &fail) && fail.Kind == kind
}
