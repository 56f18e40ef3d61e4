package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrState              = errors.New("invalid state")
	ErrDependency         = errors.New("dependency unavailable")

	ErrOrderNotFound   = fmt.Errorf("order %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrAddressNotFound = fmt.Errorf("address %w", ErrNotFound)

	ErrProductUnavailable  = fmt.Errorf("%w: product unavailable", ErrValidation)
	ErrInvalidPricingInput = fmt.Errorf("%w: invalid pricing input", ErrValidation)

	ErrInvalidStatus     = fmt.Errorf("%w: unknown status", ErrState)
	ErrInvalidTransition = fmt.Errorf("%w: transition not allowed", ErrState)
	ErrOrderNotCancelled = fmt.Errorf("%w: order is not cancelled", ErrState)

	ErrOrderNumberConflict   = fmt.Errorf("order number %w", ErrConflict)
	ErrDependencyUnavailable = ErrDependency
)

// Kind groups errors into the categories callers react to.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindDependency   Kind = "dependency_unavailable"
	KindConflict     Kind = "conflict"
	KindState        Kind = "state"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDependency):
		return KindDependency
	case errors.Is(err, ErrConflict), errors.Is(err, ErrAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrState):
		return KindState
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrInvalidCredentials):
		return KindUnauthorized
	default:
		return KindInternal
	}
}

var codes = []struct {
	err  error
	code string
}{
	{ErrOrderNotFound, "order_not_found"},
	{ErrProductNotFound, "product_not_found"},
	{ErrAddressNotFound, "address_not_found"},
	{ErrProductUnavailable, "product_unavailable"},
	{ErrInvalidPricingInput, "invalid_pricing_input"},
	{ErrInvalidStatus, "invalid_status"},
	{ErrInvalidTransition, "invalid_transition"},
	{ErrOrderNotCancelled, "order_not_cancelled"},
	{ErrOrderNumberConflict, "order_number_conflict"},
	{ErrDependency, "dependency_unavailable"},
	{ErrInvalidCredentials, "invalid_credentials"},
	{ErrForbidden, "forbidden"},
	{ErrAlreadyExists, "already_exists"},
	{ErrValidation, "validation_error"},
	{ErrNotFound, "not_found"},
	{ErrConflict, "conflict"},
	{ErrState, "state_error"},
}

// CodeOf returns a stable machine-readable code for err.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal_error"
}

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every violated field of a request.
type ValidationError struct {
	Fields []FieldError
}

// Add records a violation for field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err returns e when at least one violation was recorded.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
