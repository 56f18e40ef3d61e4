package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind Kind
		code string
	}{
		{"order not found", ErrOrderNotFound, KindNotFound, "order_not_found"},
		{"product not found", ErrProductNotFound, KindNotFound, "product_not_found"},
		{"address not found", ErrAddressNotFound, KindNotFound, "address_not_found"},
		{"product unavailable", ErrProductUnavailable, KindValidation, "product_unavailable"},
		{"pricing input", ErrInvalidPricingInput, KindValidation, "invalid_pricing_input"},
		{"invalid status", ErrInvalidStatus, KindState, "invalid_status"},
		{"invalid transition", ErrInvalidTransition, KindState, "invalid_transition"},
		{"number conflict", ErrOrderNumberConflict, KindConflict, "order_number_conflict"},
		{"dependency", ErrDependencyUnavailable, KindDependency, "dependency_unavailable"},
		{"already exists", ErrAlreadyExists, KindConflict, "already_exists"},
		{"invalid credentials", ErrInvalidCredentials, KindUnauthorized, "invalid_credentials"},
		{"forbidden", ErrForbidden, KindForbidden, "forbidden"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tc.err)
			if !stdErrors.Is(wrapped, tc.err) {
				t.Fatalf("expected wrapped error to match: %v", tc.err)
			}
			if got := KindOf(wrapped); got != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, got)
			}
			if got := CodeOf(wrapped); got != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, got)
			}
		})
	}
}

func TestUnknownErrorIsInternal(t *testing.T) {
	err := stdErrors.New("boom")
	if KindOf(err) != KindInternal {
		t.Fatalf("expected internal kind, got %s", KindOf(err))
	}
	if CodeOf(err) != "internal_error" {
		t.Fatalf("unexpected code %s", CodeOf(err))
	}
	if KindOf(nil) != "" || CodeOf(nil) != "" {
		t.Fatal("expected empty classification for nil")
	}
}

func TestValidationErrorCollectsFields(t *testing.T) {
	var v ValidationError
	if v.Err() != nil {
		t.Fatal("expected nil error without violations")
	}
	v.Add("customer.name", "is required")
	v.Add("items", "must not be empty")

	err := v.Err()
	if err == nil {
		t.Fatal("expected error with violations")
	}
	if !stdErrors.Is(err, ErrValidation) {
		t.Fatalf("expected validation sentinel match, got %v", err)
	}
	var target *ValidationError
	if !stdErrors.As(err, &target) || len(target.Fields) != 2 {
		t.Fatalf("expected two field errors, got %+v", target)
	}
	if CodeOf(err) != "validation_error" {
		t.Fatalf("unexpected code %s", CodeOf(err))
	}
	want := "validation failed: customer.name: is required; items: must not be empty"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
