package common

import (
	"strings"
	"testing"
)

func TestValidatorCollectsErrors(t *testing.T) {
	v := NewValidator().
		Field("id", "not-a-uuid", UUID).
		Field("name", strings.Repeat("x", 6), MaxLen(5)).
		Field("driver", "mysql", OneOf("postgres", "sqlite")).
		Field("notes", "fine", Required)
	if len(v.Errors()) != 3 {
		t.Fatalf("errors = %d, want 3: %v", len(v.Errors()), v.Errors())
	}
	err := v.Error()
	if KindOf(err) != CodeValidationFailed {
		t.Fatalf("kind = %q", KindOf(err))
	}
	if GRPCCode(ValidateAndReturnError(v)).String() != "InvalidArgument" {
		t.Fatalf("expected InvalidArgument status")
	}
}

func TestValidatorClean(t *testing.T) {
	v := NewValidator().Field("id", "7b0b2f5e-7c3a-4a8e-9d7e-2f1c8d1e4b6a", UUID)
	if v.HasErrors() || v.Error() != nil {
		t.Fatalf("unexpected errors: %v", v.Errors())
	}
}
