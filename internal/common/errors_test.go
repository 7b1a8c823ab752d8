package common

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestKindOfWrapped(t *testing.T) {
	base := NewAppError(CodeUploadFailure, "upload front image", errors.New("disk full"))
	err := fmt.Errorf("submit: %w", base)
	if got := KindOf(err); got != CodeUploadFailure {
		t.Fatalf("KindOf() = %q", got)
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("plain error should have no kind")
	}
}

func TestGRPCCode(t *testing.T) {
	cases := []struct {
		err  error
		want codes.Code
	}{
		{nil, codes.OK},
		{NewAppError(CodeValidationFailed, "too long", ErrValidation), codes.InvalidArgument},
		{NewAppError(CodePersistenceFailure, "insert", nil), codes.Unavailable},
		{NewAppError(CodeCameraAccessDenied, "open", nil), codes.PermissionDenied},
		{fmt.Errorf("get: %w", ErrNotFound), codes.NotFound},
		{InvalidArgumentError("bad id"), codes.InvalidArgument},
		{ErrSessionClosed, codes.FailedPrecondition},
		{errors.New("boom"), codes.Internal},
	}
	for i, c := range cases {
		if got := GRPCCode(c.err); got != c.want {
			t.Errorf("case %d: GRPCCode(%v) = %v, want %v", i, c.err, got, c.want)
		}
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := NewAppError(CodeNoTextDetected, "front", ErrNoTextDetected)
	if !errors.Is(err, ErrNoTextDetected) {
		t.Fatalf("errors.Is should see the cause")
	}
	if err.Error() != "NO_TEXT_DETECTED: front: no text detected" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
