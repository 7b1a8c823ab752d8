package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
	ErrValidation   = errors.New("validation failed")
)

// Capture pipeline errors
var (
	ErrCameraAccessDenied = errors.New("camera access denied")
	ErrNoTextDetected     = errors.New("no text detected")
	ErrNoUsefulData       = errors.New("no contact details found")
	ErrRecognitionFailure = errors.New("text recognition failed")
	ErrUploadFailure      = errors.New("image upload failed")
	ErrPersistenceFailure = errors.New("saving card failed")
	ErrSessionClosed      = errors.New("capture session closed")
)

// Error kinds surfaced to callers.
const (
	CodeCameraAccessDenied = "CAMERA_ACCESS_DENIED"
	CodeNoTextDetected     = "NO_TEXT_DETECTED"
	CodeNoUsefulData       = "NO_USEFUL_DATA"
	CodeRecognitionFailure = "RECOGNITION_FAILURE"
	CodeUploadFailure      = "UPLOAD_FAILURE"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// KindOf returns the code of the first AppError in err's chain, or "".
func KindOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// GRPCCode classifies err for logs and exit statuses.
func GRPCCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	switch KindOf(err) {
	case CodeValidationFailed:
		return codes.InvalidArgument
	case CodeNotFound:
		return codes.NotFound
	case CodeCameraAccessDenied:
		return codes.PermissionDenied
	case CodeNoTextDetected, CodeNoUsefulData:
		return codes.FailedPrecondition
	case CodeUploadFailure, CodePersistenceFailure:
		return codes.Unavailable
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return codes.NotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation):
		return codes.InvalidArgument
	case errors.Is(err, ErrSessionClosed):
		return codes.FailedPrecondition
	}
	return codes.Internal
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}
