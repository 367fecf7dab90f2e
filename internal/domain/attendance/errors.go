package attendance

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// Attendance domain errors
var (
	// Validation errors
	ErrFutureDate        = errors.New("date cannot be in the future")
	ErrFutureTime        = errors.New("time cannot be in the future")
	ErrTimeBeforeCheckIn = errors.New("check-out time cannot be earlier than check-in time")

	// Conflict errors
	ErrDuplicateCheckIn  = errors.New("you have already checked in for this date")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// Not found errors
	ErrRecordNotFound = errors.New("attendance record not found")

	// ErrUniquenessViolation is returned by repositories when a record for the
	// same user and date already exists at write time.
	ErrUniquenessViolation = errors.New("attendance for this user and date already exists")
)

// InfrastructureError wraps a store failure or timeout. It is the only
// error kind a caller may retry.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying cause was a deadline.
func (e *InfrastructureError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// WrapInfrastructure tags err as an InfrastructureError unless it is nil or
// already belongs to a known kind.
func WrapInfrastructure(op string, err error) error {
	if err == nil || KindOf(err) != KindUnknown {
		return err
	}
	return &InfrastructureError{Op: op, Err: err}
}

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// KindOf classifies err into the error taxonomy.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var validationErrs validator.ValidationErrors
	var infraErr *InfrastructureError

	switch {
	case errors.As(err, &validationErrs),
		errors.Is(err, ErrFutureDate),
		errors.Is(err, ErrFutureTime),
		errors.Is(err, ErrTimeBeforeCheckIn),
		errors.Is(err, ErrInvalidTimeOfDay):
		return KindValidation
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateCheckIn),
		errors.Is(err, ErrAlreadyCheckedOut),
		errors.Is(err, ErrUniquenessViolation):
		return KindConflict
	case errors.As(err, &infraErr):
		return KindInfrastructure
	}
	return KindUnknown
}

// IsRetryable reports whether the operation may succeed if repeated unchanged.
func IsRetryable(err error) bool {
	return KindOf(err) == KindInfrastructure
}
