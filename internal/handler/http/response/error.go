package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const retryAfterSeconds = 5

// messageIDs maps known sentinels to catalog entries
var messageIDs = []struct {
	err error
	id  string
}{
	{attendance.ErrFutureDate, "error.future_date"},
	{attendance.ErrFutureTime, "error.future_time"},
	{attendance.ErrTimeBeforeCheckIn, "error.time_before_check_in"},
	{user.ErrUserNotFound, "error.user_not_found"},
	{attendance.ErrRecordNotFound, "error.record_not_found"},
	{attendance.ErrDuplicateCheckIn, "error.duplicate_check_in"},
	{attendance.ErrUniquenessViolation, "error.duplicate_check_in"},
	{attendance.ErrAlreadyCheckedOut, "error.already_checked_out"},
}

func messageFor(r *http.Request, err error, fallback string) string {
	for _, m := range messageIDs {
		if errors.Is(err, m.err) {
			return i18n.T(r.Context(), m.id)
		}
	}
	return i18n.T(r.Context(), fallback)
}

// HandleError maps domain errors to HTTP responses. Internal error text is
// logged, never written to the client.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, i18n.T(r.Context(), "error.validation"), validationErrs.ToMap())
		return
	}

	switch attendance.KindOf(err) {
	case attendance.KindValidation:
		ValidationError(w, messageFor(r, err, "error.validation"), nil)
	case attendance.KindNotFound:
		NotFound(w, messageFor(r, err, "error.record_not_found"))
	case attendance.KindConflict:
		Conflict(w, messageFor(r, err, "error.duplicate_check_in"))
	case attendance.KindInfrastructure:
		slog.Error("Infrastructure failure", "method", r.Method, "path", r.URL.Path, "error", err)
		ServiceUnavailable(w, i18n.T(r.Context(), "error.infrastructure"), retryAfterSeconds)

	// Default
	default:
		slog.Error("Unexpected error", "method", r.Method, "path", r.URL.Path, "error", err)
		InternalServerError(w, i18n.T(r.Context(), "error.internal"))
	}
}
