package attendance

import (
	"context"
	"time"
)

// DetailedFilter selects rows for the reporting query. Record-level
// predicates (RecordID, StartDate, EndDate) always apply. User-level
// predicates (UserID, NameContains) apply only when set, and then a record
// must belong to an existing user that matches them.
type DetailedFilter struct {
	RecordID     *string
	StartDate    *time.Time // inclusive
	EndDate      *time.Time // inclusive, whole day
	UserID       *string
	NameContains *string // case-insensitive on full, first or last name
}

// HasUserPredicate reports whether a user-level predicate was supplied.
func (f DetailedFilter) HasUserPredicate() bool {
	return f.UserID != nil || f.NameContains != nil
}

// AttendanceRepository defines data access methods for attendance records.
// Implementations must enforce one record per (user, date) and report a
// violation as ErrUniquenessViolation.
type AttendanceRepository interface {
	// Create inserts a new open record
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID returns ErrRecordNotFound when no record has this id
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate returns nil, nil when the user has no record that day
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// Update persists CheckOut on an open record. Records are only ever
	// mutated by closing them, so updating a closed record returns
	// ErrAlreadyCheckedOut and a missing one ErrRecordNotFound.
	Update(ctx context.Context, attendance Attendance) error

	// ListByDate returns every record of a business day
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	// SearchDetailed returns one page of joined rows ordered by date desc,
	// last name, first name, id, plus the total number of matching rows
	SearchDetailed(ctx context.Context, filter DetailedFilter, offset, limit int) ([]DetailedAttendance, int64, error)
}
