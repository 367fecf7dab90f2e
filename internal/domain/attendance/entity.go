package attendance

import (
	"time"
)

// Attendance is one user's check-in/check-out entry for one business day.
// A nil CheckOut means the record is still open.
type Attendance struct {
	ID        string
	UserID    string
	Date      time.Time // calendar date, midnight UTC
	CheckIn   TimeOfDay
	CheckOut  *TimeOfDay
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsClosed reports whether the user has checked out.
func (a Attendance) IsClosed() bool {
	return a.CheckOut != nil
}

// Duration is CheckOut-CheckIn; ok is false while the record is open.
func (a Attendance) Duration() (d time.Duration, ok bool) {
	if a.CheckOut == nil {
		return 0, false
	}
	return a.CheckOut.Sub(a.CheckIn), true
}

// DetailedAttendance is an attendance row joined with its owner's profile.
// Department and Role are nil when the relation is missing.
type DetailedAttendance struct {
	Attendance
	FirstName  string
	LastName   string
	Department *string
	Role       *string
}

func (d DetailedAttendance) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}
