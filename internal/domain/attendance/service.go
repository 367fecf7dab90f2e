package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's (or a past day's) record for a user
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes an open record owned by the user
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// GetStatus reports whether the user has checked in/out today
	GetStatus(ctx context.Context, userID string) (StatusResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// ListAttendance runs the filtered, paginated reporting query
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetMyAttendance lists the given user's own records
	GetMyAttendance(ctx context.Context, userID string, filter MyAttendanceFilter) (ListAttendanceResponse, error)
}
