package attendance

import (
	"math"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	UserID      string `json:"-"`
	Date        string `json:"date"`          // YYYY-MM-DD
	CheckInTime string `json:"check_in_time"` // HH:MM:SS or HH:MM
	// Accepted for compatibility with older clients; a check-in always
	// creates an open record.
	CheckOutTime *string `json:"check_out_time,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsValidTimeOfDay(r.CheckInTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in_time",
			Message: "check_in_time must be in HH:MM:SS format",
		})
	}

	if r.CheckOutTime != nil && *r.CheckOutTime != "" && !validator.IsValidTimeOfDay(*r.CheckOutTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: "check_out_time must be in HH:MM:SS format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	UserID       string `json:"-"`
	AttendanceID string `json:"-"`
	Date         string `json:"date"`           // YYYY-MM-DD
	CheckOutTime string `json:"check_out_time"` // HH:MM:SS or HH:MM
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsValidTimeOfDay(r.CheckOutTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: "check_out_time must be in HH:MM:SS format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	FullName     string  `json:"full_name"`
	Date         string  `json:"date"`
	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Duration     *string `json:"duration"`
}

type DetailedAttendanceResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	FullName     string  `json:"full_name"`
	Department   string  `json:"department"`
	Role         string  `json:"role"`
	Date         string  `json:"date"`
	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Duration     string  `json:"duration"`
	Status       Status  `json:"status"`
}

type AttendanceFilter struct {
	// Search & Filter
	UserID       *string `json:"user_id,omitempty"`
	RecordID     *string `json:"record_id,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validatePagination(&f.Page, &f.PageSize)...)
	errs = append(errs, validateDateRange(f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MyAttendanceFilter struct {
	// Search & Filter (no user filters)
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validatePagination(&f.Page, &f.PageSize)...)
	errs = append(errs, validateDateRange(f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func validatePagination(page, pageSize *int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if *page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if *page == 0 {
		*page = 1 // Default page
	}

	if *pageSize < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page_size",
			Message: "page_size must be a positive number",
		})
	}
	if *pageSize == 0 {
		*pageSize = DefaultPageSize
	}
	if *pageSize > MaxPageSize {
		errs = append(errs, validator.ValidationError{
			Field:   "page_size",
			Message: "page_size must not exceed 100",
		})
	}

	// (page-1)*pageSize must fit in an int
	if size := *pageSize; size > 0 && *page > math.MaxInt/size {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page is too large",
		})
	}

	return errs
}

func validateDateRange(startDate, endDate *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if startDate != nil && *startDate != "" {
		if _, valid := validator.IsValidDate(*startDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if endDate != nil && *endDate != "" {
		if _, valid := validator.IsValidDate(*endDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	return errs
}

type ListAttendanceResponse struct {
	TotalItems  int64                        `json:"total_items"`
	Page        int                          `json:"page"`
	PageSize    int                          `json:"page_size"`
	TotalPages  int                          `json:"total_pages"`
	Showing     string                       `json:"showing"`
	Attendances []DetailedAttendanceResponse `json:"attendances"`
}

// ========================================
// ATTENDANCE STATUS DTOs
// ========================================

type StatusResponse struct {
	IsCheckedIn  bool    `json:"is_checked_in"`
	IsCheckedOut bool    `json:"is_checked_out"`
	AttendanceID *string `json:"attendance_id,omitempty"`
	Date         *string `json:"date,omitempty"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Duration     *string `json:"duration,omitempty"`
}
