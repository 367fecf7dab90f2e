package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const notAssigned = "Not Assigned"

// Config carries the tunables of the attendance service.
type Config struct {
	ExpectedCheckIn   attendance.TimeOfDay
	RepositoryTimeout time.Duration
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	clock  clock.Clock
	config Config
	newID  func() (string, error)
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	clk clock.Clock,
	cfg Config,
) attendance.AttendanceService {
	if cfg.ExpectedCheckIn == 0 {
		cfg.ExpectedCheckIn = attendance.DefaultExpectedCheckIn
	}
	if cfg.RepositoryTimeout <= 0 {
		cfg.RepositoryTimeout = 5 * time.Second
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		clock:                clk,
		config:               cfg,
		newID:                newUUIDv7,
	}
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// repoCtx bounds a single repository call.
func (s *AttendanceServiceImpl) repoCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.config.RepositoryTimeout)
}

func (s *AttendanceServiceImpl) getUser(ctx context.Context, userID string) (user.User, error) {
	ctx, cancel := s.repoCtx(ctx)
	defer cancel()

	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, attendance.WrapInfrastructure("get user", err)
	}
	return u, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)
	checkIn, _ := attendance.ParseTimeOfDay(req.CheckInTime)

	u, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	if date.After(clock.DateOf(now)) {
		return attendance.AttendanceResponse{}, attendance.ErrFutureDate
	}

	existing, err := func() (*attendance.Attendance, error) {
		ctx, cancel := s.repoCtx(ctx)
		defer cancel()
		return s.AttendanceRepository.GetByUserAndDate(ctx, req.UserID, date)
	}()
	if err != nil {
		return attendance.AttendanceResponse{}, attendance.WrapInfrastructure("get attendance by user and date", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrDuplicateCheckIn
	}

	if checkIn > attendance.TimeOfDayOf(now) {
		return attendance.AttendanceResponse{}, attendance.ErrFutureTime
	}

	id, err := s.newID()
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	created, err := func() (attendance.Attendance, error) {
		ctx, cancel := s.repoCtx(ctx)
		defer cancel()
		return s.AttendanceRepository.Create(ctx, attendance.Attendance{
			ID:        id,
			UserID:    req.UserID,
			Date:      date,
			CheckIn:   checkIn,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}()
	if err != nil {
		// Lost a race against a concurrent check-in for the same day
		if errors.Is(err, attendance.ErrUniquenessViolation) {
			return attendance.AttendanceResponse{}, attendance.ErrDuplicateCheckIn
		}
		return attendance.AttendanceResponse{}, attendance.WrapInfrastructure("create attendance", err)
	}

	slog.Info("User checked in", "user_id", req.UserID, "attendance_id", created.ID, "date", req.Date, "check_in_time", checkIn.String())

	return mapAttendanceToResponse(created, u.FullName()), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)
	checkOut, _ := attendance.ParseTimeOfDay(req.CheckOutTime)

	u, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	today := clock.DateOf(now)
	if date.After(today) {
		return attendance.AttendanceResponse{}, attendance.ErrFutureDate
	}

	att, err := func() (attendance.Attendance, error) {
		ctx, cancel := s.repoCtx(ctx)
		defer cancel()
		return s.AttendanceRepository.GetByID(ctx, req.AttendanceID)
	}()
	if err != nil {
		return attendance.AttendanceResponse{}, attendance.WrapInfrastructure("get attendance", err)
	}
	if att.UserID != req.UserID {
		return attendance.AttendanceResponse{}, attendance.ErrRecordNotFound
	}
	if att.IsClosed() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}
	if checkOut < att.CheckIn {
		return attendance.AttendanceResponse{}, attendance.ErrTimeBeforeCheckIn
	}
	if att.Date.Equal(today) && checkOut > attendance.TimeOfDayOf(now) {
		return attendance.AttendanceResponse{}, attendance.ErrFutureTime
	}

	att.CheckOut = &checkOut
	att.UpdatedAt = now

	err = func() error {
		ctx, cancel := s.repoCtx(ctx)
		defer cancel()
		return s.AttendanceRepository.Update(ctx, att)
	}()
	if err != nil {
		return attendance.AttendanceResponse{}, attendance.WrapInfrastructure("update attendance", err)
	}

	slog.Info("User checked out", "user_id", req.UserID, "attendance_id", att.ID, "check_out_time", checkOut.String())

	return mapAttendanceToResponse(att, u.FullName()), nil
}

// GetStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStatus(ctx context.Context, userID string) (attendance.StatusResponse, error) {
	if validator.IsEmpty(userID) {
		return attendance.StatusResponse{}, validator.ValidationErrors{{Field: "user_id", Message: "user_id is required"}}
	}

	today := clock.Today(s.clock)

	repoCtx, cancel := s.repoCtx(ctx)
	defer cancel()

	att, err := s.AttendanceRepository.GetByUserAndDate(repoCtx, userID, today)
	if err != nil {
		return attendance.StatusResponse{}, attendance.WrapInfrastructure("get attendance by user and date", err)
	}
	if att == nil {
		return attendance.StatusResponse{}, nil
	}

	date := att.Date.Format(time.DateOnly)
	checkIn := att.CheckIn.String()
	status := attendance.StatusResponse{
		IsCheckedIn:  true,
		IsCheckedOut: att.IsClosed(),
		AttendanceID: &att.ID,
		Date:         &date,
		CheckInTime:  &checkIn,
	}
	if att.CheckOut != nil {
		checkOut := att.CheckOut.String()
		status.CheckOutTime = &checkOut
	}
	if d, ok := att.Duration(); ok {
		duration := attendance.FormatDuration(d)
		status.Duration = &duration
	}
	return status, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	if validator.IsEmpty(id) {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}

	repoCtx, cancel := s.repoCtx(ctx)
	defer cancel()

	rows, _, err := s.AttendanceRepository.SearchDetailed(repoCtx, attendance.DetailedFilter{RecordID: &id}, 0, 1)
	if err != nil {
		return attendance.AttendanceResponse{}, attendance.WrapInfrastructure("get attendance", err)
	}
	if len(rows) == 0 {
		return attendance.AttendanceResponse{}, attendance.ErrRecordNotFound
	}

	return mapAttendanceToResponse(rows[0].Attendance, rows[0].FullName()), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	detailed := attendance.DetailedFilter{
		RecordID:     nonEmpty(filter.RecordID),
		UserID:       nonEmpty(filter.UserID),
		NameContains: nonEmpty(filter.EmployeeName),
	}
	detailed.StartDate, _ = validator.ParseOptionalDate(filter.StartDate)
	detailed.EndDate, _ = validator.ParseOptionalDate(filter.EndDate)

	return s.search(ctx, detailed, filter.Page, filter.PageSize)
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, userID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if validator.IsEmpty(userID) {
		return attendance.ListAttendanceResponse{}, validator.ValidationErrors{{Field: "user_id", Message: "user_id is required"}}
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	detailed := attendance.DetailedFilter{UserID: &userID}
	detailed.StartDate, _ = validator.ParseOptionalDate(filter.StartDate)
	detailed.EndDate, _ = validator.ParseOptionalDate(filter.EndDate)

	return s.search(ctx, detailed, filter.Page, filter.PageSize)
}

func (s *AttendanceServiceImpl) search(ctx context.Context, filter attendance.DetailedFilter, page, pageSize int) (attendance.ListAttendanceResponse, error) {
	repoCtx, cancel := s.repoCtx(ctx)
	defer cancel()

	rows, total, err := s.AttendanceRepository.SearchDetailed(repoCtx, filter, (page-1)*pageSize, pageSize)
	if err != nil {
		return attendance.ListAttendanceResponse{}, attendance.WrapInfrastructure("search attendances", err)
	}

	// Map to response
	responses := make([]attendance.DetailedAttendanceResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, s.mapDetailedToResponse(row))
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*pageSize+1, min(page*pageSize, int(total)), total)
	if total == 0 || len(rows) == 0 {
		showing = fmt.Sprintf("0 of %d", total)
	}

	return attendance.ListAttendanceResponse{
		TotalItems:  total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance, fullName string) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:          att.ID,
		UserID:      att.UserID,
		FullName:    fullName,
		Date:        att.Date.Format(time.DateOnly),
		CheckInTime: att.CheckIn.String(),
	}
	if att.CheckOut != nil {
		checkOut := att.CheckOut.String()
		resp.CheckOutTime = &checkOut
	}
	if d, ok := att.Duration(); ok {
		duration := attendance.FormatDuration(d)
		resp.Duration = &duration
	}
	return resp
}

func (s *AttendanceServiceImpl) mapDetailedToResponse(d attendance.DetailedAttendance) attendance.DetailedAttendanceResponse {
	resp := attendance.DetailedAttendanceResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		FullName:    d.FullName(),
		Department:  orNotAssigned(d.Department),
		Role:        orNotAssigned(d.Role),
		Date:        d.Date.Format(time.DateOnly),
		CheckInTime: d.CheckIn.String(),
		Duration:    attendance.FormatDuration(0),
		Status:      attendance.ClassifyStatus(d.CheckIn, d.CheckOut, s.config.ExpectedCheckIn),
	}
	if d.CheckOut != nil {
		checkOut := d.CheckOut.String()
		resp.CheckOutTime = &checkOut
	}
	if dur, ok := d.Duration(); ok {
		resp.Duration = attendance.FormatDuration(dur)
	}
	return resp
}

func orNotAssigned(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return notAssigned
	}
	return *s
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
