package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	clock             clock.Clock
	thresholds        dashboard.StatsConfig
	repositoryTimeout time.Duration
}

func NewDashboardService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	clk clock.Clock,
	thresholds dashboard.StatsConfig,
	repositoryTimeout time.Duration,
) dashboard.DashboardService {
	if repositoryTimeout <= 0 {
		repositoryTimeout = 5 * time.Second
	}
	return &DashboardServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		clock:                clk,
		thresholds:           thresholds,
		repositoryTimeout:    repositoryTimeout,
	}
}

// GetTodayStats returns the arrival tally of one business day. The user
// count and the day's records are loaded in parallel.
func (s *DashboardServiceImpl) GetTodayStats(ctx context.Context, req dashboard.TodayStatsRequest) (dashboard.TodayStatsResponse, error) {
	now := s.clock.Now()
	today := clock.DateOf(now)

	day := today
	if req.Date != "" {
		parsed, ok := validator.IsValidDate(req.Date)
		if !ok {
			return dashboard.TodayStatsResponse{}, validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}}
		}
		if parsed.After(today) {
			return dashboard.TodayStatsResponse{}, attendance.ErrFutureDate
		}
		day = parsed
	}

	var (
		totalEmployees int64
		records        []attendance.Attendance
	)

	ctx, cancel := context.WithTimeout(ctx, s.repositoryTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Everyone who could have arrived
	g.Go(func() error {
		count, err := s.UserRepository.Count(gCtx)
		if err != nil {
			return attendance.WrapInfrastructure("count users", err)
		}
		totalEmployees = count
		return nil
	})

	// 2. Records of the day
	g.Go(func() error {
		list, err := s.AttendanceRepository.ListByDate(gCtx, day)
		if err != nil {
			return attendance.WrapInfrastructure("list attendances by date", err)
		}
		records = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.TodayStatsResponse{}, err
	}

	stats := tally(records, s.thresholds)
	stats.TotalEmployees = totalEmployees
	stats.Date = day.Format(time.DateOnly)
	stats.AsOf = now.Format(time.RFC3339)

	// A past day is over; today only once the absent threshold is reached
	if day.Before(today) || attendance.TimeOfDayOf(now) >= s.thresholds.Absent {
		stats.Absent = max(0, totalEmployees-stats.TotalArrived)
	}

	return stats, nil
}

// tally classifies each check-in against the thresholds. A check-in
// strictly between OnTime and Late is counted in neither bucket.
func tally(records []attendance.Attendance, t dashboard.StatsConfig) dashboard.TodayStatsResponse {
	var stats dashboard.TodayStatsResponse
	stats.TotalArrived = int64(len(records))

	for _, r := range records {
		switch {
		case r.CheckIn < t.OnTime:
			stats.EarlyDeparture++
		case r.CheckIn == t.OnTime:
			stats.OnTime++
		case r.CheckIn >= t.Late:
			stats.LateArrivals++
		}
	}
	return stats
}
