package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetTodayStats tallies arrivals for req.Date, or today when it is empty
	GetTodayStats(ctx context.Context, req TodayStatsRequest) (TodayStatsResponse, error)
}
