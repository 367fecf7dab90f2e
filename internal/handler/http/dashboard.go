package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
)

type DashboardHandler interface {
	// GetTodayStats returns the arrival tally for today or ?date=YYYY-MM-DD
	GetTodayStats(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetTodayStats handles GET /dashboard/today-stats
func (h *dashboardHandlerImpl) GetTodayStats(w http.ResponseWriter, r *http.Request) {
	req := dashboard.TodayStatsRequest{
		Date: r.URL.Query().Get("date"), // format: YYYY-MM-DD, default: today
	}

	result, err := h.dashboardService.GetTodayStats(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, i18n.T(r.Context(), "dashboard.today_stats"), result)
}
