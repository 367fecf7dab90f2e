package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode check-in request", "error", err)
		response.BadRequest(w, i18n.T(r.Context(), "error.bad_request"), nil)
		return
	}
	req.UserID = middleware.UserIDFromContext(r.Context())

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, i18n.T(r.Context(), "attendance.checked_in"), result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode check-out request", "error", err)
		response.BadRequest(w, i18n.T(r.Context(), "error.bad_request"), nil)
		return
	}
	req.UserID = middleware.UserIDFromContext(r.Context())
	req.AttendanceID = chi.URLParam(r, "id")

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, i18n.T(r.Context(), "attendance.checked_out"), result)
}

// Status implements AttendanceHandler.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetStatus(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, i18n.T(r.Context(), "attendance.status"), result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Parse query parameters
	filter := attendance.AttendanceFilter{
		UserID:       optionalQuery(r, "user_id"),
		RecordID:     optionalQuery(r, "record_id"),
		EmployeeName: optionalQuery(r, "employee_name"),
		StartDate:    optionalQuery(r, "start_date"),
		EndDate:      optionalQuery(r, "end_date"),
	}

	var errs validator.ValidationErrors
	filter.Page, errs = parseIntQuery(query.Get("page"), "page", errs)
	filter.PageSize, errs = parseIntQuery(query.Get("page_size"), "page_size", errs)
	if len(errs) > 0 {
		response.HandleError(w, r, errs)
		return
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	writeList(w, r, result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := attendance.MyAttendanceFilter{
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
	}

	var errs validator.ValidationErrors
	filter.Page, errs = parseIntQuery(query.Get("page"), "page", errs)
	filter.PageSize, errs = parseIntQuery(query.Get("page_size"), "page_size", errs)
	if len(errs) > 0 {
		response.HandleError(w, r, errs)
		return
	}

	result, err := h.attendanceService.GetMyAttendance(r.Context(), middleware.UserIDFromContext(r.Context()), filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	writeList(w, r, result)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetAttendance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, i18n.T(r.Context(), "attendance.retrieved"), result)
}

func writeList(w http.ResponseWriter, r *http.Request, result attendance.ListAttendanceResponse) {
	response.SuccessWithMeta(w, i18n.T(r.Context(), "attendance.listed"), result, &response.Meta{
		Page:       result.Page,
		Limit:      result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// parseIntQuery returns 0 for an empty value so the filter applies its default.
func parseIntQuery(raw, field string, errs validator.ValidationErrors) (int, validator.ValidationErrors) {
	if raw == "" {
		return 0, errs
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, append(errs, validator.ValidationError{
			Field:   field,
			Message: field + " must be a number",
		})
	}
	return n, errs
}
