package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/attendance-backend-go/internal/service/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	tokens  jwt.Service
}

var wib = time.FixedZone("WIB", 7*60*60)

func newTestServer(t *testing.T, configure ...func(*RouterOptions)) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	seed(t, db, "u1", "Alice", "Hartono")
	seed(t, db, "u2", "Budi", "Santoso")

	clk := clock.NewFixed(time.Date(2024, 6, 1, 18, 0, 0, 0, wib), wib)
	attendanceRepo := sqlite.NewAttendanceRepository(db)
	userRepo := sqlite.NewUserRepository(db)

	opts := RouterOptions{
		Logger:         slog.New(slog.NewJSONHandler(io.Discard, nil)),
		LogLevel:       slog.LevelDebug,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	for _, fn := range configure {
		fn(&opts)
	}

	tokens := jwt.NewJWTService("test-secret", "1h")
	router := NewRouter(
		opts,
		tokens,
		NewAttendanceHandler(attendanceService.NewAttendanceService(attendanceRepo, userRepo, clk, attendanceService.Config{})),
		NewDashboardHandler(dashboardService.NewDashboardService(attendanceRepo, userRepo, clk, dashboard.DefaultStatsConfig(), time.Second)),
	)

	return &testServer{t: t, handler: router, tokens: tokens}
}

func seed(t *testing.T, db *sql.DB, id, first, last string) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO users (id, first_name, last_name) VALUES (?, ?, ?)`, id, first, last)
	require.NoError(t, err)
}

func (s *testServer) token(userID string) string {
	token, _, err := s.tokens.GenerateAccessToken(userID)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, userID, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(userID))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func dataField(t *testing.T, env envelope) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &m))
	return m
}

func TestRouter_CheckInCheckOutFlow(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodPost, "/api/v1/attendance/check-in", "u1",
		`{"date":"2024-06-01","check_in_time":"08:55:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	assert.Equal(t, "Checked in successfully", env.Message)

	checkIn := dataField(t, env)
	id, _ := checkIn["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Alice Hartono", checkIn["full_name"])
	assert.Nil(t, checkIn["check_out_time"])

	rec, env = s.do(http.MethodGet, "/api/v1/attendance/status", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := dataField(t, env)
	assert.Equal(t, true, status["is_checked_in"])
	assert.Equal(t, false, status["is_checked_out"])

	rec, env = s.do(http.MethodPut, "/api/v1/attendance/"+id+"/check-out", "u1",
		`{"date":"2024-06-01","check_out_time":"17:30:00"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	checkOut := dataField(t, env)
	assert.Equal(t, "17:30:00", checkOut["check_out_time"])
	assert.Equal(t, "08:35:00", checkOut["duration"])

	rec, env = s.do(http.MethodPut, "/api/v1/attendance/"+id+"/check-out", "u1",
		`{"date":"2024-06-01","check_out_time":"17:45:00"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "You have already checked out", env.Message)

	rec, env = s.do(http.MethodGet, "/api/v1/attendance/"+id, "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, dataField(t, env)["id"])
}

func TestRouter_CheckInErrors(t *testing.T) {
	s := newTestServer(t)

	_, _ = s.do(http.MethodPost, "/api/v1/attendance/check-in", "u1",
		`{"date":"2024-06-01","check_in_time":"08:00:00"}`)

	cases := []struct {
		name   string
		userID string
		body   string
		status int
		code   string
	}{
		{"duplicate", "u1", `{"date":"2024-06-01","check_in_time":"09:00:00"}`, http.StatusConflict, "CONFLICT"},
		{"malformed body", "u2", `{"date":`, http.StatusBadRequest, "BAD_REQUEST"},
		{"bad time", "u2", `{"date":"2024-06-01","check_in_time":"25:00"}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"future date", "u2", `{"date":"2024-06-02","check_in_time":"08:00:00"}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"future time", "u2", `{"date":"2024-06-01","check_in_time":"19:00:00"}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"unknown user", "ghost", `{"date":"2024-06-01","check_in_time":"08:00:00"}`, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := s.do(http.MethodPost, "/api/v1/attendance/check-in", tc.userID, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestRouter_ValidationDetails(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodPost, "/api/v1/attendance/check-in", "u1",
		`{"date":"01-06-2024","check_in_time":"8am"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "date")
	assert.Contains(t, env.Error.Details, "check_in_time")
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodGet, "/api/v1/attendance/status", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, _ = s.do(http.MethodGet, "/api/v1/dashboard/today-stats", "", "",
		"Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ListAttendance(t *testing.T) {
	s := newTestServer(t)

	for _, userID := range []string{"u1", "u2"} {
		rec, _ := s.do(http.MethodPost, "/api/v1/attendance/check-in", userID,
			`{"date":"2024-06-01","check_in_time":"07:30:00"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := s.do(http.MethodGet, "/api/v1/attendance?page=1&page_size=1", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(2), env.Meta.TotalItems)
	assert.Equal(t, 2, env.Meta.TotalPages)
	assert.Equal(t, 1, env.Meta.Limit)

	list := dataField(t, env)
	assert.Equal(t, "1-1 of 2", list["showing"])
	rows, _ := list["attendances"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, "Not Assigned", row["department"])
	assert.Equal(t, "00:00:00", row["duration"])

	rec, env = s.do(http.MethodGet, "/api/v1/attendance?employee_name=budi", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), env.Meta.TotalItems)

	rec, env = s.do(http.MethodGet, "/api/v1/attendance/me", "u2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), env.Meta.TotalItems)

	rec, env = s.do(http.MethodGet, "/api/v1/attendance?page_size=abc", "u1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "page_size")

	rec, _ = s.do(http.MethodGet, "/api/v1/attendance?page_size=500", "u1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/attendance?page=461168601842738792", "u1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "page")

	rec, _ = s.do(http.MethodGet, "/api/v1/attendance/missing", "u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_TodayStats(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodPost, "/api/v1/attendance/check-in", "u1",
		`{"date":"2024-06-01","check_in_time":"08:55:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.do(http.MethodGet, "/api/v1/dashboard/today-stats", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stats dashboard.TodayStatsResponse
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(2), stats.TotalEmployees)
	assert.Equal(t, int64(1), stats.TotalArrived)
	assert.Equal(t, int64(1), stats.LateArrivals)
	assert.Equal(t, int64(1), stats.Absent)
	assert.Equal(t, "2024-06-01", stats.Date)

	rec, _ = s.do(http.MethodGet, "/api/v1/dashboard/today-stats?date=2024-06-02", "u1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_LocalizedMessages(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(http.MethodPost, "/api/v1/attendance/check-in", "u1",
		`{"date":"2024-06-01","check_in_time":"08:00:00"}`,
		"Accept-Language", "id-ID,id;q=0.9")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Berhasil check-in", env.Message)
}

func TestRouter_RequestLogLevel(t *testing.T) {
	var logs bytes.Buffer
	s := newTestServer(t, func(opts *RouterOptions) {
		opts.Logger = NewLogger(&logs, slog.LevelDebug, "test")
		opts.LogLevel = slog.LevelWarn
	})

	rec, _ := s.do(http.MethodGet, "/api/v1/attendance/status", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, logs.String())

	rec, _ = s.do(http.MethodGet, "/api/v1/attendance/status", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, logs.String(), "/api/v1/attendance/status")
}
