package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/attendance-backend-go/internal/service/dashboard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.SlogLevel(), cfg.App.Env)
	slog.SetDefault(logger)

	if err := i18n.Init(cfg.App.DefaultLocale); err != nil {
		log.Fatal("Failed to initialize translations: ", err)
	}

	clk, err := clock.NewFromName(cfg.Attendance.Timezone)
	if err != nil {
		log.Fatal("Invalid timezone: ", err)
	}

	expectedCheckIn, err := attendance.ParseTimeOfDay(cfg.Attendance.ExpectedCheckIn)
	if err != nil {
		log.Fatal("Invalid ATTENDANCE_EXPECTED_CHECK_IN: ", err)
	}
	thresholds, err := dashboard.NewStatsConfig(
		cfg.Attendance.OnTimeThreshold,
		cfg.Attendance.LateThreshold,
		cfg.Attendance.AbsentThreshold,
	)
	if err != nil {
		log.Fatal("Invalid dashboard thresholds: ", err)
	}

	ctx := context.Background()

	var (
		attendanceRepo attendance.AttendanceRepository
		userRepo       user.UserRepository
		closeDB        func()
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			log.Fatal("Error connecting to database: ", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatal(err)
		}
		attendanceRepo = postgresql.NewAttendanceRepository(db)
		userRepo = postgresql.NewUserRepository(db)
		closeDB = db.Close
	case "sqlite":
		db, err := database.NewSQLiteDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			log.Fatal("Error opening database: ", err)
		}
		attendanceRepo = sqlite.NewAttendanceRepository(db)
		userRepo = sqlite.NewUserRepository(db)
		closeDB = func() { _ = db.Close() }
	default:
		log.Fatal("Unsupported database driver: ", cfg.Database.Driver)
	}
	defer closeDB()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userRepo, clk, attendanceService.Config{
		ExpectedCheckIn:   expectedCheckIn,
		RepositoryTimeout: cfg.Attendance.RepositoryTimeout,
	})
	dashboardSvc := dashboardService.NewDashboardService(attendanceRepo, userRepo, clk, thresholds, cfg.Attendance.RepositoryTimeout)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	dashboardHandler := appHTTP.NewDashboardHandler(dashboardSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
		},
		JWTService,
		attendanceHandler,
		dashboardHandler,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server started", "addr", srv.Addr, "driver", cfg.Database.Driver, "timezone", cfg.Attendance.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
