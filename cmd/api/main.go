package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/finance-tracker/internal/calendar"
	"github.com/Dan9191/finance-tracker/internal/config"
	"github.com/Dan9191/finance-tracker/internal/cycle"
	"github.com/Dan9191/finance-tracker/internal/handler"
	"github.com/Dan9191/finance-tracker/internal/integrations/xmlcal"
	"github.com/Dan9191/finance-tracker/internal/middleware"
	"github.com/Dan9191/finance-tracker/internal/notifier"
	"github.com/Dan9191/finance-tracker/internal/recorder"
	"github.com/Dan9191/finance-tracker/internal/repository"
	"github.com/Dan9191/finance-tracker/internal/scheduler"
	"github.com/Dan9191/finance-tracker/internal/service"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatalf("Failed to load timezone: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	repo := repository.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Holiday calendar
	clock := cycle.SystemClock(loc)
	holidays, feed := loadHolidays(ctx, cfg, logger, clock().Year())

	// Snapshot recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.SQLitePath != "" {
		sqliteRec, err := recorder.NewSQLiteRecorder(cfg.SQLitePath, logger)
		if err != nil {
			logger.Fatalf("Failed to open snapshot recorder: %v", err)
		}
		rec = sqliteRec
	}
	defer rec.Close()

	// Initialize layers
	svc := service.NewService(repo, logger, cfg, holidays, clock)
	h := handler.NewHandler(svc, rec, logger)

	var refresher scheduler.CalendarRefresher
	if feed != nil {
		refresher = feed
	}
	sched := scheduler.NewScheduler(ctx, svc, notifier.NewSender(cfg, logger), rec, refresher, holidays, logger)
	if err := sched.RegisterAll(cfg.SnapshotCron, cfg.CalendarCron); err != nil {
		logger.Fatalf("Failed to register scheduled tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger))
	h.Register(r, middleware.AuthMiddleware(cfg))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}

// loadHolidays fills the calendar from configured dates, local XML files and
// the production calendar feed. Missing sources leave weekends as the only
// non-working days.
func loadHolidays(ctx context.Context, cfg *config.Config, logger *logrus.Logger, year int) (*calendar.Holidays, *xmlcal.Client) {
	dates, err := cfg.HolidayDateList()
	if err != nil {
		logger.Fatalf("Failed to parse holiday dates: %v", err)
	}
	holidays := calendar.NewHolidays(dates...)

	for _, path := range cfg.HolidayFiles {
		y, days, err := xmlcal.ParseFile(path)
		if err != nil {
			logger.WithError(err).Warnf("Skipping holiday file %s", path)
			continue
		}
		holidays.Replace(y, days)
	}

	if cfg.HolidayCountry == "" {
		return holidays, nil
	}
	feed := xmlcal.NewClient(cfg, logger)
	if err := feed.Refresh(ctx, holidays, year-1, year, year+1); err != nil {
		logger.Warnf("Holiday calendar incomplete: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"years": holidays.Years(),
		"days":  holidays.Len(),
	}).Info("Holiday calendar loaded")
	return holidays, feed
}
