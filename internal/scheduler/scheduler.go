package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Dan9191/finance-tracker/internal/calendar"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/Dan9191/finance-tracker/internal/recorder"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReportSource builds health reports
type ReportSource interface {
	HealthReport(ctx context.Context, offset int) (*models.HealthReport, error)
}

// AlertSender delivers budget alerts
type AlertSender interface {
	SendBudgetAlert(r *models.HealthReport) error
}

// CalendarRefresher reloads holiday years into a calendar
type CalendarRefresher interface {
	Refresh(ctx context.Context, h *calendar.Holidays, years ...int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Reports   ReportSource
	Alerts    AlertSender
	Recorder  recorder.Recorder
	Refresher CalendarRefresher
	Holidays  *calendar.Holidays
	Ctx       context.Context

	log   *logrus.Logger
	now   func() time.Time
	mu    sync.Mutex
	alert time.Time // start of the cycle last alerted on
}

// NewScheduler creates a new Scheduler. refresher may be nil when no holiday feed is configured.
func NewScheduler(ctx context.Context, reports ReportSource, alerts AlertSender, rec recorder.Recorder,
	refresher CalendarRefresher, holidays *calendar.Holidays, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Reports:   reports,
		Alerts:    alerts,
		Recorder:  rec,
		Refresher: refresher,
		Holidays:  holidays,
		Ctx:       ctx,
		log:       log,
		now:       time.Now,
	}
}

// RegisterAll registers the snapshot and calendar refresh tasks.
func (s *Scheduler) RegisterAll(snapshotCron, calendarCron string) error {
	if _, err := s.Cron.AddFunc(snapshotCron, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	if s.Refresher != nil {
		if _, err := s.Cron.AddFunc(calendarCron, s.calendarTask); err != nil {
			return fmt.Errorf("register calendar task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("Scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

// RunSnapshotNow executes the snapshot task immediately.
func (s *Scheduler) RunSnapshotNow() {
	s.snapshotTask()
}

func (s *Scheduler) snapshotTask() {
	s.log.Info("Running daily snapshot")
	report, err := s.Reports.HealthReport(s.Ctx, 0)
	if err != nil {
		s.log.Errorf("Failed to build report for snapshot: %v", err)
		return
	}

	if err := s.Recorder.RecordSnapshot(models.NewSnapshot(report, s.now())); err != nil {
		s.log.Errorf("Failed to record snapshot: %v", err)
	}

	if !report.ShowBudgetAlert {
		return
	}
	s.mu.Lock()
	alerted := s.alert.Equal(report.CycleStart)
	s.mu.Unlock()
	if alerted {
		return
	}
	if err := s.Alerts.SendBudgetAlert(report); err != nil {
		s.log.Errorf("Failed to send budget alert: %v", err)
		return
	}
	s.mu.Lock()
	s.alert = report.CycleStart
	s.mu.Unlock()
	s.log.WithFields(logrus.Fields{
		"cycle_start":  report.CycleStart.Format("2006-01-02"),
		"used_percent": report.BudgetUsedPercent,
	}).Info("Budget alert sent")
}

func (s *Scheduler) calendarTask() {
	year := s.now().Year()
	s.log.Infof("Refreshing holiday calendar for %d-%d", year, year+1)
	if err := s.Refresher.Refresh(s.Ctx, s.Holidays, year, year+1); err != nil {
		s.log.Warnf("Holiday calendar refresh incomplete: %v", err)
	}
}
