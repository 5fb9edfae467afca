package notifier

import (
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/finance-tracker/internal/config"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

func alertReport() *models.HealthReport {
	return &models.HealthReport{
		CycleStart:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CycleEnd:          time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		DaysLeft:          10,
		TotalBudget:       50000,
		TotalSpend:        45000,
		BudgetRemaining:   5000,
		SafeDailySpend:    500,
		ProjectedSpend:    67500,
		BurnRateStatus:    "High Burn",
		BudgetUsedPercent: 90,
		CategoryBreakdown: []models.CategorySpend{
			{Name: "Rent", Value: 30000},
			{Name: "Food", Value: 10000},
			{Name: "Travel", Value: 4000},
			{Name: "Books", Value: 1000},
		},
	}
}

func TestFormatBudgetAlert(t *testing.T) {
	subject, body := FormatBudgetAlert(alertReport())
	if subject != "Budget alert: 90.0% of budget used (High Burn)" {
		t.Errorf("unexpected subject %q", subject)
	}
	for _, want := range []string{"01 Mar 2024 - 31 Mar 2024", "Remaining:        5000.00", "500.00 per day for 10 days", "Rent: 30000.00", "Travel: 4000.00"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "Books") {
		t.Error("only the top three categories should be listed")
	}
}

func TestSender_SendBudgetAlert(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    "587",
		SenderEmail: "tracker@example.com",
		AlertEmail:  "me@example.com",
	}
	s := NewSender(cfg, log)

	var sent *email.Email
	var gotAddr string
	s.send = func(e *email.Email, addr string, _ smtp.Auth) error {
		sent, gotAddr = e, addr
		return nil
	}
	if err := s.SendBudgetAlert(alertReport()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotAddr != "smtp.example.com:587" || len(sent.To) != 1 || sent.To[0] != "me@example.com" {
		t.Errorf("unexpected delivery to %s %v", gotAddr, sent.To)
	}

	s.send = func(*email.Email, string, smtp.Auth) error { return errors.New("connection reset") }
	if err := s.SendBudgetAlert(alertReport()); err == nil {
		t.Error("expected send error")
	}

	disabled := NewSender(&config.Config{}, log)
	disabled.send = func(*email.Email, string, smtp.Auth) error {
		t.Error("mail disabled, nothing should be sent")
		return nil
	}
	if err := disabled.SendBudgetAlert(alertReport()); err != nil {
		t.Errorf("disabled sender should not fail: %v", err)
	}
}
