package notifier

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/finance-tracker/internal/config"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// FormatBudgetAlert renders the subject and plain text body of a budget alert
func FormatBudgetAlert(r *models.HealthReport) (string, string) {
	subject := fmt.Sprintf("Budget alert: %.1f%% of budget used", r.BudgetUsedPercent)
	if r.BurnRateStatus != "" {
		subject += " (" + r.BurnRateStatus + ")"
	}

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	fmt.Fprintf(&b, "Your budget cycle %s - %s has used %.1f%% of its budget.\n\n",
		r.CycleStart.Format("02 Jan 2006"), r.CycleEnd.Format("02 Jan 2006"), r.BudgetUsedPercent)
	fmt.Fprintf(&b, "Budget:           %.2f\n", r.TotalBudget)
	fmt.Fprintf(&b, "Spent:            %.2f\n", r.TotalSpend)
	fmt.Fprintf(&b, "Remaining:        %.2f\n", r.BudgetRemaining)
	fmt.Fprintf(&b, "Safe to spend:    %.2f per day for %d days\n", r.SafeDailySpend, r.DaysLeft)
	fmt.Fprintf(&b, "Projected spend:  %.2f\n", r.ProjectedSpend)

	if len(r.CategoryBreakdown) > 0 {
		b.WriteString("\nTop categories:\n")
		for i, c := range r.CategoryBreakdown {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "  %s: %.2f\n", c.Name, c.Value)
		}
	}
	b.WriteString("\nBest regards,\nFinance Tracker")
	return subject, b.String()
}

// SendBudgetAlert emails the budget alert for r to the configured recipient
func (s *Sender) SendBudgetAlert(r *models.HealthReport) error {
	if !s.cfg.MailEnabled() {
		return nil
	}
	subject, body := FormatBudgetAlert(r)

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.AlertEmail}
	e.Subject = subject
	e.Text = []byte(body)

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send budget alert to %s: %v", s.cfg.AlertEmail, err)
		return fmt.Errorf("failed to send budget alert: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.AlertEmail, e.Subject)
	return nil
}
