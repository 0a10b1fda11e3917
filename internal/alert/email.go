package alert

import (
	"context"
	"fmt"
	"net/smtp"

	"GoalSentinel/internal/model"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// SMTPConfig holds everything needed to send alert mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// EmailNotifier delivers alerts over SMTP.
type EmailNotifier struct {
	cfg SMTPConfig
	log *logrus.Logger
}

func NewEmailNotifier(cfg SMTPConfig, log *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, log: log}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Deliver(_ context.Context, a *model.Alert) error {
	e := email.NewEmail()
	e.From = n.cfg.From
	e.To = []string{n.cfg.To}
	e.Subject = fmt.Sprintf("[GoalSentinel] %s alert for %s (risk %d)", a.State, a.UserID, a.RiskScore)
	e.Text = []byte(FormatAlertPlain(a))

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("send alert mail: %w", err)
	}

	n.log.WithField("user_id", a.UserID).Infof("alert mail sent: %s", e.Subject)
	return nil
}

// NoopNotifier swallows alerts when no transport is configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (*NoopNotifier) Name() string { return "noop" }

func (*NoopNotifier) Deliver(_ context.Context, _ *model.Alert) error { return nil }
