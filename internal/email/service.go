package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/clinic-api/internal/model"
)

// Service sends booking notification mail. Sends are best effort: booking
// never fails because SMTP did.
type Service interface {
	SendBookingConfirmation(ctx context.Context, to string, apt *model.Appointment, doctorName string) error
	SendBookingCancelled(ctx context.Context, to string, apt *model.Appointment, doctorName string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewService(cfg Config) Service {
	return &smtpService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to string, apt *model.Appointment, doctorName string) error {
	body := fmt.Sprintf(
		"Your appointment with %s on %s has been confirmed.\n\nReason: %s\nPrice: %s",
		doctorName,
		apt.Date.Format(time.RFC1123),
		apt.Reason,
		apt.Price.String(),
	)
	return s.send(to, "Appointment confirmed", body)
}

func (s *smtpService) SendBookingCancelled(ctx context.Context, to string, apt *model.Appointment, doctorName string) error {
	body := fmt.Sprintf(
		"Your appointment with %s on %s has been cancelled.",
		doctorName,
		apt.Date.Format(time.RFC1123),
	)
	return s.send(to, "Appointment cancelled", body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
