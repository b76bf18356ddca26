package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/tair/movie-catalog/kafka"
	"github.com/tair/movie-catalog/pkg/logger"
)

// Sender delivers a single email
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail through a plain SMTP relay
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender creates an SMTP sender. auth may be nil for relays that do
// not require it.
func NewSMTPSender(addr, from string, auth smtp.Auth) *SMTPSender {
	return &SMTPSender{addr: addr, from: from, auth: auth}
}

// Send delivers one message
func (s *SMTPSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// Handler turns registration notifications into welcome emails
type Handler struct {
	sender Sender
}

// NewHandler creates a new notification handler
func NewHandler(sender Sender) *Handler {
	return &Handler{sender: sender}
}

// HandleUserRegistered sends the welcome email for one registration event.
// Errors propagate so the event is redelivered.
func (h *Handler) HandleUserRegistered(ctx context.Context, event kafka.UserRegisteredEvent) error {
	if event.Email == "" {
		// Nothing to deliver to; do not retry
		logger.Warn(ctx).
			Str("event_id", event.EventID).
			Uint("user_id", event.UserID).
			Msg("Registration event without email, skipping")
		return nil
	}

	subject := "Welcome to the movie catalog"
	body := fmt.Sprintf("Hi %s,\n\nYour account has been created. Log in and start building your favourites list.\n", event.Username)

	if err := h.sender.Send(event.Email, subject, body); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("event_id", event.EventID).
			Uint("user_id", event.UserID).
			Msg("Failed to send welcome email")
		return err
	}

	logger.Info(ctx).
		Str("event_id", event.EventID).
		Uint("user_id", event.UserID).
		Str("email", event.Email).
		Msg("Welcome email sent")

	return nil
}
