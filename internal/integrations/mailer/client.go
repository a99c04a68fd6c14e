package mailer

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Client отправляет письма через SMTP
type Client struct {
	cfg      Config
	sendMail sendFunc
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg, sendMail: smtp.SendMail}
}

// Send отправляет HTML письмо одному получателю
func (c *Client) Send(ctx context.Context, to, subject, htmlBody string) error {
	to = strings.TrimSpace(to)
	if to == "" || strings.ContainsAny(to, "\r\n") {
		return ErrInvalidRecipient
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	var auth smtp.Auth
	if c.cfg.Username != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)

	msg := buildMessage(c.cfg.From, to, subject, htmlBody)

	// net/smtp не принимает контекст, отправка ограничена таймаутом соединения
	done := make(chan error, 1)
	go func() {
		done <- c.sendMail(addr, auth, c.cfg.From, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSendFailed, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrSendFailed, ctx.Err())
	}
}

// SendBookingConfirmation отправляет письмо-подтверждение бронирования
func (c *Client) SendBookingConfirmation(ctx context.Context, m BookingMessage) error {
	data := struct {
		BookingMessage
		DashboardURL string
	}{BookingMessage: m, DashboardURL: c.cfg.DashboardURL}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("%w: render template: %v", ErrInternal, err)
	}

	subject := fmt.Sprintf("Confirmation de votre réservation AutoBooker - %s", m.ConfirmationCode)
	return c.Send(ctx, m.To, subject, body.String())
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
