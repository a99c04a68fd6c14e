package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestClient(t *testing.T, sendErr error) (*Client, *captured) {
	t.Helper()

	got := &captured{}
	c := NewClient(Config{Host: "smtp.test", Port: 2525, From: "noreply@autobooker.com", DashboardURL: "https://autobooker.test/dashboard"})
	c.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		got.addr, got.from, got.to, got.msg = addr, from, to, string(msg)
		return sendErr
	}
	return c, got
}

func TestSendBookingConfirmation(t *testing.T) {
	c, got := newTestClient(t, nil)

	err := c.SendBookingConfirmation(context.Background(), BookingMessage{
		To:               "jean@example.com",
		FirstName:        "<Jean>",
		ServiceName:      "Consultation Premium IA",
		ServiceDuration:  "1h30",
		Date:             "2030-03-10",
		Time:             "10:00",
		ConfirmationCode: "AB-001-2030-3",
		Status:           "confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.test:2525", got.addr)
	assert.Equal(t, "noreply@autobooker.com", got.from)
	assert.Equal(t, []string{"jean@example.com"}, got.to)
	assert.Contains(t, got.msg, "Subject: Confirmation de votre réservation AutoBooker - AB-001-2030-3\r\n")
	assert.Contains(t, got.msg, "Réservation confirmée avec succès")
	assert.Contains(t, got.msg, "https://autobooker.test/dashboard")
	// данные клиента экранируются шаблоном
	assert.Contains(t, got.msg, "&lt;Jean&gt;")
	assert.NotContains(t, got.msg, "<Jean>")
}

func TestSendBookingConfirmation_PersonalMessage(t *testing.T) {
	c, got := newTestClient(t, nil)

	msg := BookingMessage{
		To:               "jean@example.com",
		FirstName:        "Jean",
		ServiceName:      "Formation Équipe IA",
		Date:             "2030-03-10",
		Time:             "14:00",
		ConfirmationCode: "AB-002-2030-4",
		Status:           "pending_review",
	}
	require.NoError(t, c.SendBookingConfirmation(context.Background(), msg))
	assert.NotContains(t, got.msg, "white-space: pre-line")

	msg.PersonalMessage = "Nous avons hâte de vous accueillir <b>Jean</b> !"
	require.NoError(t, c.SendBookingConfirmation(context.Background(), msg))
	assert.Contains(t, got.msg, "Nous avons hâte de vous accueillir &lt;b&gt;Jean&lt;/b&gt; !")
	assert.Contains(t, got.msg, "en cours de validation")
}

func TestSend_Errors(t *testing.T) {
	c, _ := newTestClient(t, errors.New("550 mailbox unavailable"))

	err := c.Send(context.Background(), "jean@example.com", "s", "b")
	assert.ErrorIs(t, err, ErrSendFailed)

	err = c.Send(context.Background(), "jean@example.com\r\nBcc: x@y.z", "s", "b")
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = c.Send(ctx, "jean@example.com", "s", "b")
	assert.ErrorIs(t, err, ErrSendFailed)
}
