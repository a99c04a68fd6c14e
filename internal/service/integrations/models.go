package integrations

import (
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
)

const (
	brokerChannel    = "broker"
	assistantChannel = "ai"
)

// Clients внешние каналы. nil означает, что канал не настроен.
type Clients struct {
	Mailer   Mailer
	SMS      SMSSender
	Calendar CalendarSyncer
	Payment  PaymentCreator
	Broker   BrokerPublisher

	// Assistant дописывает в письмо персональный текст, без почты не используется
	Assistant ConfirmationWriter
}

// Options параметры обработчиков
type Options struct {
	Location *time.Location
}

// BookingEventMessage тело сообщения в брокере
type BookingEventMessage struct {
	Event            string    `json:"event"`
	OccurredAt       time.Time `json:"occurredAt"`
	BookingID        int64     `json:"bookingId"`
	ConfirmationCode string    `json:"confirmationCode"`
	ServiceID        int64     `json:"serviceId"`
	ServiceName      string    `json:"serviceName"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Status           string    `json:"status"`
	CustomerEmail    string    `json:"customerEmail"`
	FinalPrice       int       `json:"finalPrice"`
}

func newBookingEventMessage(topic string, occurredAt time.Time, b *domain.Booking) BookingEventMessage {
	return BookingEventMessage{
		Event:            topic,
		OccurredAt:       occurredAt.UTC(),
		BookingID:        b.ID,
		ConfirmationCode: b.ConfirmationCode,
		ServiceID:        b.Service.ID,
		ServiceName:      b.Service.Name,
		Date:             b.Date,
		Time:             b.Time.String(),
		Status:           string(b.Status),
		CustomerEmail:    b.Customer.Email,
		FinalPrice:       b.Pricing.FinalPrice,
	}
}
