package integrations

import (
	"context"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/internal/events"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/assistant"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/calendar"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/mailer"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/payment"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/sms"
)

// OutcomeRepository запись результата интеграции во флаги бронирования
type OutcomeRepository interface {
	ApplyIntegrationOutcome(ctx context.Context, bookingID int64, outcome domain.IntegrationOutcome) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Subscriber интерфейс шины событий
type Subscriber interface {
	Subscribe(topic events.Topic, name string, handler events.Handler)
}

type Mailer interface {
	SendBookingConfirmation(ctx context.Context, m mailer.BookingMessage) error
}

type SMSSender interface {
	SendBookingConfirmation(ctx context.Context, m sms.BookingMessage) (*sms.Message, error)
}

type CalendarSyncer interface {
	Sync(ctx context.Context, event calendar.Event) error
}

type PaymentCreator interface {
	CreatePaymentIntent(ctx context.Context, in payment.PaymentIntentRequest) (*payment.PaymentIntent, error)
}

type ConfirmationWriter interface {
	GenerateBookingConfirmation(ctx context.Context, p assistant.BookingPrompt) (string, error)
}

type BrokerPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Metrics учет результатов интеграций
type Metrics interface {
	IntegrationOutcome(channel string, ok bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
