package events

import (
	"context"
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
)

// Topic имя события жизненного цикла бронирования
type Topic string

const (
	TopicBookingCreated   Topic = "booking.created"
	TopicBookingUpdated   Topic = "booking.updated"
	TopicBookingCancelled Topic = "booking.cancelled"
)

// Event событие, публикуемое после коммита изменения в журнале.
// Booking всегда отдельная копия: обработчики не делят состояние ни с журналом, ни друг с другом.
type Event struct {
	Topic      Topic
	Booking    *domain.Booking
	OccurredAt time.Time
}

// Handler обработчик события
type Handler func(ctx context.Context, event Event) error
