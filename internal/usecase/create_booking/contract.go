package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/internal/events"
	"github.com/m04kA/AutoBooker-Service/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	HasActiveAt(ctx context.Context, date string, t types.TimeString, excludeID int64) (bool, error)
}

// ServiceCatalog интерфейс каталога услуг
type ServiceCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события после коммита
type EventPublisher interface {
	Publish(event events.Event) error
}

// Metrics счетчики бизнес-метрик
type Metrics interface {
	BookingCreated(status string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
