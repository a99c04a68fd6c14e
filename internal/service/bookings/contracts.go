package bookings

import (
	"context"
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/internal/events"
	"github.com/m04kA/AutoBooker-Service/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByConfirmationCode(ctx context.Context, code string) (*domain.Booking, error)
	HasActiveAt(ctx context.Context, date string, t types.TimeString, excludeID int64) (bool, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, int, error)
	Recent(ctx context.Context, limit int) ([]*domain.Booking, error)
	Stats(ctx context.Context) (domain.BookingStats, error)
	ServiceStats(ctx context.Context) ([]domain.ServiceStats, error)
	CountActiveFrom(ctx context.Context, date string) (int, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ServiceCatalog интерфейс каталога услуг
type ServiceCatalog interface {
	List(ctx context.Context) ([]domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события после коммита
type EventPublisher interface {
	Publish(event events.Event) error
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
