package auth

import (
	"context"
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
)

// UserRepository интерфейс хранилища учетных записей
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TokenIssuer интерфейс выпуска access-токенов
type TokenIssuer interface {
	Issue(userID int64, email, role string) (string, error)
	TTL() time.Duration
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реализация TimeProvider, возвращающая реальное время
type RealTimeProvider struct{}

func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}
