package create_booking

import (
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
)

// Options параметры журнала бронирований
type Options struct {
	Location   *time.Location // часовой пояс, в котором интерпретируются дата и время слота
	SlotLabels []string       // допустимые времена начала (HH:MM)
}

// Request модель запроса на создание бронирования
type Request struct {
	ServiceID   int64
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	Customer    CustomerInput
	Preferences map[string]string
	Source      domain.BookingSource
}

// CustomerInput контактные данные клиента из запроса
type CustomerInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Company     string
	Notes       string
	IsReturning bool
	IsFirstTime bool
}
