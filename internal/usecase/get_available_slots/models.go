package get_available_slots

import (
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
)

// Options параметры сетки слотов
type Options struct {
	Location   *time.Location
	SlotLabels []string
}

// Request модель запроса на получение доступных слотов
type Request struct {
	Date      string // YYYY-MM-DD
	ServiceID *int64 // опционально, только для проверки и отображения услуги
}

// Response модель ответа со списком слотов
type Response struct {
	Date    string
	Service *domain.Service
	Slots   []domain.AvailableSlot
}

// AvailableCount возвращает количество свободных слотов
func (r *Response) AvailableCount() int {
	n := 0
	for i := range r.Slots {
		if r.Slots[i].IsAvailable() {
			n++
		}
	}
	return n
}
