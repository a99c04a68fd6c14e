package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/pkg/types"
)

// MemoryRepository хранилище бронирований в памяти процесса.
// Все методы отдают и принимают копии, наружу ссылки на хранимые записи не утекают.
type MemoryRepository struct {
	mu       sync.RWMutex
	bookings []*domain.Booking // в порядке вставки
	byID     map[int64]*domain.Booking
	byCode   map[string]*domain.Booking
	lastID   int64
}

// NewMemoryRepository создает пустое хранилище
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[int64]*domain.Booking),
		byCode: make(map[string]*domain.Booking),
	}
}

// NextID резервирует следующий порядковый номер бронирования
func (r *MemoryRepository) NextID(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	return r.lastID, nil
}

// Create сохраняет бронирование с заранее назначенными ID и кодом
func (r *MemoryRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if booking == nil || booking.ID <= 0 || booking.ConfirmationCode == "" {
		return nil, fmt.Errorf("%w: Create - id and confirmation code are required", ErrInvalidBooking)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[booking.ID]; ok {
		return nil, fmt.Errorf("%w: Create - id=%d", ErrDuplicateBooking, booking.ID)
	}
	if _, ok := r.byCode[booking.ConfirmationCode]; ok {
		return nil, fmt.Errorf("%w: Create - code=%s", ErrDuplicateBooking, booking.ConfirmationCode)
	}
	if booking.IsActive() && r.slotTakenLocked(booking.Date, booking.Time, 0) {
		return nil, ErrSlotNotAvailable
	}

	stored := booking.Clone()
	r.bookings = append(r.bookings, stored)
	r.byID[stored.ID] = stored
	r.byCode[stored.ConfirmationCode] = stored
	if stored.ID > r.lastID {
		r.lastID = stored.ID
	}

	return stored.Clone(), nil
}

// GetByID получает бронирование по ID
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b.Clone(), nil
}

// GetByConfirmationCode получает бронирование по коду подтверждения
func (r *MemoryRepository) GetByConfirmationCode(_ context.Context, code string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byCode[code]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b.Clone(), nil
}

// HasActiveAt проверяет, занят ли слот активным бронированием (кроме excludeID)
func (r *MemoryRepository) HasActiveAt(_ context.Context, date string, t types.TimeString, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.slotTakenLocked(date, t, excludeID), nil
}

// GetActiveByDate возвращает активные бронирования на дату
func (r *MemoryRepository) GetActiveByDate(_ context.Context, date string) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.IsActive() && b.Date == date {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

// List возвращает страницу отфильтрованных бронирований (сначала новые) и их общее число
func (r *MemoryRepository) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, int, error) {
	r.mu.RLock()
	matched := make([]*domain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if filter.Matches(b) {
			matched = append(matched, b.Clone())
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(matched)

	total := len(matched)
	return paginate(matched, filter.Offset, filter.Limit), total, nil
}

// Recent возвращает limit последних созданных бронирований
func (r *MemoryRepository) Recent(ctx context.Context, limit int) ([]*domain.Booking, error) {
	page, _, err := r.List(ctx, domain.BookingsFilter{Limit: limit})
	return page, err
}

// Stats считает агрегаты по всему хранилищу
func (r *MemoryRepository) Stats(_ context.Context) (domain.BookingStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return domain.ComputeStats(r.bookings), nil
}

// ServiceStats считает количество и выручку по каждой услуге
func (r *MemoryRepository) ServiceStats(_ context.Context) ([]domain.ServiceStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byService := make(map[int64]*domain.ServiceStats)
	for _, b := range r.bookings {
		s, ok := byService[b.Service.ID]
		if !ok {
			s = &domain.ServiceStats{ServiceID: b.Service.ID, ServiceName: b.Service.Name}
			byService[b.Service.ID] = s
		}
		s.Bookings++
		if b.Status == domain.StatusConfirmed {
			s.Revenue += b.Pricing.FinalPrice
		}
	}

	out := make([]domain.ServiceStats, 0, len(byService))
	for _, s := range byService {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServiceID < out[j].ServiceID })
	return out, nil
}

// CountActiveFrom считает активные бронирования начиная с даты (включительно)
func (r *MemoryRepository) CountActiveFrom(_ context.Context, date string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, b := range r.bookings {
		// ISO даты сравниваются лексикографически
		if b.IsActive() && b.Date >= date {
			count++
		}
	}
	return count, nil
}

// Update перезаписывает изменяемые поля бронирования (статус, дата, время, заметки, updatedAt)
func (r *MemoryRepository) Update(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[booking.ID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if booking.IsActive() && r.slotTakenLocked(booking.Date, booking.Time, booking.ID) {
		return nil, ErrSlotNotAvailable
	}

	stored.Status = booking.Status
	stored.Date = booking.Date
	stored.Time = booking.Time
	stored.Customer.Notes = booking.Customer.Notes
	stored.UpdatedAt = booking.UpdatedAt

	return stored.Clone(), nil
}

// ApplyIntegrationOutcome записывает результат побочного эффекта во флаги интеграций
func (r *MemoryRepository) ApplyIntegrationOutcome(_ context.Context, id int64, outcome domain.IntegrationOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return ErrBookingNotFound
	}
	stored.Integrations.Apply(outcome)
	return nil
}

func (r *MemoryRepository) slotTakenLocked(date string, t types.TimeString, excludeID int64) bool {
	for _, b := range r.bookings {
		if b.ID != excludeID && b.OccupiesSlot(date, t) {
			return true
		}
	}
	return false
}

// sortNewestFirst сортирует по createdAt DESC, при равенстве по ID DESC
func sortNewestFirst(bookings []*domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].ID > bookings[j].ID
	})
}

func paginate(bookings []*domain.Booking, offset, limit int) []*domain.Booking {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(bookings) {
		return []*domain.Booking{}
	}
	end := len(bookings)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return bookings[offset:end]
}
