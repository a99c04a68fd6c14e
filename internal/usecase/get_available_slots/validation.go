package get_available_slots

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (string, error) {
	if req == nil {
		return "", fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		return "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if _, err := time.Parse(domain.DateFormat, date); err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return "", fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	return date, nil
}

// buildSlots размечает каждую метку сетки: прошедшая, занятая или свободная
func buildSlots(date string, labels []string, bookings []*domain.Booking, now time.Time, loc *time.Location) ([]domain.AvailableSlot, error) {
	taken := make(map[types.TimeString]bool, len(bookings))
	for _, b := range bookings {
		if b.IsActive() && b.Date == date {
			taken[b.Time] = true
		}
	}

	slots := make([]domain.AvailableSlot, 0, len(labels))
	for _, label := range labels {
		t := types.TimeString(label)
		startsAt, err := t.On(date, loc)
		if err != nil {
			return nil, err
		}

		state := domain.SlotFree
		switch {
		case !startsAt.After(now):
			state = domain.SlotPassed
		case taken[t]:
			state = domain.SlotTaken
		}
		slots = append(slots, domain.AvailableSlot{Time: t, State: state})
	}
	return slots, nil
}
