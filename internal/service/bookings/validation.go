package bookings

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"
	"github.com/m04kA/AutoBooker-Service/pkg/types"
)

// toDomainFilter валидирует фильтры и пагинацию списка
func toDomainFilter(req *models.ListBookingsRequest) (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		Limit:  domain.DefaultListLimit,
		Offset: 0,
	}
	if req == nil {
		return filter, nil
	}

	if req.Limit != nil {
		if *req.Limit < 1 || *req.Limit > domain.MaxListLimit {
			return filter, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, domain.MaxListLimit)
		}
		filter.Limit = *req.Limit
	}

	if req.Offset != nil {
		if *req.Offset < 0 {
			return filter, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
		}
		filter.Offset = *req.Offset
	}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			return filter, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}

	if req.Date != nil {
		date := strings.TrimSpace(*req.Date)
		if _, err := time.Parse(domain.DateFormat, date); err != nil {
			return filter, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		filter.Date = &date
	}

	if req.CustomerEmail != nil {
		email := strings.ToLower(strings.TrimSpace(*req.CustomerEmail))
		if email != "" {
			filter.CustomerEmail = &email
		}
	}

	return filter, nil
}

// validateUpdate проверяет форматы полей обновления
func (s *Service) validateUpdate(req *models.UpdateBookingRequest) (*updatePatch, error) {
	if req == nil || req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	patch := &updatePatch{}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		patch.status = &status
	}

	if req.Date != nil {
		date := strings.TrimSpace(*req.Date)
		if _, err := time.Parse(domain.DateFormat, date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		patch.date = &date
	}

	if req.Time != nil {
		t, err := types.NewTimeStringFromString(*req.Time)
		if err != nil {
			return nil, fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
		}
		if !s.isSlotLabel(t) {
			return nil, fmt.Errorf("%w: time %s is not a bookable slot", ErrInvalidInput, t)
		}
		patch.time = &t
	}

	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		if utf8.RuneCountInString(notes) > domain.MaxNotesLength {
			return nil, fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		patch.notes = &notes
	}

	return patch, nil
}

func (s *Service) isSlotLabel(t types.TimeString) bool {
	for _, l := range s.slotLabels {
		if string(t) == l {
			return true
		}
	}
	return false
}
