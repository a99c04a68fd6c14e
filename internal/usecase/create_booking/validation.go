package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/pkg/types"
)

// normalizedRequest запрос после тримминга и проверки форматов
type normalizedRequest struct {
	serviceID int64
	date      string
	time      types.TimeString
	customer  domain.Customer
}

// validateRequest проверяет обязательные поля и форматы, возвращает нормализованные данные
func validateRequest(req *Request, slotLabels []string) (*normalizedRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrMissingField)
	}

	out := &normalizedRequest{
		serviceID: req.ServiceID,
		date:      strings.TrimSpace(req.Date),
		customer: domain.Customer{
			FirstName:   strings.TrimSpace(req.Customer.FirstName),
			LastName:    strings.TrimSpace(req.Customer.LastName),
			Email:       strings.ToLower(strings.TrimSpace(req.Customer.Email)),
			Phone:       strings.TrimSpace(req.Customer.Phone),
			Company:     strings.TrimSpace(req.Customer.Company),
			Notes:       strings.TrimSpace(req.Customer.Notes),
			IsReturning: req.Customer.IsReturning,
			IsFirstTime: req.Customer.IsFirstTime,
		},
	}
	rawTime := strings.TrimSpace(req.Time)

	required := []struct {
		name  string
		empty bool
	}{
		{"service.id", out.serviceID == 0},
		{"date", out.date == ""},
		{"time", rawTime == ""},
		{"customer.firstName", out.customer.FirstName == ""},
		{"customer.lastName", out.customer.LastName == ""},
		{"customer.email", out.customer.Email == ""},
		{"customer.phone", out.customer.Phone == ""},
	}
	for _, f := range required {
		if f.empty {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}

	if out.serviceID < 0 {
		return nil, fmt.Errorf("%w: service.id must be positive", ErrInvalidInput)
	}

	if _, err := time.Parse(domain.DateFormat, out.date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	t, err := types.NewTimeStringFromString(rawTime)
	if err != nil {
		return nil, fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}
	if !isSlotLabel(t, slotLabels) {
		return nil, fmt.Errorf("%w: time %s is not a bookable slot", ErrInvalidInput, t)
	}
	out.time = t

	if utf8.RuneCountInString(out.customer.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if len(req.Preferences) > 0 {
		out.customer.Preferences = make(map[string]string, len(req.Preferences))
		for k, v := range req.Preferences {
			out.customer.Preferences[k] = v
		}
	}

	return out, nil
}

// isSlotLabel проверяет, что время входит в сетку слотов
func isSlotLabel(t types.TimeString, labels []string) bool {
	for _, l := range labels {
		if string(t) == l {
			return true
		}
	}
	return false
}

// isSlotInPast проверяет, что начало слота не позже текущего момента
func isSlotInPast(date string, t types.TimeString, now time.Time, loc *time.Location) (bool, error) {
	startsAt, err := t.On(date, loc)
	if err != nil {
		return false, err
	}
	return !startsAt.After(now), nil
}
