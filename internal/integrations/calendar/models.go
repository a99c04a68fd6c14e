package calendar

import "time"

// Action тип изменения события календаря
type Action string

const (
	ActionUpsert Action = "upsert"
	ActionCancel Action = "cancel"
)

// Attendee участник события
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Event тело вебхука синхронизации
type Event struct {
	Action           Action    `json:"action"`
	BookingID        int64     `json:"bookingId"`
	ConfirmationCode string    `json:"confirmationCode"`
	Title            string    `json:"title"`
	Status           string    `json:"status"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Attendee         Attendee  `json:"attendee"`
	Notes            string    `json:"notes,omitempty"`
}
