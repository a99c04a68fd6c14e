package sms

// Config учетные данные Twilio
type Config struct {
	BaseURL    string // https://api.twilio.com
	AccountSID string
	AuthToken  string
	From       string
}

// Message ответ Messages API
type Message struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
}

// ErrorResponse модель ошибки от Twilio
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// BookingMessage данные для SMS подтверждения
type BookingMessage struct {
	To               string
	CustomerName     string
	ServiceName      string
	Date             string
	Time             string
	ConfirmationCode string
}
