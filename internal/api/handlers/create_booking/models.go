package create_booking

import (
	"net/http"
	"strings"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"
	createBooking "github.com/m04kA/AutoBooker-Service/internal/usecase/create_booking"
)

const sourceChannel = "web_booking"

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Service     *ServiceRef       `json:"service"`
	Date        string            `json:"date"` // "2030-01-15"
	Time        string            `json:"time"` // "10:00"
	Customer    CustomerRequest   `json:"customer"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// ServiceRef ссылка на услугу каталога
type ServiceRef struct {
	ID int64 `json:"id"`
}

// CustomerRequest контактные данные клиента
type CustomerRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Company     string `json:"company,omitempty"`
	Message     string `json:"message,omitempty"`
	Notes       string `json:"notes,omitempty"`
	IsReturning bool   `json:"isReturning"`
	IsFirstTime bool   `json:"isFirstTime"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Message string                  `json:"message"`
	Booking *models.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(httpReq *http.Request) *createBooking.Request {
	var serviceID int64
	if r.Service != nil {
		serviceID = r.Service.ID
	}

	// message приходит из формы на сайте, notes из API
	notes := r.Customer.Notes
	if strings.TrimSpace(notes) == "" {
		notes = r.Customer.Message
	}

	return &createBooking.Request{
		ServiceID: serviceID,
		Date:      r.Date,
		Time:      r.Time,
		Customer: createBooking.CustomerInput{
			FirstName:   r.Customer.FirstName,
			LastName:    r.Customer.LastName,
			Email:       r.Customer.Email,
			Phone:       r.Customer.Phone,
			Company:     r.Customer.Company,
			Notes:       notes,
			IsReturning: r.Customer.IsReturning,
			IsFirstTime: r.Customer.IsFirstTime,
		},
		Preferences: r.Preferences,
		Source: domain.BookingSource{
			Channel:   sourceChannel,
			UserAgent: httpReq.UserAgent(),
			IP:        clientIP(httpReq),
		},
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return "unknown"
}
