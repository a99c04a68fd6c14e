package models

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListBookingsRequest фильтры и пагинация списка бронирований
type ListBookingsRequest struct {
	Status        *string
	Date          *string
	CustomerEmail *string
	Limit         *int
	Offset        *int
}

// UpdateBookingRequest частичное обновление: nil поля не трогаются
type UpdateBookingRequest struct {
	Status *string `json:"status,omitempty"`
	Date   *string `json:"date,omitempty"`
	Time   *string `json:"time,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// IsEmpty проверяет, что не передано ни одного поля
func (r *UpdateBookingRequest) IsEmpty() bool {
	return r.Status == nil && r.Date == nil && r.Time == nil && r.Notes == nil
}

// Response модели

// ServiceResponse услуга каталога
type ServiceResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Duration    string   `json:"duration"`
	Price       int      `json:"price"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Features    []string `json:"features,omitempty"`
	Preparation string   `json:"preparation,omitempty"`
	AutoConfirm bool     `json:"autoConfirm"`
}

// ServiceListResponse список услуг каталога
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// CustomerResponse контактные данные клиента
type CustomerResponse struct {
	ID          string            `json:"id"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Company     string            `json:"company,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	IsReturning bool              `json:"isReturning"`
	IsFirstTime bool              `json:"isFirstTime"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// DiscountResponse примененная скидка
type DiscountResponse struct {
	Type    string `json:"type"`
	Percent int    `json:"percent"`
	Label   string `json:"label"`
}

// PricingResponse расчет стоимости
type PricingResponse struct {
	OriginalPrice int                `json:"originalPrice"`
	Discounts     []DiscountResponse `json:"discounts"`
	FinalPrice    int                `json:"finalPrice"`
	Savings       int                `json:"savings"`
}

// IntegrationsResponse флаги сработавших интеграций
type IntegrationsResponse struct {
	EmailSent       bool   `json:"emailSent"`
	SMSSent         bool   `json:"smsSent"`
	CalendarSynced  bool   `json:"calendarSynced"`
	PaymentCreated  bool   `json:"paymentCreated"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID               int64                `json:"id"`
	ConfirmationCode string               `json:"confirmationCode"`
	Service          ServiceResponse      `json:"service"`
	Date             string               `json:"date"` // "2030-01-01"
	Time             string               `json:"time"` // "10:00"
	Status           string               `json:"status"`
	Customer         CustomerResponse     `json:"customer"`
	Pricing          PricingResponse      `json:"pricing"`
	Integrations     IntegrationsResponse `json:"integrations"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StatsResponse агрегаты по всему журналу
type StatsResponse struct {
	Total               int     `json:"total"`
	Confirmed           int     `json:"confirmed"`
	PendingReview       int     `json:"pendingReview"`
	Cancelled           int     `json:"cancelled"`
	TotalRevenue        int     `json:"totalRevenue"`
	AverageBookingValue float64 `json:"averageBookingValue"`
}

// PaginationResponse параметры страницы
type PaginationResponse struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// BookingListResponse страница бронирований со статистикой
type BookingListResponse struct {
	Bookings   []BookingResponse  `json:"bookings"`
	Pagination PaginationResponse `json:"pagination"`
	Stats      StatsResponse      `json:"stats"`
}

// ServiceStatsResponse разбивка по услуге
type ServiceStatsResponse struct {
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	Bookings    int    `json:"bookings"`
	Revenue     int    `json:"revenue"`
}

// DashboardResponse данные для дашборда
type DashboardResponse struct {
	Stats            StatsResponse          `json:"stats"`
	RecentBookings   []BookingResponse      `json:"recentBookings"`
	ServiceBreakdown []ServiceStatsResponse `json:"serviceBreakdown"`
	UpcomingBookings int                    `json:"upcomingBookings"`
}

// Методы конвертации

// FromDomainService конвертирует услугу каталога в DTO
func FromDomainService(s domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Duration:    s.Duration,
		Price:       s.Price,
		Description: s.Description,
		Category:    string(s.Category),
		Features:    s.Features,
		Preparation: s.Preparation,
		AutoConfirm: s.AutoConfirm,
	}
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	discounts := make([]DiscountResponse, 0, len(b.Pricing.Discounts))
	for _, d := range b.Pricing.Discounts {
		discounts = append(discounts, DiscountResponse{Type: string(d.Kind), Percent: d.Percent, Label: d.Label})
	}

	return &BookingResponse{
		ID:               b.ID,
		ConfirmationCode: b.ConfirmationCode,
		Service:          FromDomainService(b.Service),
		Date:             b.Date,
		Time:             b.Time.String(),
		Status:           string(b.Status),
		Customer: CustomerResponse{
			ID:          b.Customer.ID,
			FirstName:   b.Customer.FirstName,
			LastName:    b.Customer.LastName,
			Email:       b.Customer.Email,
			Phone:       b.Customer.Phone,
			Company:     b.Customer.Company,
			Notes:       b.Customer.Notes,
			IsReturning: b.Customer.IsReturning,
			IsFirstTime: b.Customer.IsFirstTime,
			Preferences: b.Customer.Preferences,
		},
		Pricing: PricingResponse{
			OriginalPrice: b.Pricing.OriginalPrice,
			Discounts:     discounts,
			FinalPrice:    b.Pricing.FinalPrice,
			Savings:       b.Pricing.Savings,
		},
		Integrations: IntegrationsResponse{
			EmailSent:       b.Integrations.EmailSent,
			SMSSent:         b.Integrations.SMSSent,
			CalendarSynced:  b.Integrations.CalendarSynced,
			PaymentCreated:  b.Integrations.PaymentCreated,
			PaymentIntentID: b.Integrations.PaymentIntentID,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// FromDomainBookings конвертирует список domain моделей в DTO
func FromDomainBookings(bookings []*domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		if resp := FromDomainBooking(b); resp != nil {
			out = append(out, *resp)
		}
	}
	return out
}

// FromDomainStats конвертирует агрегаты в DTO
func FromDomainStats(s domain.BookingStats) StatsResponse {
	return StatsResponse{
		Total:               s.Total,
		Confirmed:           s.Confirmed,
		PendingReview:       s.PendingReview,
		Cancelled:           s.Cancelled,
		TotalRevenue:        s.TotalRevenue,
		AverageBookingValue: s.AverageBookingValue,
	}
}

// FromDomainServiceStats конвертирует разбивку по услугам в DTO
func FromDomainServiceStats(stats []domain.ServiceStats) []ServiceStatsResponse {
	out := make([]ServiceStatsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, ServiceStatsResponse{
			ServiceID:   s.ServiceID,
			ServiceName: s.ServiceName,
			Bookings:    s.Bookings,
			Revenue:     s.Revenue,
		})
	}
	return out
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(strings.TrimSpace(status))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
