package update_booking

import "github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"

// UpdateBookingResponse HTTP response model
type UpdateBookingResponse struct {
	Message string                  `json:"message"`
	Booking *models.BookingResponse `json:"booking"`
}
