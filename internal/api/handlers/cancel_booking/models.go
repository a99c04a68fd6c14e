package cancel_booking

import "github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	Message string                  `json:"message"`
	Booking *models.BookingResponse `json:"booking"`
}
