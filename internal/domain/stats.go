package domain

// BookingStats is computed over the whole ledger, regardless of filters
type BookingStats struct {
	Total               int
	Confirmed           int
	PendingReview       int
	Cancelled           int
	TotalRevenue        int // sum of FinalPrice over confirmed bookings
	AverageBookingValue float64
}

// ServiceStats is the per-service breakdown used by the dashboard
type ServiceStats struct {
	ServiceID   int64
	ServiceName string
	Bookings    int
	Revenue     int // confirmed only
}

// ComputeStats aggregates the given bookings
func ComputeStats(bookings []*Booking) BookingStats {
	var (
		stats    BookingStats
		sumFinal int
	)
	for _, b := range bookings {
		stats.Total++
		sumFinal += b.Pricing.FinalPrice
		switch b.Status {
		case StatusConfirmed:
			stats.Confirmed++
			stats.TotalRevenue += b.Pricing.FinalPrice
		case StatusPendingReview:
			stats.PendingReview++
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	if stats.Total > 0 {
		stats.AverageBookingValue = float64(sumFinal) / float64(stats.Total)
	}
	return stats
}
