package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooking_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPendingReview, StatusConfirmed, true},
		{StatusPendingReview, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPendingReview, true},
		{StatusCancelled, StatusCancelled, true},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPendingReview, false},
		{StatusConfirmed, BookingStatus("pending"), false},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.from}
		assert.Equal(t, tt.want, b.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestBooking_OccupiesSlot(t *testing.T) {
	b := &Booking{Date: "2030-01-01", Time: "10:00", Status: StatusConfirmed}

	assert.True(t, b.OccupiesSlot("2030-01-01", "10:00"))
	assert.False(t, b.OccupiesSlot("2030-01-01", "11:00"))

	b.Status = StatusCancelled
	assert.False(t, b.OccupiesSlot("2030-01-01", "10:00"))
}

func TestBooking_CloneIsDeep(t *testing.T) {
	b := &Booking{
		Service:  Service{Features: []string{"a"}},
		Customer: Customer{Preferences: map[string]string{"lang": "fr"}},
		Pricing:  CalculatePricing(150, true, false),
	}

	c := b.Clone()
	c.Service.Features[0] = "b"
	c.Customer.Preferences["lang"] = "en"
	c.Pricing.Discounts[0].Percent = 99

	assert.Equal(t, "a", b.Service.Features[0])
	assert.Equal(t, "fr", b.Customer.Preferences["lang"])
	assert.Equal(t, 10, b.Pricing.Discounts[0].Percent)
}

func TestIntegrations_Apply(t *testing.T) {
	var i Integrations

	i.Apply(IntegrationOutcome{Channel: ChannelEmail, Success: true})
	i.Apply(IntegrationOutcome{Channel: ChannelSMS, Success: false})
	i.Apply(IntegrationOutcome{Channel: ChannelPayment, Success: true, Reference: "pi_123"})

	assert.True(t, i.EmailSent)
	assert.False(t, i.SMSSent)
	assert.False(t, i.CalendarSynced)
	assert.True(t, i.PaymentCreated)
	assert.Equal(t, "pi_123", i.PaymentIntentID)
}

func TestComputeStats(t *testing.T) {
	bookings := []*Booking{
		{Status: StatusConfirmed, Pricing: Pricing{FinalPrice: 150}},
		{Status: StatusConfirmed, Pricing: Pricing{FinalPrice: 128}},
		{Status: StatusPendingReview, Pricing: Pricing{FinalPrice: 250}},
		{Status: StatusCancelled, Pricing: Pricing{FinalPrice: 300}},
	}

	stats := ComputeStats(bookings)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Confirmed)
	assert.Equal(t, 1, stats.PendingReview)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Equal(t, 278, stats.TotalRevenue)
	assert.InDelta(t, 207.0, stats.AverageBookingValue, 0.001)

	assert.Equal(t, BookingStats{}, ComputeStats(nil))
}
