package domain

import (
	"time"

	"github.com/m04kA/AutoBooker-Service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPendingReview BookingStatus = "pending_review"
	StatusConfirmed     BookingStatus = "confirmed"
	StatusCancelled     BookingStatus = "cancelled"
)

// IsValid reports whether the status is one of the known values
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPendingReview, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Customer is the contact data embedded into a booking
type Customer struct {
	ID          string // synthetic, used only for filtering
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Company     string
	Notes       string
	IsReturning bool
	IsFirstTime bool
	Preferences map[string]string
}

// FullName returns "First Last"
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Integrations records which side channels fired successfully for a booking
type Integrations struct {
	EmailSent       bool
	SMSSent         bool
	CalendarSynced  bool
	PaymentCreated  bool
	PaymentIntentID string
}

// BookingSource describes where a booking request came from
type BookingSource struct {
	Channel   string
	UserAgent string
	IP        string
}

// Booking represents a single slot reservation in the ledger
type Booking struct {
	ID               int64
	ConfirmationCode string
	Service          Service // snapshot of the catalog entry at creation
	Date             string  // YYYY-MM-DD
	Time             types.TimeString
	Status           BookingStatus
	Customer         Customer
	Pricing          Pricing
	Integrations     Integrations
	Source           BookingSource

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// OccupiesSlot reports whether the booking blocks the (date, time) pair
func (b *Booking) OccupiesSlot(date string, t types.TimeString) bool {
	return b.IsActive() && b.Date == date && b.Time == t
}

// CanTransitionTo reports whether the status change is allowed.
// Cancelled is terminal: a cancelled booking cannot become active again.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	if !next.IsValid() {
		return false
	}
	if b.Status == StatusCancelled {
		return next == StatusCancelled
	}
	return true
}

// StartsAt returns the slot start in the given location
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return b.Time.On(b.Date, loc)
}

// Clone returns a deep copy, so the caller can't mutate the stored record
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	c.Service = b.Service.Clone()
	if b.Customer.Preferences != nil {
		c.Customer.Preferences = make(map[string]string, len(b.Customer.Preferences))
		for k, v := range b.Customer.Preferences {
			c.Customer.Preferences[k] = v
		}
	}
	if b.Pricing.Discounts != nil {
		c.Pricing.Discounts = append([]Discount(nil), b.Pricing.Discounts...)
	}
	return &c
}

// BookingsFilter selects bookings for ListBookings. Nil fields are not applied.
type BookingsFilter struct {
	Status        *BookingStatus
	Date          *string
	CustomerEmail *string
	Limit         int
	Offset        int
}

// Matches reports whether the booking satisfies every set predicate
func (f BookingsFilter) Matches(b *Booking) bool {
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.Date != nil && b.Date != *f.Date {
		return false
	}
	if f.CustomerEmail != nil && b.Customer.Email != *f.CustomerEmail {
		return false
	}
	return true
}

// IntegrationChannel names a side channel fed back into Integrations
type IntegrationChannel string

const (
	ChannelEmail    IntegrationChannel = "email"
	ChannelSMS      IntegrationChannel = "sms"
	ChannelCalendar IntegrationChannel = "calendar"
	ChannelPayment  IntegrationChannel = "payment"
)

// IntegrationOutcome is the result of one side effect
type IntegrationOutcome struct {
	Channel   IntegrationChannel
	Success   bool
	Reference string // payment intent id, when the channel returns one
}

// Apply records the outcome on the flags. Failures never reset a flag already set.
func (i *Integrations) Apply(o IntegrationOutcome) {
	if !o.Success {
		return
	}
	switch o.Channel {
	case ChannelEmail:
		i.EmailSent = true
	case ChannelSMS:
		i.SMSSent = true
	case ChannelCalendar:
		i.CalendarSynced = true
	case ChannelPayment:
		i.PaymentCreated = true
		if o.Reference != "" {
			i.PaymentIntentID = o.Reference
		}
	}
}
