package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Ledger defaults
const (
	DefaultListLimit    = 10
	MaxListLimit        = 100
	RecentBookingsLimit = 5
	MaxNotesLength      = 1000
)

// DefaultSlotLabels are the bookable times of day
var DefaultSlotLabels = []string{
	"09:00", "10:00", "11:00", "12:00",
	"14:00", "15:00", "16:00", "17:00",
}

// ActiveStatuses statuses that occupy a slot
var ActiveStatuses = []BookingStatus{
	StatusPendingReview,
	StatusConfirmed,
}
