package domain

import "github.com/m04kA/AutoBooker-Service/pkg/types"

// SlotState explains why a slot is or isn't bookable
type SlotState string

const (
	SlotFree   SlotState = "free"
	SlotTaken  SlotState = "taken"
	SlotPassed SlotState = "passed"
)

// AvailableSlot represents one slot label on a given date
type AvailableSlot struct {
	Time  types.TimeString
	State SlotState
}

// IsAvailable returns true if the slot can be booked
func (s *AvailableSlot) IsAvailable() bool {
	return s.State == SlotFree
}
