package domain

// ServiceCategory groups catalog services
type ServiceCategory string

const (
	CategoryConsultation ServiceCategory = "consultation"
	CategoryTraining     ServiceCategory = "formation"
	CategoryAudit        ServiceCategory = "audit"
	CategoryWorkshop     ServiceCategory = "workshop"
)

// Service is a read-only catalog entry
type Service struct {
	ID          int64
	Name        string
	Duration    string
	Price       int // whole currency units
	Description string
	Category    ServiceCategory
	Features    []string
	Preparation string
	AutoConfirm bool
}

// InitialStatus returns the status a new booking of this service starts with
func (s Service) InitialStatus() BookingStatus {
	if s.AutoConfirm {
		return StatusConfirmed
	}
	return StatusPendingReview
}

// Clone returns a copy that doesn't share the Features slice
func (s Service) Clone() Service {
	c := s
	if s.Features != nil {
		c.Features = append([]string(nil), s.Features...)
	}
	return c
}
