package get_available_slots

import (
	"strconv"

	"github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"
	getAvailableSlots "github.com/m04kA/AutoBooker-Service/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date           string                  `json:"date"`
	Service        *models.ServiceResponse `json:"service,omitempty"`
	Slots          []AvailableSlot         `json:"slots"`
	AvailableCount int                     `json:"availableCount"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"` // taken | passed
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i := range resp.Slots {
		slot := &resp.Slots[i]
		slots[i] = AvailableSlot{
			Time:      slot.Time.String(),
			Available: slot.IsAvailable(),
		}
		if !slot.IsAvailable() {
			slots[i].Reason = string(slot.State)
		}
	}

	out := &AvailableSlotsResponse{
		Date:           resp.Date,
		Slots:          slots,
		AvailableCount: resp.AvailableCount(),
	}
	if resp.Service != nil {
		svc := models.FromDomainService(*resp.Service)
		out.Service = &svc
	}
	return out
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(dateStr, serviceIDStr string) (*getAvailableSlots.Request, error) {
	req := &getAvailableSlots.Request{Date: dateStr}
	if serviceIDStr == "" {
		return req, nil
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		return nil, err
	}
	req.ServiceID = &serviceID
	return req, nil
}
