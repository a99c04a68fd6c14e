package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"
)

// ToServiceRequest собирает фильтры из query параметров.
// customerId оставлен для старых клиентов и означает email клиента.
func ToServiceRequest(q url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if v := q.Get("status"); v != "" {
		req.Status = &v
	}
	if v := q.Get("date"); v != "" {
		req.Date = &v
	}

	email := q.Get("customerEmail")
	if email == "" {
		email = q.Get("customerId")
	}
	if email != "" {
		req.CustomerEmail = &email
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("limit: %w", err)
		}
		req.Limit = &limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("offset: %w", err)
		}
		req.Offset = &offset
	}

	return req, nil
}
