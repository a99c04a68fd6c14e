package login

import "github.com/m04kA/AutoBooker-Service/internal/service/auth/models"

// LoginResponse HTTP response model
type LoginResponse struct {
	Message string `json:"message"`
	*models.AuthResponse
}
