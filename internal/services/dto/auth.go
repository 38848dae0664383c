package dto

import "prowork_backend/internal/models"

type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Name     string          `json:"name" validate:"required,max=100"`
	Role     models.UserRole `json:"role" validate:"required,oneof=client professional"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string          `json:"access_token"`
	UserID      string          `json:"user_id"`
	Role        models.UserRole `json:"role"`
}
