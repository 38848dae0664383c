package dto

import (
	"time"

	"prowork_backend/internal/models"
)

type CreateProjectRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	Budget      float64 `json:"budget" validate:"omitempty,gte=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3"`
}

type CreateProposalRequest struct {
	ProjectID   string  `json:"project_id" validate:"required"`
	CoverLetter string  `json:"cover_letter" validate:"omitempty,max=5000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3"`
}

type CreateServiceRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	Price       float64 `json:"price" validate:"omitempty,gte=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3"`
}

type ProjectResponse struct {
	ID          string               `json:"id"`
	ClientID    string               `json:"client_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Budget      float64              `json:"budget"`
	Currency    string               `json:"currency"`
	Status      models.ProjectStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

type ProposalResponse struct {
	ID             string                `json:"id"`
	ProjectID      string                `json:"project_id"`
	ProfessionalID string                `json:"professional_id"`
	CoverLetter    string                `json:"cover_letter"`
	Price          float64               `json:"price"`
	Currency       string                `json:"currency"`
	Status         models.ProposalStatus `json:"status"`
	CreatedAt      time.Time             `json:"created_at"`
}

type ServiceResponse struct {
	ID             string    `json:"id"`
	ProfessionalID string    `json:"professional_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	Currency       string    `json:"currency"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type ProfileResponse struct {
	UserID               string  `json:"user_id"`
	Title                string  `json:"title"`
	Bio                  string  `json:"bio"`
	City                 string  `json:"city"`
	HourlyRate           float64 `json:"hourly_rate"`
	Rating               float64 `json:"rating"`
	ReviewCount          int64   `json:"review_count"`
	AvgResponseTimeHours float64 `json:"avg_response_time_hours"`
	IsAvailable          bool    `json:"is_available"`
}
