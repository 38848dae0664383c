package dto

import (
	"time"

	"prowork_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

type CreateJobRequest struct {
	ProjectID      string     `json:"project_id" validate:"required"`
	ProposalID     string     `json:"proposal_id" validate:"required"`
	ProfessionalID string     `json:"professional_id" validate:"required"`
	Title          string     `json:"title" validate:"required,max=200"`
	Description    string     `json:"description" validate:"omitempty,max=5000"`
	AgreedPrice    float64    `json:"agreed_price" validate:"required,gt=0"`
	Currency       string     `json:"currency" validate:"omitempty,len=3"`
	DeliveryDate   *time.Time `json:"delivery_date,omitempty"`
}

type UpdateJobStatusRequest struct {
	Status   models.JobStatus `json:"status" validate:"required,oneof=not_started in_progress milestone_review completed cancelled disputed"`
	Progress *int             `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
	Message  string           `json:"message,omitempty" validate:"omitempty,max=1000"`
}

type CreateMilestoneRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	Amount      float64    `json:"amount" validate:"omitempty,gte=0"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// ======================
// Response DTOs
// ======================

type JobResponse struct {
	ID                 string           `json:"id"`
	ProjectID          string           `json:"project_id"`
	ProposalID         string           `json:"proposal_id"`
	ClientID           string           `json:"client_id"`
	ProfessionalID     string           `json:"professional_id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	AgreedPrice        float64          `json:"agreed_price"`
	Currency           string           `json:"currency"`
	Status             models.JobStatus `json:"status"`
	ProgressPercentage int              `json:"progress_percentage"`
	DeliveryDate       *time.Time       `json:"delivery_date,omitempty"`
	StartedAt          *time.Time       `json:"started_at,omitempty"`
	CompletedAt        *time.Time       `json:"completed_at,omitempty"`
	CancelledAt        *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type JobListResponse struct {
	Jobs       []*JobResponse `json:"jobs"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

type MilestoneResponse struct {
	ID               string     `json:"id"`
	JobID            string     `json:"job_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Amount           float64    `json:"amount"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	ApprovedByClient bool       `json:"approved_by_client"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type StatusUpdateResponse struct {
	ID         string           `json:"id"`
	JobID      string           `json:"job_id"`
	StatusFrom models.JobStatus `json:"status_from"`
	StatusTo   models.JobStatus `json:"status_to"`
	ActorID    string           `json:"actor_id"`
	Message    string           `json:"message,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
