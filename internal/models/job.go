package models

import "time"

// Job is created from an accepted proposal; one job per project.
// started_at/completed_at/cancelled_at are write-once: the service
// layer never overwrites them once set.
type Job struct {
	BaseModel
	ProjectID          string     `gorm:"not null;uniqueIndex" json:"project_id"`
	ProposalID         string     `gorm:"not null" json:"proposal_id"`
	ClientID           string     `gorm:"not null;index" json:"client_id"`
	ProfessionalID     string     `gorm:"not null;index" json:"professional_id"`
	Title              string     `gorm:"not null" json:"title"`
	Description        string     `json:"description"`
	AgreedPrice        float64    `gorm:"not null" json:"agreed_price"`
	Currency           string     `gorm:"size:3;default:'USD'" json:"currency"`
	Status             JobStatus  `gorm:"not null;default:'not_started';index" json:"status"`
	ProgressPercentage int        `gorm:"default:0;check:progress_percentage >= 0 AND progress_percentage <= 100" json:"progress_percentage"`
	DeliveryDate       *time.Time `json:"delivery_date,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	Milestones []JobMilestone `gorm:"foreignKey:JobID" json:"milestones,omitempty"`
}

type JobMilestone struct {
	BaseModel
	JobID            string     `gorm:"not null;index" json:"job_id"`
	Title            string     `gorm:"not null" json:"title"`
	Description      string     `json:"description"`
	Amount           float64    `json:"amount"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	Completed        bool       `gorm:"default:false" json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	ApprovedByClient bool       `gorm:"default:false" json:"approved_by_client"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
}

// JobStatusUpdate is the append-only audit trail of status transitions.
// Rows are never mutated or deleted.
type JobStatusUpdate struct {
	BaseModel
	JobID      string    `gorm:"not null;index" json:"job_id"`
	StatusFrom JobStatus `gorm:"not null" json:"status_from"`
	StatusTo   JobStatus `gorm:"not null" json:"status_to"`
	ActorID    string    `gorm:"not null" json:"actor_id"`
	Message    string    `json:"message,omitempty"`
}
