package dto

import (
	"time"

	"prowork_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

type CreateReviewRequest struct {
	ServiceID      *string `json:"service_id,omitempty"`
	JobID          *string `json:"job_id,omitempty"`
	ProfessionalID string  `json:"professional_id" validate:"required"`
	Rating         int     `json:"rating" validate:"required,min=1,max=5"`

	CommunicationRating *int `json:"communication_rating,omitempty" validate:"omitempty,min=1,max=5"`
	QualityRating       *int `json:"quality_rating,omitempty" validate:"omitempty,min=1,max=5"`
	TimelinessRating    *int `json:"timeliness_rating,omitempty" validate:"omitempty,min=1,max=5"`
	ValueRating         *int `json:"value_rating,omitempty" validate:"omitempty,min=1,max=5"`

	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

type UpdateReviewRequest struct {
	Rating              *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	CommunicationRating *int    `json:"communication_rating,omitempty" validate:"omitempty,min=1,max=5"`
	QualityRating       *int    `json:"quality_rating,omitempty" validate:"omitempty,min=1,max=5"`
	TimelinessRating    *int    `json:"timeliness_rating,omitempty" validate:"omitempty,min=1,max=5"`
	ValueRating         *int    `json:"value_rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment             *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type FlagReviewRequest struct {
	Reason      string `json:"reason" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type VoteHelpfulRequest struct {
	IsHelpful *bool `json:"is_helpful" validate:"required"`
}

type ModerateReviewRequest struct {
	Status models.ModerationStatus `json:"status" validate:"required,oneof=pending approved rejected flagged"`
	Notes  string                  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ======================
// Response DTOs
// ======================

type ReviewResponse struct {
	ID             string  `json:"id"`
	ServiceID      *string `json:"service_id,omitempty"`
	JobID          *string `json:"job_id,omitempty"`
	ReviewerID     string  `json:"reviewer_id"`
	ProfessionalID string  `json:"professional_id"`

	Rating              int  `json:"rating"`
	CommunicationRating *int `json:"communication_rating,omitempty"`
	QualityRating       *int `json:"quality_rating,omitempty"`
	TimelinessRating    *int `json:"timeliness_rating,omitempty"`
	ValueRating         *int `json:"value_rating,omitempty"`

	Comment          string                  `json:"comment"`
	VerifiedPurchase bool                    `json:"verified_purchase"`
	ModerationStatus models.ModerationStatus `json:"moderation_status"`
	FlaggedCount     int                     `json:"flagged_count"`
	HelpfulCount     int                     `json:"helpful_count"`
	TrustScore       float64                 `json:"trust_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewListResponse struct {
	Reviews    []*ReviewResponse `json:"reviews"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}
