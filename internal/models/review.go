package models

import "time"

// Review is anchored to exactly one of ServiceID / JobID. A reviewer
// may leave at most one review per (professional, anchor).
type Review struct {
	BaseModel
	ServiceID      *string `gorm:"index;uniqueIndex:uq_review_service" json:"service_id,omitempty"`
	JobID          *string `gorm:"index;uniqueIndex:uq_review_job" json:"job_id,omitempty"`
	ReviewerID     string  `gorm:"not null;index;uniqueIndex:uq_review_service;uniqueIndex:uq_review_job" json:"reviewer_id"`
	ProfessionalID string  `gorm:"not null;index;uniqueIndex:uq_review_service;uniqueIndex:uq_review_job" json:"professional_id"`

	Rating              int  `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	CommunicationRating *int `gorm:"check:communication_rating IS NULL OR (communication_rating >= 1 AND communication_rating <= 5)" json:"communication_rating,omitempty"`
	QualityRating       *int `json:"quality_rating,omitempty"`
	TimelinessRating    *int `json:"timeliness_rating,omitempty"`
	ValueRating         *int `json:"value_rating,omitempty"`

	Comment          string `json:"comment"`
	VerifiedPurchase bool   `gorm:"default:false" json:"verified_purchase"`

	ModerationStatus ModerationStatus `gorm:"not null;default:'pending';index" json:"moderation_status"`
	ModeratedBy      *string          `json:"moderated_by,omitempty"`
	ModeratedAt      *time.Time       `json:"moderated_at,omitempty"`
	ModerationNotes  string           `json:"moderation_notes,omitempty"`

	FlaggedCount int     `gorm:"default:0" json:"flagged_count"`
	HelpfulCount int     `gorm:"default:0" json:"helpful_count"`
	TrustScore   float64 `gorm:"default:0" json:"trust_score"`
}

// ReviewFlag records one user's report against a review; duplicate
// (review, flagger) pairs are rejected.
type ReviewFlag struct {
	BaseModel
	ReviewID    string `gorm:"not null;index;uniqueIndex:uq_flag_reviewer" json:"review_id"`
	FlaggerID   string `gorm:"not null;uniqueIndex:uq_flag_reviewer" json:"flagger_id"`
	Reason      string `gorm:"not null" json:"reason"`
	Description string `json:"description,omitempty"`
}

// ReviewHelpfulVote is upsertable: a user may flip their vote and the
// stored helpful_count is always recomputed from these rows.
type ReviewHelpfulVote struct {
	BaseModel
	ReviewID  string `gorm:"not null;index;uniqueIndex:uq_vote_user" json:"review_id"`
	UserID    string `gorm:"not null;uniqueIndex:uq_vote_user" json:"user_id"`
	IsHelpful bool   `gorm:"not null" json:"is_helpful"`
}
