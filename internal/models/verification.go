package models

import "time"

// VerificationRequest is owned by the identity subsystem; the
// reputation engine only reads approved rows when aggregating.
type VerificationRequest struct {
	BaseModel
	UserID     string             `gorm:"not null;index" json:"user_id"`
	Type       VerificationType   `gorm:"not null" json:"type"`
	Status     VerificationStatus `gorm:"not null;default:'pending'" json:"status"`
	ReviewedBy *string            `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time         `json:"reviewed_at,omitempty"`
}
