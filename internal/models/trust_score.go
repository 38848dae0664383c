package models

import (
	"time"

	"gorm.io/datatypes"
)

// TrustScore is the single reputation row per user. Every
// recalculation fully replaces it (upsert, last write wins); there are
// no incremental fields.
type TrustScore struct {
	UserID string `gorm:"type:uuid;primaryKey" json:"user_id"`

	OverallScore       float64 `gorm:"not null;default:0" json:"overall_score"`
	ReviewScore        float64 `gorm:"not null;default:0" json:"review_score"`
	CompletionScore    float64 `gorm:"not null;default:0" json:"completion_score"`
	CommunicationScore float64 `gorm:"not null;default:0" json:"communication_score"`
	ReliabilityScore   float64 `gorm:"not null;default:0" json:"reliability_score"`
	VerificationScore  float64 `gorm:"not null;default:0" json:"verification_score"`

	JobsCompleted     int     `gorm:"default:0" json:"jobs_completed"`
	ReviewsReceived   int     `gorm:"default:0" json:"reviews_received"`
	AverageRating     float64 `gorm:"default:0" json:"average_rating"`
	ResponseTimeHours float64 `gorm:"default:0" json:"response_time_hours"`
	CompletionRate    float64 `gorm:"default:0" json:"completion_rate"`

	IdentityVerified  bool `gorm:"default:false" json:"identity_verified"`
	SkillsVerified    bool `gorm:"default:false" json:"skills_verified"`
	BusinessVerified  bool `gorm:"default:false" json:"business_verified"`
	BackgroundChecked bool `gorm:"default:false" json:"background_checked"`

	BadgeTier  string `json:"badge_tier"`
	BadgeColor string `json:"badge_color"`

	// Input snapshot the components were derived from, kept for
	// debugging score changes.
	ScoreBreakdown datatypes.JSON `json:"score_breakdown,omitempty"`

	LastCalculatedAt time.Time `json:"last_calculated_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
