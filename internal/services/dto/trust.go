package dto

import "time"

type TrustScoreResponse struct {
	UserID string `json:"user_id"`

	OverallScore       float64 `json:"overall_score"`
	ReviewScore        float64 `json:"review_score"`
	CompletionScore    float64 `json:"completion_score"`
	CommunicationScore float64 `json:"communication_score"`
	ReliabilityScore   float64 `json:"reliability_score"`
	VerificationScore  float64 `json:"verification_score"`

	JobsCompleted     int     `json:"jobs_completed"`
	ReviewsReceived   int     `json:"reviews_received"`
	AverageRating     float64 `json:"average_rating"`
	ResponseTimeHours float64 `json:"response_time_hours"`
	CompletionRate    float64 `json:"completion_rate"`

	IdentityVerified  bool `json:"identity_verified"`
	SkillsVerified    bool `json:"skills_verified"`
	BusinessVerified  bool `json:"business_verified"`
	BackgroundChecked bool `json:"background_checked"`

	BadgeTier  string `json:"badge_tier"`
	BadgeColor string `json:"badge_color"`

	LastCalculatedAt time.Time `json:"last_calculated_at"`
}

// BatchRecalcResult reports the outcome of a full recalculation run.
type BatchRecalcResult struct {
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}
