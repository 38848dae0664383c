package models

// ProfessionalProfile carries the public profile plus the
// aggregate-rating fields the moderation pipeline maintains.
type ProfessionalProfile struct {
	BaseModel
	UserID               string  `gorm:"not null;uniqueIndex" json:"user_id"`
	Title                string  `json:"title"`
	Bio                  string  `json:"bio"`
	City                 string  `json:"city"`
	HourlyRate           float64 `json:"hourly_rate"`
	Rating               float64 `gorm:"default:0" json:"rating"`
	ReviewCount          int64   `gorm:"default:0" json:"review_count"`
	AvgResponseTimeHours float64 `gorm:"default:24" json:"avg_response_time_hours"`
	IsAvailable          bool    `gorm:"default:true" json:"is_available"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
