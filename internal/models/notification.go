package models

import "time"

type Notification struct {
	BaseModel
	UserID string     `gorm:"not null;index" json:"user_id"`
	Type   string     `gorm:"not null" json:"type"`
	Title  string     `gorm:"not null" json:"title"`
	Body   string     `json:"body"`
	IsRead bool       `gorm:"default:false" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}
