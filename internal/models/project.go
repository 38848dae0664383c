package models

type Project struct {
	BaseModel
	ClientID    string        `gorm:"not null;index" json:"client_id"`
	Title       string        `gorm:"not null" json:"title"`
	Description string        `json:"description"`
	Budget      float64       `json:"budget"`
	Currency    string        `gorm:"size:3;default:'USD'" json:"currency"`
	Status      ProjectStatus `gorm:"not null;default:'open'" json:"status"`

	Client User `gorm:"foreignKey:ClientID" json:"-"`
}

type Proposal struct {
	BaseModel
	ProjectID      string         `gorm:"not null;index" json:"project_id"`
	ProfessionalID string         `gorm:"not null;index" json:"professional_id"`
	CoverLetter    string         `json:"cover_letter"`
	Price          float64        `gorm:"not null" json:"price"`
	Currency       string         `gorm:"size:3;default:'USD'" json:"currency"`
	Status         ProposalStatus `gorm:"not null;default:'pending'" json:"status"`

	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// Service is a fixed-price offering a professional publishes; reviews
// may anchor to it instead of a job.
type Service struct {
	BaseModel
	ProfessionalID string  `gorm:"not null;index" json:"professional_id"`
	Title          string  `gorm:"not null" json:"title"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Currency       string  `gorm:"size:3;default:'USD'" json:"currency"`
	IsActive       bool    `gorm:"default:true" json:"is_active"`
}
