package models

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `json:"name"`
	Role         UserRole   `gorm:"not null;default:'client'" json:"role"`
	Status       UserStatus `gorm:"not null;default:'active'" json:"status"`
}
