package models

import "time"

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Role         UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`

	// Relations
	Orders     []Order     `gorm:"foreignKey:OwnerID" json:"-"`
	Transports []Transport `gorm:"foreignKey:OwnerID" json:"-"`
}
