package entity

import "time"

// User represents the centralized authentication record. For doctors and
// patients the profile id equals the user id.
type User struct {
	ID           string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash string    `gorm:"type:text;not null" json:"passwordHash"`
	Role         string    `gorm:"type:varchar(20);not null;index" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
