package models

import (
	"time"
)

// User is an account able to own files.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string `gorm:"type:text;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
