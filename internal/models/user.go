package models

import "gorm.io/gorm"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user in the system.
// Friends and pending requests live in their own tables, see friendship.go.
type User struct {
	gorm.Model
	Name           string `gorm:"size:255;not null"`
	Username       string `gorm:"size:255;unique;not null"`
	Email          string `gorm:"size:255;unique;not null"`
	PasswordHash   string `gorm:"size:255;not null"`
	Role           string `gorm:"size:50;not null;default:'user';index"`
	Department     string `gorm:"size:255"`
	GraduationYear int
	ProfileImage   string `gorm:"size:512"`
	Bio            Bio    `gorm:"embedded;embeddedPrefix:bio_"`
}
