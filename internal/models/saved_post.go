package models

import "time"

type SavedPost struct {
	UserID    uint `gorm:"primaryKey"`
	PostID    uint `gorm:"primaryKey;index"`
	CreatedAt time.Time
}
