package models

import "time"

// PostReport is a user's flag on a post. It is a count-only moderation
// signal and does not change visibility.
type PostReport struct {
	PostID    uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey;index"`
	CreatedAt time.Time
}
