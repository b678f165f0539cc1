package models

import "time"

const MaxCommentLength = 500

// Comment is an entry on a post. The author's username and avatar are
// captured when the comment is written and are not refreshed afterwards.
type Comment struct {
	ID             uint   `gorm:"primaryKey"`
	PostID         uint   `gorm:"not null;index"`
	UserID         uint   `gorm:"not null;index"`
	AuthorUsername string `gorm:"size:255;not null"`
	AuthorAvatar   string `gorm:"size:512"`
	Content        string `gorm:"type:text;not null"`
	CreatedAt      time.Time
}
