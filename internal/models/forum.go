package models

import "time"

const (
	MaxForumTitleLength       = 200
	MinForumDescriptionLength = 10
	MaxForumDescriptionLength = 2000
)

// Forum is a discussion thread opened by an admin.
type Forum struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text;not null"`
	CreatedBy   uint      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"index"`

	Creator User        `gorm:"foreignKey:CreatedBy"`
	Posts   []ForumPost `gorm:"foreignKey:ForumID;constraint:OnDelete:CASCADE;"`
}

// ForumPost is a reply inside a forum.
type ForumPost struct {
	ID        uint   `gorm:"primaryKey"`
	ForumID   uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}

// ForumPostReaction is a user's like or dislike on a forum post. Like
// PostReaction, one row per user keeps the two sets disjoint.
type ForumPostReaction struct {
	ForumPostID uint         `gorm:"primaryKey"`
	UserID      uint         `gorm:"primaryKey;index"`
	Kind        ReactionKind `gorm:"size:10;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
