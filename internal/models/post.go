package models

import "time"

const MaxPostLength = 2000

// Post is a user's post. Visibility false is a soft delete: the record stays
// but drops out of public listings and the owner's post list.
type Post struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;index"`
	Content    string    `gorm:"type:text;not null"`
	ImageRef   string    `gorm:"size:512"`
	Visibility bool      `gorm:"not null;default:true;index"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time

	User     User      `gorm:"foreignKey:UserID"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
}
