package models

import "time"

// RelationStatus describes how a viewer relates to another user.
type RelationStatus string

const (
	RelationNone RelationStatus = "none"
	RelationSelf RelationStatus = "self"

	// RelationFriends means an accepted friend edge exists between the two users.
	RelationFriends RelationStatus = "friends"

	// RelationRequestSent means the viewer has a pending request to the other user.
	RelationRequestSent RelationStatus = "request_sent"

	// RelationRequestReceived means the other user has a pending request to the viewer.
	RelationRequestReceived RelationStatus = "request_received"
)

// FriendRequest is a pending inbound request, stored on the receiving side only.
// The composite primary key makes (FromUserID, ToUserID) a set.
type FriendRequest struct {
	FromUserID uint `gorm:"primaryKey"`
	ToUserID   uint `gorm:"primaryKey;index"`
	CreatedAt  time.Time

	FromUser User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Friendship is one symmetric friend edge. The pair is always stored with
// UserLowID < UserHighID, so each edge has exactly one row.
type Friendship struct {
	UserLowID  uint `gorm:"primaryKey"`
	UserHighID uint `gorm:"primaryKey;index"`
	CreatedAt  time.Time

	UserLow  User `gorm:"foreignKey:UserLowID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserHigh User `gorm:"foreignKey:UserHighID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// OrderedPair returns a and b in canonical friendship order.
func OrderedPair(a, b uint) (low, high uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// NewFriendship builds the canonical edge between a and b.
func NewFriendship(a, b uint) Friendship {
	low, high := OrderedPair(a, b)
	return Friendship{UserLowID: low, UserHighID: high}
}
