package models

import (
	"time"

	apperrors "campusnet/backend/pkg/errors"
)

type ReactionKind string

const (
	ReactionNone    ReactionKind = ""
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// ParseReactionKind accepts "like" or "dislike".
func ParseReactionKind(s string) (ReactionKind, error) {
	switch ReactionKind(s) {
	case ReactionLike, ReactionDislike:
		return ReactionKind(s), nil
	}
	return ReactionNone, apperrors.Validation("reaction must be like or dislike")
}

// PostReaction holds at most one reaction per user per post, which keeps
// likedBy and dislikedBy disjoint.
type PostReaction struct {
	PostID    uint         `gorm:"primaryKey"`
	UserID    uint         `gorm:"primaryKey;index"`
	Kind      ReactionKind `gorm:"size:10;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NextReaction returns the reaction a user holds after requesting kind while
// holding current. Requesting the held kind again removes it.
func NextReaction(current, requested ReactionKind) ReactionKind {
	if current == requested {
		return ReactionNone
	}
	return requested
}
