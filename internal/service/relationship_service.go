package service

import (
	"context"
	"fmt"

	"campusnet/backend/internal/events"
	"campusnet/backend/internal/models"
	apperrors "campusnet/backend/pkg/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSelfRequest      = apperrors.Validation("cannot send a friend request to yourself")
	ErrAlreadyFriends   = apperrors.Conflict("users are already friends")
	ErrRequestExists    = apperrors.Conflict("friend request already sent")
	ErrNoPendingRequest = apperrors.Conflict("no pending friend request from this user")
)

// UserList is a set of users together with its count, ids and names.
type UserList struct {
	Count int
	IDs   []uint
	Names []string
	Users []models.User
}

func newUserList(users []models.User) UserList {
	list := UserList{
		Count: len(users),
		IDs:   make([]uint, 0, len(users)),
		Names: make([]string, 0, len(users)),
		Users: users,
	}
	for _, u := range users {
		list.IDs = append(list.IDs, u.ID)
		list.Names = append(list.Names, u.Name)
	}
	return list
}

// RelationshipService maintains the friend graph. Friends are one canonical
// row per pair and requests are stored on the receiving side, so the graph
// stays symmetric without updating two records.
type RelationshipService struct {
	db *gorm.DB
	notifier
}

func NewRelationshipService(db *gorm.DB, publisher events.Publisher, log *zap.Logger) *RelationshipService {
	return &RelationshipService{db: db, notifier: newNotifier(publisher, log)}
}

// SendRequest records a pending request from actor to target.
func (s *RelationshipService) SendRequest(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return ErrSelfRequest
	}
	if err := requireUsers(ctx, s.db, actorID, targetID); err != nil {
		return err
	}

	friends, err := s.areFriends(ctx, s.db, actorID, targetID)
	if err != nil {
		return err
	}
	if friends {
		return ErrAlreadyFriends
	}

	request := models.FriendRequest{FromUserID: actorID, ToUserID: targetID}
	result := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&request)
	if result.Error != nil {
		return fmt.Errorf("create friend request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRequestExists
	}

	s.notify(ctx, events.Event{Type: events.FriendRequestSent, RecipientID: targetID, ActorID: actorID})
	return nil
}

// AcceptRequest turns the pending request from requester into a friendship.
// Removing the request and adding the edge commit together.
func (s *RelationshipService) AcceptRequest(ctx context.Context, actorID, requesterID uint) error {
	if err := requireUsers(ctx, s.db, actorID, requesterID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("from_user_id = ? AND to_user_id = ?", requesterID, actorID).
			Delete(&models.FriendRequest{})
		if result.Error != nil {
			return fmt.Errorf("delete friend request: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNoPendingRequest
		}

		// A crossed request in the other direction is settled by this accept.
		if err := tx.Where("from_user_id = ? AND to_user_id = ?", actorID, requesterID).
			Delete(&models.FriendRequest{}).Error; err != nil {
			return fmt.Errorf("delete crossed request: %w", err)
		}

		friendship := models.NewFriendship(actorID, requesterID)
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&friendship).Error; err != nil {
			return fmt.Errorf("create friendship: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(ctx, events.Event{Type: events.FriendRequestAccepted, RecipientID: requesterID, ActorID: actorID})
	return nil
}

// RejectRequest drops the pending request from requester.
func (s *RelationshipService) RejectRequest(ctx context.Context, actorID, requesterID uint) error {
	if err := requireUsers(ctx, s.db, actorID, requesterID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", requesterID, actorID).
		Delete(&models.FriendRequest{})
	if result.Error != nil {
		return fmt.Errorf("delete friend request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNoPendingRequest
	}
	return nil
}

// CancelRequest withdraws actor's outgoing request. A missing request is not
// an error.
func (s *RelationshipService) CancelRequest(ctx context.Context, actorID, targetID uint) error {
	if err := requireUsers(ctx, s.db, actorID, targetID); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", actorID, targetID).
		Delete(&models.FriendRequest{}).Error; err != nil {
		return fmt.Errorf("cancel friend request: %w", err)
	}
	return nil
}

// RemoveFriend deletes the edge between actor and other. Removing an edge
// that does not exist succeeds.
func (s *RelationshipService) RemoveFriend(ctx context.Context, actorID, otherID uint) error {
	if err := requireUsers(ctx, s.db, actorID, otherID); err != nil {
		return err
	}

	low, high := models.OrderedPair(actorID, otherID)
	if err := s.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Delete(&models.Friendship{}).Error; err != nil {
		return fmt.Errorf("delete friendship: %w", err)
	}
	return nil
}

// ListFriends returns actor's friends ordered by name.
func (s *RelationshipService) ListFriends(ctx context.Context, actorID uint) (UserList, error) {
	if err := requireUsers(ctx, s.db, actorID); err != nil {
		return UserList{}, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN friendships ON (friendships.user_low_id = users.id AND friendships.user_high_id = ?) OR (friendships.user_high_id = users.id AND friendships.user_low_id = ?)", actorID, actorID).
		Order("users.name ASC, users.id ASC").
		Find(&users).Error
	if err != nil {
		return UserList{}, fmt.Errorf("list friends: %w", err)
	}
	return newUserList(users), nil
}

// ListRequests returns the users with a pending request to actor, oldest first.
func (s *RelationshipService) ListRequests(ctx context.Context, actorID uint) (UserList, error) {
	if err := requireUsers(ctx, s.db, actorID); err != nil {
		return UserList{}, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN friend_requests ON friend_requests.from_user_id = users.id").
		Where("friend_requests.to_user_id = ?", actorID).
		Order("friend_requests.created_at ASC").
		Find(&users).Error
	if err != nil {
		return UserList{}, fmt.Errorf("list friend requests: %w", err)
	}
	return newUserList(users), nil
}

// RelationStatus describes how viewer relates to target.
func (s *RelationshipService) RelationStatus(ctx context.Context, viewerID, targetID uint) (models.RelationStatus, error) {
	if viewerID == targetID {
		return models.RelationSelf, nil
	}

	friends, err := s.areFriends(ctx, s.db, viewerID, targetID)
	if err != nil {
		return models.RelationNone, err
	}
	if friends {
		return models.RelationFriends, nil
	}

	var requests []models.FriendRequest
	err = s.db.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", viewerID, targetID, targetID, viewerID).
		Find(&requests).Error
	if err != nil {
		return models.RelationNone, fmt.Errorf("load friend requests: %w", err)
	}
	for _, r := range requests {
		if r.FromUserID == viewerID {
			return models.RelationRequestSent, nil
		}
	}
	if len(requests) > 0 {
		return models.RelationRequestReceived, nil
	}
	return models.RelationNone, nil
}

// CountFriends returns the number of friends of userID.
func (s *RelationshipService) CountFriends(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count friends: %w", err)
	}
	return count, nil
}

func (s *RelationshipService) areFriends(ctx context.Context, db *gorm.DB, a, b uint) (bool, error) {
	low, high := models.OrderedPair(a, b)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}
	return count > 0, nil
}
