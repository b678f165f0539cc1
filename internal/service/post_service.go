package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"campusnet/backend/internal/events"
	"campusnet/backend/internal/models"
	apperrors "campusnet/backend/pkg/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxImageRefLength = 512

var (
	ErrNotPostOwner   = apperrors.Forbidden("only the owner can delete this post")
	ErrAlreadySaved   = apperrors.Conflict("post already saved")
	ErrImageRefTooBig = apperrors.Validation("image reference must be at most 512 characters")
)

// ReactionResult is the caller's reaction state after React.
type ReactionResult struct {
	Reaction models.ReactionKind
	Likes    int64
	Dislikes int64
}

func (r ReactionResult) Liked() bool    { return r.Reaction == models.ReactionLike }
func (r ReactionResult) Disliked() bool { return r.Reaction == models.ReactionDislike }

// PostService handles posts, comments, reactions and saved posts.
type PostService struct {
	db *gorm.DB
	notifier
}

func NewPostService(db *gorm.DB, publisher events.Publisher, log *zap.Logger) *PostService {
	return &PostService{db: db, notifier: newNotifier(publisher, log)}
}

// CreatePost publishes a new visible post.
func (s *PostService) CreatePost(ctx context.Context, actorID uint, content, imageRef string) (*PostView, error) {
	content, err := boundedText(content, models.MaxPostLength, "post content")
	if err != nil {
		return nil, err
	}
	imageRef = strings.TrimSpace(imageRef)
	if len(imageRef) > maxImageRefLength {
		return nil, ErrImageRefTooBig
	}

	author, err := findUser(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}

	post := models.Post{UserID: actorID, Content: content, ImageRef: imageRef, Visibility: true}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.User = *author

	return &PostView{Post: post}, nil
}

// GetPost returns a visible post with its comments in creation order.
func (s *PostService) GetPost(ctx context.Context, viewerID, postID uint) (*PostView, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ? AND visibility = ?", postID, true).
		First(&post).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	views, err := annotate(ctx, s.db, []models.Post{post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListPublic returns visible posts, newest first.
func (s *PostService) ListPublic(ctx context.Context, viewerID uint, page Page) ([]PostView, int64, error) {
	query := s.db.WithContext(ctx).Preload("User").Where("visibility = ?", true)
	return s.listViews(ctx, query, page, viewerID)
}

// ListUserPosts returns the visible posts of ownerID, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, viewerID, ownerID uint, page Page) ([]PostView, int64, error) {
	if err := requireUsers(ctx, s.db, ownerID); err != nil {
		return nil, 0, err
	}
	query := s.db.WithContext(ctx).Preload("User").Where("user_id = ? AND visibility = ?", ownerID, true)
	return s.listViews(ctx, query, page, viewerID)
}

// CountUserPosts counts the visible posts of ownerID.
func (s *PostService) CountUserPosts(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("user_id = ? AND visibility = ?", ownerID, true).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// React applies a like or dislike. Repeating the held reaction removes it and
// the opposite reaction replaces it, so a user never holds both.
func (s *PostService) React(ctx context.Context, actorID, postID uint, kind models.ReactionKind) (*ReactionResult, error) {
	if _, err := models.ParseReactionKind(string(kind)); err != nil {
		return nil, err
	}
	if err := requireUsers(ctx, s.db, actorID); err != nil {
		return nil, err
	}

	var result ReactionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Locking the post serializes toggles on it, including a user's
		// first reaction, which has no reaction row to lock yet.
		if _, err := visiblePost(tx, postID, clause.Locking{Strength: "UPDATE"}); err != nil {
			return err
		}

		var current models.PostReaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("post_id = ? AND user_id = ?", postID, actorID).
			Take(&current).Error
		if err != nil && !isRecordNotFound(err) {
			return fmt.Errorf("load reaction: %w", err)
		}

		next := models.NextReaction(current.Kind, kind)
		if next == models.ReactionNone {
			if err := tx.Where("post_id = ? AND user_id = ?", postID, actorID).
				Delete(&models.PostReaction{}).Error; err != nil {
				return fmt.Errorf("delete reaction: %w", err)
			}
		} else {
			reaction := models.PostReaction{PostID: postID, UserID: actorID, Kind: next}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
			}).Create(&reaction).Error; err != nil {
				return fmt.Errorf("save reaction: %w", err)
			}
		}
		result.Reaction = next

		var counts []struct {
			Kind  models.ReactionKind
			Count int64
		}
		if err := tx.Model(&models.PostReaction{}).
			Select("kind, COUNT(*) AS count").
			Where("post_id = ?", postID).
			Group("kind").
			Scan(&counts).Error; err != nil {
			return fmt.Errorf("count reactions: %w", err)
		}
		for _, c := range counts {
			switch c.Kind {
			case models.ReactionLike:
				result.Likes = c.Count
			case models.ReactionDislike:
				result.Dislikes = c.Count
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Comment appends a comment. The author's username and avatar are copied
// onto the comment at write time.
func (s *PostService) Comment(ctx context.Context, actorID, postID uint, text string) (*models.Comment, error) {
	text, err := boundedText(text, models.MaxCommentLength, "comment")
	if err != nil {
		return nil, err
	}

	author, err := findUser(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}
	post, err := visiblePost(s.db.WithContext(ctx), postID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		PostID:         postID,
		UserID:         actorID,
		AuthorUsername: author.Username,
		AuthorAvatar:   author.ProfileImage,
		Content:        text,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if post.UserID != actorID {
		s.notify(ctx, events.Event{Type: events.PostCommented, RecipientID: post.UserID, ActorID: actorID, PostID: postID})
	}
	return &comment, nil
}

// SoftDelete hides the owner's post. The record is kept for moderation.
func (s *PostService) SoftDelete(ctx context.Context, actorID, postID uint) error {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if isRecordNotFound(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("load post: %w", err)
	}
	if post.UserID != actorID {
		return ErrNotPostOwner
	}
	if !post.Visibility {
		return ErrPostNotFound
	}

	result := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND visibility = ?", postID, true).
		Update("visibility", false)
	if result.Error != nil {
		return fmt.Errorf("hide post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// SavePost bookmarks a visible post for actor.
func (s *PostService) SavePost(ctx context.Context, actorID, postID uint) error {
	if err := requireUsers(ctx, s.db, actorID); err != nil {
		return err
	}
	if _, err := visiblePost(s.db.WithContext(ctx), postID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SavedPost{UserID: actorID, PostID: postID})
	if result.Error != nil {
		return fmt.Errorf("save post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlreadySaved
	}
	return nil
}

// UnsavePost removes a bookmark. A missing bookmark is not an error.
func (s *PostService) UnsavePost(ctx context.Context, actorID, postID uint) error {
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", actorID, postID).
		Delete(&models.SavedPost{}).Error; err != nil {
		return fmt.Errorf("unsave post: %w", err)
	}
	return nil
}

// ListSaved returns actor's saved posts that are still visible, most recently
// saved first.
func (s *PostService) ListSaved(ctx context.Context, actorID uint, page Page) ([]PostView, int64, error) {
	query := s.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id").
		Where("saved_posts.user_id = ? AND posts.visibility = ?", actorID, true)

	posts, total, err := paginate[models.Post](query, page, "saved_posts.created_at DESC")
	if err != nil {
		return nil, 0, err
	}
	views, err := annotate(ctx, s.db, posts, actorID)
	return views, total, err
}

func (s *PostService) listViews(ctx context.Context, query *gorm.DB, page Page, viewerID uint) ([]PostView, int64, error) {
	posts, total, err := paginate[models.Post](query, page, "posts.created_at DESC, posts.id DESC")
	if err != nil {
		return nil, 0, err
	}
	views, err := annotate(ctx, s.db, posts, viewerID)
	return views, total, err
}

// visiblePost loads a post that has not been hidden.
func visiblePost(db *gorm.DB, postID uint, locks ...clause.Expression) (*models.Post, error) {
	var post models.Post
	if err := db.Clauses(locks...).
		Where("id = ? AND visibility = ?", postID, true).
		First(&post).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}
	return &post, nil
}

func boundedText(text string, max int, field string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", apperrors.Validation(field + " must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > max {
		return "", apperrors.Validation(field + " is too long")
	}
	return trimmed, nil
}
