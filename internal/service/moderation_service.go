package service

import (
	"context"
	"fmt"
	"strings"

	"campusnet/backend/internal/events"
	"campusnet/backend/internal/models"
	apperrors "campusnet/backend/pkg/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAlreadyReported = apperrors.Conflict("post already reported")
	ErrNotReported     = apperrors.Conflict("post was not reported by you")
	ErrCommentNotFound = apperrors.NotFound("comment not found")
)

// ModerationService covers reporting and the admin-only moderation actions.
type ModerationService struct {
	db *gorm.DB
	notifier
}

func NewModerationService(db *gorm.DB, publisher events.Publisher, log *zap.Logger) *ModerationService {
	return &ModerationService{db: db, notifier: newNotifier(publisher, log)}
}

// Report flags a visible post. Each user can report a post once.
func (s *ModerationService) Report(ctx context.Context, actorID, postID uint) error {
	if err := requireUsers(ctx, s.db, actorID); err != nil {
		return err
	}
	if _, err := visiblePost(s.db.WithContext(ctx), postID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PostReport{PostID: postID, UserID: actorID})
	if result.Error != nil {
		return fmt.Errorf("create report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyReported
	}

	s.notify(ctx, events.Event{Type: events.PostReported, ActorID: actorID, PostID: postID})
	return nil
}

// Unreport withdraws actor's report.
func (s *ModerationService) Unreport(ctx context.Context, actorID, postID uint) error {
	if err := s.requirePost(ctx, postID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, actorID).
		Delete(&models.PostReport{})
	if result.Error != nil {
		return fmt.Errorf("delete report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotReported
	}
	return nil
}

// ListReported returns every post with at least one report, hidden ones
// included, most reported first.
func (s *ModerationService) ListReported(ctx context.Context, page Page) ([]PostView, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.PostReport{}).Distinct("post_id").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reported posts: %w", err)
	}

	var ids []uint
	if err := db.Model(&models.PostReport{}).
		Select("post_reports.post_id").
		Joins("JOIN posts ON posts.id = post_reports.post_id").
		Group("post_reports.post_id, posts.created_at").
		Order("COUNT(*) DESC, posts.created_at DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Pluck("post_reports.post_id", &ids).Error; err != nil {
		return nil, 0, fmt.Errorf("rank reported posts: %w", err)
	}
	if len(ids) == 0 {
		return []PostView{}, total, nil
	}

	var posts []models.Post
	if err := db.Preload("User").Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("load reported posts: %w", err)
	}

	byID := make(map[uint]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	views, err := annotate(ctx, s.db, ordered, 0)
	return views, total, err
}

// ListAllPosts returns every post, hidden ones included, newest first.
func (s *ModerationService) ListAllPosts(ctx context.Context, page Page) ([]PostView, int64, error) {
	posts, total, err := paginate[models.Post](s.db.WithContext(ctx).Preload("User"), page, "created_at DESC, id DESC")
	if err != nil {
		return nil, 0, err
	}
	views, err := annotate(ctx, s.db, posts, 0)
	return views, total, err
}

// ListUsers searches users by username or name.
func (s *ModerationService) ListUsers(ctx context.Context, q string, page Page) ([]models.User, int64, error) {
	return searchUsers(s.db.WithContext(ctx), q, page)
}

// HardDelete removes a post and everything attached to it, ignoring ownership.
func (s *ModerationService) HardDelete(ctx context.Context, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, postID).Error; err != nil {
			if isRecordNotFound(err) {
				return ErrPostNotFound
			}
			return fmt.Errorf("lock post: %w", err)
		}

		for _, dependent := range []interface{}{
			&models.PostReaction{},
			&models.PostReport{},
			&models.SavedPost{},
			&models.Comment{},
		} {
			if err := tx.Where("post_id = ?", postID).Delete(dependent).Error; err != nil {
				return fmt.Errorf("delete %T: %w", dependent, err)
			}
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}

// DeleteComment removes a comment from a post.
func (s *ModerationService) DeleteComment(ctx context.Context, postID, commentID uint) error {
	if err := s.requirePost(ctx, postID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		Delete(&models.Comment{})
	if result.Error != nil {
		return fmt.Errorf("delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (s *ModerationService) requirePost(ctx context.Context, postID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return fmt.Errorf("check post: %w", err)
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}

// searchUsers matches q case-insensitively against username and name.
func searchUsers(db *gorm.DB, q string, page Page) ([]models.User, int64, error) {
	query := db
	if q = strings.TrimSpace(q); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		query = query.Where("username ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	return paginate[models.User](query, page, "username ASC")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
