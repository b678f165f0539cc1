package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"campusnet/backend/internal/models"
	apperrors "campusnet/backend/pkg/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const MaxSearchResults = 50

var (
	ErrForumNotFound     = apperrors.NotFound("forum not found")
	ErrForumPostNotFound = apperrors.NotFound("forum post not found")
	ErrEmptySearch       = apperrors.Validation("search query must not be empty")
)

// ForumView is a forum with its number of posts.
type ForumView struct {
	Forum     models.Forum
	PostCount int64
}

// ForumPostView is a forum post with its reaction counters.
type ForumPostView struct {
	Post         models.ForumPost
	Likes        int64
	Dislikes     int64
	LikedByMe    bool
	DislikedByMe bool
}

// ForumService manages admin-created forums and the posts inside them.
type ForumService struct {
	db       *gorm.DB
	searcher Searcher
	log      *zap.Logger
}

func NewForumService(db *gorm.DB, searcher Searcher, log *zap.Logger) *ForumService {
	if searcher == nil {
		searcher = NopSearcher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ForumService{db: db, searcher: searcher, log: log}
}

// CreateForum opens a forum. The forum is only kept if it could be indexed.
func (s *ForumService) CreateForum(ctx context.Context, adminID uint, title, description string) (*models.Forum, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, apperrors.Validation("forum title must not be empty")
	}
	if utf8.RuneCountInString(title) > models.MaxForumTitleLength {
		return nil, apperrors.Validation("forum title is too long")
	}
	if n := utf8.RuneCountInString(description); n < models.MinForumDescriptionLength || n > models.MaxForumDescriptionLength {
		return nil, apperrors.Validation(fmt.Sprintf("forum description must be between %d and %d characters",
			models.MinForumDescriptionLength, models.MaxForumDescriptionLength))
	}

	creator, err := findUser(ctx, s.db, adminID)
	if err != nil {
		return nil, err
	}

	forum := models.Forum{Title: title, Description: description, CreatedBy: adminID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&forum).Error; err != nil {
			return fmt.Errorf("create forum: %w", err)
		}
		if err := s.searcher.Index(ctx, forum); err != nil {
			return fmt.Errorf("index forum: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	forum.Creator = *creator
	return &forum, nil
}

// ListForums returns forums, newest first.
func (s *ForumService) ListForums(ctx context.Context, page Page) ([]ForumView, int64, error) {
	forums, total, err := paginate[models.Forum](s.db.WithContext(ctx).Preload("Creator"), page, "created_at DESC, id DESC")
	if err != nil {
		return nil, 0, err
	}
	views, err := s.forumViews(ctx, forums)
	return views, total, err
}

// GetForum returns one forum.
func (s *ForumService) GetForum(ctx context.Context, forumID uint) (*ForumView, error) {
	forum, err := s.findForum(s.db.WithContext(ctx).Preload("Creator"), forumID)
	if err != nil {
		return nil, err
	}
	views, err := s.forumViews(ctx, []models.Forum{*forum})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// SearchForums asks the index for forums matching q. Without an index it
// matches q against titles and descriptions.
func (s *ForumService) SearchForums(ctx context.Context, q string, limit int) ([]models.Forum, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptySearch
	}
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	db := s.db.WithContext(ctx).Preload("Creator")

	ids, err := s.searcher.Search(ctx, q, limit)
	if errors.Is(err, ErrSearchUnavailable) {
		pattern := "%" + escapeLike(q) + "%"
		var forums []models.Forum
		if err := db.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern).
			Order("created_at DESC, id DESC").
			Limit(limit).
			Find(&forums).Error; err != nil {
			return nil, fmt.Errorf("match forums: %w", err)
		}
		return forums, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search forums: %w", err)
	}
	if len(ids) == 0 {
		return []models.Forum{}, nil
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	var found []models.Forum
	if err := db.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("load forums: %w", err)
	}
	byID := make(map[uint]models.Forum, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	// The index can lag behind deletes, so unknown ids are skipped
	forums := make([]models.Forum, 0, len(ids))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			forums = append(forums, f)
		}
	}
	return forums, nil
}

// DeleteForum removes a forum with its posts and their reactions.
func (s *ForumService) DeleteForum(ctx context.Context, forumID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findForum(tx.Clauses(clause.Locking{Strength: "UPDATE"}), forumID); err != nil {
			return err
		}

		posts := tx.Model(&models.ForumPost{}).Select("id").Where("forum_id = ?", forumID)
		if err := tx.Where("forum_post_id IN (?)", posts).Delete(&models.ForumPostReaction{}).Error; err != nil {
			return fmt.Errorf("delete forum reactions: %w", err)
		}
		if err := tx.Where("forum_id = ?", forumID).Delete(&models.ForumPost{}).Error; err != nil {
			return fmt.Errorf("delete forum posts: %w", err)
		}
		if err := tx.Delete(&models.Forum{}, forumID).Error; err != nil {
			return fmt.Errorf("delete forum: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.searcher.Remove(ctx, forumID); err != nil {
		s.log.Warn("failed to remove forum from index", zap.Uint("forum_id", forumID), zap.Error(err))
	}
	return nil
}

// CreateForumPost adds actor's post to a forum.
func (s *ForumService) CreateForumPost(ctx context.Context, actorID, forumID uint, content string) (*ForumPostView, error) {
	content, err := boundedText(content, models.MaxPostLength, "post content")
	if err != nil {
		return nil, err
	}
	author, err := findUser(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.findForum(s.db.WithContext(ctx), forumID); err != nil {
		return nil, err
	}

	post := models.ForumPost{ForumID: forumID, UserID: actorID, Content: content}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create forum post: %w", err)
	}
	post.User = *author
	return &ForumPostView{Post: post}, nil
}

// ListForumPosts returns the posts of a forum, oldest first.
func (s *ForumService) ListForumPosts(ctx context.Context, viewerID, forumID uint, page Page) ([]ForumPostView, int64, error) {
	if _, err := s.findForum(s.db.WithContext(ctx), forumID); err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Preload("User").Where("forum_id = ?", forumID)
	posts, total, err := paginate[models.ForumPost](query, page, "created_at ASC, id ASC")
	if err != nil {
		return nil, 0, err
	}
	views, err := s.forumPostViews(ctx, posts, viewerID)
	return views, total, err
}

// ReactForumPost toggles a like or dislike on a forum post, the same way
// React does for posts.
func (s *ForumService) ReactForumPost(ctx context.Context, actorID, forumPostID uint, kind models.ReactionKind) (*ReactionResult, error) {
	if _, err := models.ParseReactionKind(string(kind)); err != nil {
		return nil, err
	}
	if err := requireUsers(ctx, s.db, actorID); err != nil {
		return nil, err
	}

	var result ReactionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.ForumPost
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, forumPostID).Error; err != nil {
			if isRecordNotFound(err) {
				return ErrForumPostNotFound
			}
			return fmt.Errorf("lock forum post: %w", err)
		}

		var current models.ForumPostReaction
		err := tx.Where("forum_post_id = ? AND user_id = ?", forumPostID, actorID).Take(&current).Error
		if err != nil && !isRecordNotFound(err) {
			return fmt.Errorf("load forum reaction: %w", err)
		}

		next := models.NextReaction(current.Kind, kind)
		if next == models.ReactionNone {
			if err := tx.Where("forum_post_id = ? AND user_id = ?", forumPostID, actorID).
				Delete(&models.ForumPostReaction{}).Error; err != nil {
				return fmt.Errorf("delete forum reaction: %w", err)
			}
		} else {
			reaction := models.ForumPostReaction{ForumPostID: forumPostID, UserID: actorID, Kind: next}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "forum_post_id"}, {Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
			}).Create(&reaction).Error; err != nil {
				return fmt.Errorf("save forum reaction: %w", err)
			}
		}
		result.Reaction = next

		counts, err := forumReactionCounts(tx, []uint{forumPostID})
		if err != nil {
			return err
		}
		result.Likes = counts[forumPostID][models.ReactionLike]
		result.Dislikes = counts[forumPostID][models.ReactionDislike]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ForumService) findForum(db *gorm.DB, forumID uint) (*models.Forum, error) {
	var forum models.Forum
	if err := db.First(&forum, forumID).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, ErrForumNotFound
		}
		return nil, fmt.Errorf("load forum %d: %w", forumID, err)
	}
	return &forum, nil
}

func (s *ForumService) forumViews(ctx context.Context, forums []models.Forum) ([]ForumView, error) {
	views := make([]ForumView, len(forums))
	if len(forums) == 0 {
		return views, nil
	}

	ids := make([]uint, len(forums))
	for i, f := range forums {
		ids[i] = f.ID
		views[i].Forum = f
	}

	var rows []struct {
		ForumID uint
		Count   int64
	}
	if err := s.db.WithContext(ctx).Model(&models.ForumPost{}).
		Select("forum_id, COUNT(*) AS count").
		Where("forum_id IN ?", ids).
		Group("forum_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count forum posts: %w", err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.ForumID] = r.Count
	}
	for i := range views {
		views[i].PostCount = counts[views[i].Forum.ID]
	}
	return views, nil
}

func (s *ForumService) forumPostViews(ctx context.Context, posts []models.ForumPost, viewerID uint) ([]ForumPostView, error) {
	views := make([]ForumPostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		views[i].Post = p
	}
	db := s.db.WithContext(ctx)

	counts, err := forumReactionCounts(db, ids)
	if err != nil {
		return nil, err
	}
	mine := map[uint]models.ReactionKind{}
	if viewerID != 0 {
		var reactions []models.ForumPostReaction
		if err := db.Where("user_id = ? AND forum_post_id IN ?", viewerID, ids).Find(&reactions).Error; err != nil {
			return nil, fmt.Errorf("load viewer forum reactions: %w", err)
		}
		for _, r := range reactions {
			mine[r.ForumPostID] = r.Kind
		}
	}

	for i := range views {
		id := views[i].Post.ID
		views[i].Likes = counts[id][models.ReactionLike]
		views[i].Dislikes = counts[id][models.ReactionDislike]
		views[i].LikedByMe = mine[id] == models.ReactionLike
		views[i].DislikedByMe = mine[id] == models.ReactionDislike
	}
	return views, nil
}

// forumReactionCounts returns like and dislike counts per forum post.
func forumReactionCounts(db *gorm.DB, ids []uint) (map[uint]map[models.ReactionKind]int64, error) {
	var rows []struct {
		ForumPostID uint
		Kind        models.ReactionKind
		Count       int64
	}
	if err := db.Model(&models.ForumPostReaction{}).
		Select("forum_post_id, kind, COUNT(*) AS count").
		Where("forum_post_id IN ?", ids).
		Group("forum_post_id, kind").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count forum reactions: %w", err)
	}

	counts := make(map[uint]map[models.ReactionKind]int64, len(ids))
	for _, r := range rows {
		if counts[r.ForumPostID] == nil {
			counts[r.ForumPostID] = map[models.ReactionKind]int64{}
		}
		counts[r.ForumPostID][r.Kind] = r.Count
	}
	return counts, nil
}
