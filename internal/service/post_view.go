package service

import (
	"context"
	"fmt"

	"campusnet/backend/internal/models"

	"gorm.io/gorm"
)

// PostView is a post with its author and aggregated interaction counts.
// The *ByMe flags are only ever true when a viewer is known.
type PostView struct {
	Post         models.Post
	Likes        int64
	Dislikes     int64
	CommentCount int64
	ReportCount  int64
	LikedByMe    bool
	DislikedByMe bool
	ReportedByMe bool
	SavedByMe    bool
}

// annotate loads the counts for posts in a fixed number of grouped queries.
func annotate(ctx context.Context, db *gorm.DB, posts []models.Post, viewerID uint) ([]PostView, error) {
	views := make([]PostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]uint, len(posts))
	index := make(map[uint]*PostView, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		views[i].Post = p
		index[p.ID] = &views[i]
	}
	db = db.WithContext(ctx)

	var reactions []struct {
		PostID uint
		Kind   models.ReactionKind
		Count  int64
	}
	if err := db.Model(&models.PostReaction{}).
		Select("post_id, kind, COUNT(*) AS count").
		Where("post_id IN ?", ids).
		Group("post_id, kind").
		Scan(&reactions).Error; err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}
	for _, r := range reactions {
		switch r.Kind {
		case models.ReactionLike:
			index[r.PostID].Likes = r.Count
		case models.ReactionDislike:
			index[r.PostID].Dislikes = r.Count
		}
	}

	comments, err := countByPost(db, &models.Comment{}, ids)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	reports, err := countByPost(db, &models.PostReport{}, ids)
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	for id, v := range index {
		v.CommentCount = comments[id]
		v.ReportCount = reports[id]
	}

	if viewerID == 0 {
		return views, nil
	}

	var mine []models.PostReaction
	if err := db.Where("user_id = ? AND post_id IN ?", viewerID, ids).Find(&mine).Error; err != nil {
		return nil, fmt.Errorf("load viewer reactions: %w", err)
	}
	for _, r := range mine {
		index[r.PostID].LikedByMe = r.Kind == models.ReactionLike
		index[r.PostID].DislikedByMe = r.Kind == models.ReactionDislike
	}

	var reported []uint
	if err := db.Model(&models.PostReport{}).Where("user_id = ? AND post_id IN ?", viewerID, ids).
		Pluck("post_id", &reported).Error; err != nil {
		return nil, fmt.Errorf("load viewer reports: %w", err)
	}
	for _, id := range reported {
		index[id].ReportedByMe = true
	}

	var saved []uint
	if err := db.Model(&models.SavedPost{}).Where("user_id = ? AND post_id IN ?", viewerID, ids).
		Pluck("post_id", &saved).Error; err != nil {
		return nil, fmt.Errorf("load viewer saves: %w", err)
	}
	for _, id := range saved {
		index[id].SavedByMe = true
	}

	return views, nil
}

func countByPost(db *gorm.DB, model interface{}, ids []uint) (map[uint]int64, error) {
	var rows []struct {
		PostID uint
		Count  int64
	}
	if err := db.Model(model).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.PostID] = r.Count
	}
	return counts, nil
}
