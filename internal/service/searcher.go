package service

import (
	"context"
	"errors"

	"campusnet/backend/internal/models"
)

// ErrSearchUnavailable is returned by a Searcher that has no index to query.
var ErrSearchUnavailable = errors.New("semantic search unavailable")

// Searcher is the external forum index. Search returns forum ids, best
// match first.
type Searcher interface {
	Index(ctx context.Context, forum models.Forum) error
	Remove(ctx context.Context, forumID uint) error
	Search(ctx context.Context, query string, limit int) ([]uint, error)
}

// NopSearcher keeps no index. Forum search falls back to keyword matching.
type NopSearcher struct{}

func (NopSearcher) Index(context.Context, models.Forum) error { return nil }

func (NopSearcher) Remove(context.Context, uint) error { return nil }

func (NopSearcher) Search(context.Context, string, int) ([]uint, error) {
	return nil, ErrSearchUnavailable
}
