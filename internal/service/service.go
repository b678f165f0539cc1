package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusnet/backend/internal/events"
	"campusnet/backend/internal/models"
	apperrors "campusnet/backend/pkg/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	ErrUserNotFound = apperrors.NotFound("user not found")
	ErrPostNotFound = apperrors.NotFound("post not found")
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps page and limit to sane values.
func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Page{Number: page, Size: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// paginate counts the rows matched by query and loads one page of them.
func paginate[T any](query *gorm.DB, page Page, order string) ([]T, int64, error) {
	base := query.Session(&gorm.Session{})

	var total int64
	if err := base.Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count rows: %w", err)
	}

	var results []T
	if err := base.Order(order).Offset(page.Offset()).Limit(page.Size).Find(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("load page: %w", err)
	}
	return results, total, nil
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// findUser loads a user or returns ErrUserNotFound.
func findUser(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &user, nil
}

// requireUsers checks that every id refers to an existing user.
func requireUsers(ctx context.Context, db *gorm.DB, ids ...uint) error {
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return ErrUserNotFound
		}
		unique[id] = struct{}{}
	}
	want := make([]uint, 0, len(unique))
	for id := range unique {
		want = append(want, id)
	}

	var found int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("id IN ?", want).Count(&found).Error; err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if int(found) != len(want) {
		return ErrUserNotFound
	}
	return nil
}

// notifier publishes domain events after the state change is committed.
// Publish failures are logged and never returned to the caller.
type notifier struct {
	publisher events.Publisher
	log       *zap.Logger
}

func newNotifier(publisher events.Publisher, log *zap.Logger) notifier {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return notifier{publisher: publisher, log: log}
}

func (n notifier) notify(ctx context.Context, event events.Event) {
	event.OccurredAt = time.Now().UTC()
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.log.Warn("failed to publish event",
			zap.String("type", string(event.Type)),
			zap.Uint("actor_id", event.ActorID),
			zap.Error(err))
	}
}
