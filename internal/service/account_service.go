package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"campusnet/backend/internal/models"
	apperrors "campusnet/backend/pkg/errors"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = apperrors.Conflict("username or email already taken")
	ErrInvalidCredentials = apperrors.Unauthorized("incorrect password")
	ErrBioChanged         = apperrors.Conflict("bio was changed by another request")
)

// TokenIssuer signs access tokens for a user.
type TokenIssuer interface {
	GenerateToken(userID uint) (string, error)
}

// Registration is the input for a new account.
type Registration struct {
	Name           string
	Username       string
	Email          string
	Password       string
	Department     string
	GraduationYear int
}

// Profile is a user as seen by a viewer.
type Profile struct {
	User        models.User
	FriendCount int64
	PostCount   int64
	Relation    models.RelationStatus
}

// AccountService manages accounts, profiles and the bio lifecycle.
type AccountService struct {
	db        *gorm.DB
	tokens    TokenIssuer
	relations *RelationshipService
	posts     *PostService
}

func NewAccountService(db *gorm.DB, tokens TokenIssuer, relations *RelationshipService, posts *PostService) *AccountService {
	return &AccountService{db: db, tokens: tokens, relations: relations, posts: posts}
}

// Register creates an account and returns it with a fresh token.
func (s *AccountService) Register(ctx context.Context, in Registration) (*models.User, string, error) {
	if err := ValidatePassword(in.Password); err != nil {
		return nil, "", err
	}

	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var taken int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&taken).Error; err != nil {
		return nil, "", fmt.Errorf("check existing users: %w", err)
	}
	if taken > 0 {
		return nil, "", ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:           strings.TrimSpace(in.Name),
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           models.RoleUser,
		Department:     strings.TrimSpace(in.Department),
		GraduationYear: in.GraduationYear,
		Bio:            models.Bio{State: models.BioUnset},
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.Wrap(apperrors.KindConflict, ErrUserExists.Message, err)
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return &user, token, nil
}

// Login checks the password of the user identified by email or username.
func (s *AccountService) Login(ctx context.Context, login, password string) (*models.User, string, error) {
	login = strings.TrimSpace(login)

	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", strings.ToLower(login), login).
		First(&user).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("load user for login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return &user, token, nil
}

// GetUser loads a user by id.
func (s *AccountService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return findUser(ctx, s.db, id)
}

// RoleOf returns the role of userID.
func (s *AccountService) RoleOf(ctx context.Context, userID uint) (string, error) {
	user, err := findUser(ctx, s.db, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// Profile loads target with its counters and its relation to viewer.
func (s *AccountService) Profile(ctx context.Context, viewerID, targetID uint) (*Profile, error) {
	user, err := findUser(ctx, s.db, targetID)
	if err != nil {
		return nil, err
	}

	profile := Profile{User: *user}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile.FriendCount, err = s.relations.CountFriends(gctx, targetID)
		return err
	})
	g.Go(func() error {
		var err error
		profile.PostCount, err = s.posts.CountUserPosts(gctx, targetID)
		return err
	})
	g.Go(func() error {
		var err error
		profile.Relation, err = s.relations.RelationStatus(gctx, viewerID, targetID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load profile counters: %w", err)
	}
	return &profile, nil
}

// SearchUsers matches q against username and name.
func (s *AccountService) SearchUsers(ctx context.Context, q string, page Page) ([]models.User, int64, error) {
	return searchUsers(s.db.WithContext(ctx), q, page)
}

// SetProfileImage stores an opaque image reference for actor.
func (s *AccountService) SetProfileImage(ctx context.Context, actorID uint, ref string) (*models.User, error) {
	ref = strings.TrimSpace(ref)
	if len(ref) > maxImageRefLength {
		return nil, ErrImageRefTooBig
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", actorID).Update("profile_image", ref)
	if result.Error != nil {
		return nil, fmt.Errorf("update profile image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return findUser(ctx, s.db, actorID)
}

// SetBio adds a bio to a user that has none.
func (s *AccountService) SetBio(ctx context.Context, actorID uint, text string) (models.Bio, error) {
	return s.transitionBio(ctx, actorID, func(b models.Bio) (models.Bio, error) { return b.Set(text) })
}

// UpdateBio replaces an existing bio.
func (s *AccountService) UpdateBio(ctx context.Context, actorID uint, text string) (models.Bio, error) {
	return s.transitionBio(ctx, actorID, func(b models.Bio) (models.Bio, error) { return b.Update(text) })
}

// DeleteBio clears an existing bio.
func (s *AccountService) DeleteBio(ctx context.Context, actorID uint) (models.Bio, error) {
	return s.transitionBio(ctx, actorID, models.Bio.Clear)
}

// transitionBio applies a bio transition and writes it only if the stored
// state is still the one the transition started from.
func (s *AccountService) transitionBio(ctx context.Context, actorID uint, transition func(models.Bio) (models.Bio, error)) (models.Bio, error) {
	user, err := findUser(ctx, s.db, actorID)
	if err != nil {
		return models.Bio{}, err
	}

	next, err := transition(user.Bio)
	if err != nil {
		return user.Bio, err
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND bio_state = ?", actorID, currentBioState(user.Bio)).
		Updates(map[string]interface{}{"bio_state": next.State, "bio_text": next.Text})
	if result.Error != nil {
		return user.Bio, fmt.Errorf("update bio: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.Bio, ErrBioChanged
	}
	return next, nil
}

func currentBioState(b models.Bio) models.BioState {
	if b.IsSet() {
		return models.BioSet
	}
	return models.BioUnset
}

// ValidatePassword enforces 8 to 100 characters with at least one lowercase
// letter, uppercase letter, digit and special character.
func ValidatePassword(password string) error {
	if n := len([]rune(password)); n < 8 || n > 100 {
		return apperrors.Validation("password must be between 8 and 100 characters")
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}

	switch {
	case !lower:
		return apperrors.Validation("password must contain a lowercase letter")
	case !upper:
		return apperrors.Validation("password must contain an uppercase letter")
	case !digit:
		return apperrors.Validation("password must contain a number")
	case !special:
		return apperrors.Validation("password must contain a special character")
	}
	return nil
}
