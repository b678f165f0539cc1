package service

import (
	"context"
	"testing"

	"campusnet/backend/internal/models"
	apperrors "campusnet/backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	name := "user_" + uuid.NewString()[:8]

	in := Registration{
		Name:           "New User",
		Username:       name,
		Email:          name + "@Campus.edu",
		Password:       "Str0ng!pass",
		Department:     "CS",
		GraduationYear: 2027,
	}
	user, token, err := f.accounts.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "token", token)
	assert.Equal(t, name+"@campus.edu", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, in.Password, user.PasswordHash)

	_, _, err = f.accounts.Register(ctx, in)
	assertKind(t, apperrors.KindConflict, err)

	_, _, err = f.accounts.Login(ctx, name, "Str0ng!pass")
	require.NoError(t, err)
	_, _, err = f.accounts.Login(ctx, name+"@campus.edu", "Str0ng!pass")
	require.NoError(t, err)
	_, _, err = f.accounts.Login(ctx, name, "Wr0ng!pass")
	assertKind(t, apperrors.KindUnauthorized, err)
	_, _, err = f.accounts.Login(ctx, "nobody_"+name, "Str0ng!pass")
	assertKind(t, apperrors.KindNotFound, err)
}

func TestAccount_BioLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "bio")

	bio, err := f.accounts.SetBio(ctx, u.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, models.Bio{State: models.BioSet, Text: "hi"}, bio)

	_, err = f.accounts.SetBio(ctx, u.ID, "again")
	assertKind(t, apperrors.KindConflict, err)

	bio, err = f.accounts.UpdateBio(ctx, u.ID, "again")
	require.NoError(t, err)
	assert.Equal(t, "again", bio.Text)

	stored, err := f.accounts.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "again", stored.Bio.Text)

	_, err = f.accounts.DeleteBio(ctx, u.ID)
	require.NoError(t, err)
	_, err = f.accounts.DeleteBio(ctx, u.ID)
	assertKind(t, apperrors.KindConflict, err)
	_, err = f.accounts.UpdateBio(ctx, u.ID, "nope")
	assertKind(t, apperrors.KindConflict, err)
}

func TestAccount_Profile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bob")
	f.post(t, b)
	require.NoError(t, f.relations.SendRequest(ctx, a.ID, b.ID))
	require.NoError(t, f.relations.AcceptRequest(ctx, b.ID, a.ID))

	profile, err := f.accounts.Profile(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.FriendCount)
	assert.Equal(t, int64(1), profile.PostCount)
	assert.Equal(t, models.RelationFriends, profile.Relation)

	_, err = f.accounts.Profile(ctx, a.ID, b.ID+100000)
	assertKind(t, apperrors.KindNotFound, err)

	role, err := f.accounts.RoleOf(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)
}
