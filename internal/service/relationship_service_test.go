package service

import (
	"context"
	"sync"
	"testing"

	"campusnet/backend/internal/events"
	"campusnet/backend/internal/models"
	apperrors "campusnet/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationship_AcceptIsSymmetric(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bob")

	require.NoError(t, f.relations.SendRequest(ctx, b.ID, a.ID))
	require.NoError(t, f.relations.AcceptRequest(ctx, a.ID, b.ID))

	aFriends, err := f.relations.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	bFriends, err := f.relations.ListFriends(ctx, b.ID)
	require.NoError(t, err)
	requests, err := f.relations.ListRequests(ctx, a.ID)
	require.NoError(t, err)

	assert.Equal(t, []uint{b.ID}, aFriends.IDs)
	assert.Equal(t, []uint{a.ID}, bFriends.IDs)
	assert.Equal(t, []string{"bob"}, aFriends.Names)
	assert.Equal(t, 0, requests.Count)
	assert.Equal(t, []events.Type{events.FriendRequestSent, events.FriendRequestAccepted}, f.events.types())

	status, err := f.relations.RelationStatus(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RelationFriends, status)
}

func TestRelationship_SendRequestRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bob")

	assertKind(t, apperrors.KindValidation, f.relations.SendRequest(ctx, a.ID, a.ID))
	assertKind(t, apperrors.KindNotFound, f.relations.SendRequest(ctx, a.ID, b.ID+100000))

	require.NoError(t, f.relations.SendRequest(ctx, a.ID, b.ID))
	assertKind(t, apperrors.KindConflict, f.relations.SendRequest(ctx, a.ID, b.ID))

	status, err := f.relations.RelationStatus(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RelationRequestSent, status)
	status, err = f.relations.RelationStatus(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RelationRequestReceived, status)

	require.NoError(t, f.relations.AcceptRequest(ctx, b.ID, a.ID))
	assertKind(t, apperrors.KindConflict, f.relations.SendRequest(ctx, b.ID, a.ID))
}

func TestRelationship_AcceptAndRejectRequirePendingRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bob")

	assertKind(t, apperrors.KindConflict, f.relations.AcceptRequest(ctx, a.ID, b.ID))
	assertKind(t, apperrors.KindConflict, f.relations.RejectRequest(ctx, a.ID, b.ID))
	assertKind(t, apperrors.KindNotFound, f.relations.RejectRequest(ctx, a.ID, b.ID+100000))

	require.NoError(t, f.relations.SendRequest(ctx, b.ID, a.ID))
	require.NoError(t, f.relations.RejectRequest(ctx, a.ID, b.ID))

	friends, err := f.relations.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, friends.Count)
	assertKind(t, apperrors.KindConflict, f.relations.AcceptRequest(ctx, a.ID, b.ID))
}

func TestRelationship_CrossedRequestsSettleOnAccept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bob")

	require.NoError(t, f.relations.SendRequest(ctx, a.ID, b.ID))
	require.NoError(t, f.relations.SendRequest(ctx, b.ID, a.ID))
	require.NoError(t, f.relations.AcceptRequest(ctx, a.ID, b.ID))

	for _, id := range []uint{a.ID, b.ID} {
		requests, err := f.relations.ListRequests(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 0, requests.Count)
	}
}

func TestRelationship_RemoveFriendIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bob")

	require.NoError(t, f.relations.SendRequest(ctx, a.ID, b.ID))
	require.NoError(t, f.relations.AcceptRequest(ctx, b.ID, a.ID))

	require.NoError(t, f.relations.RemoveFriend(ctx, a.ID, b.ID))
	require.NoError(t, f.relations.RemoveFriend(ctx, a.ID, b.ID))

	for _, id := range []uint{a.ID, b.ID} {
		friends, err := f.relations.ListFriends(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 0, friends.Count)
	}
	assertKind(t, apperrors.KindNotFound, f.relations.RemoveFriend(ctx, a.ID, b.ID+100000))
}

func TestRelationship_CancelRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bob")

	require.NoError(t, f.relations.SendRequest(ctx, a.ID, b.ID))
	require.NoError(t, f.relations.CancelRequest(ctx, a.ID, b.ID))
	require.NoError(t, f.relations.CancelRequest(ctx, a.ID, b.ID))

	requests, err := f.relations.ListRequests(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, requests.Count)
}

func TestRelationship_ConcurrentAcceptAndReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.user(t, "alice"), f.user(t, "bob")
	require.NoError(t, f.relations.SendRequest(ctx, b.ID, a.ID))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); errs[0] = f.relations.AcceptRequest(ctx, a.ID, b.ID) }()
	go func() { defer wg.Done(); errs[1] = f.relations.RejectRequest(ctx, a.ID, b.ID) }()
	wg.Wait()

	// Exactly one of them consumes the request
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assertKind(t, apperrors.KindConflict, err)
		}
	}
	assert.Equal(t, 1, succeeded)

	aFriends, err := f.relations.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	bFriends, err := f.relations.ListFriends(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, aFriends.Count, bFriends.Count)
}
