package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	got []Event
	err error
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.got = append(r.got, e)
	return r.err
}

func TestFanout_DeliversToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	first := &recorder{err: boom}
	second := &recorder{}

	err := Fanout{first, second}.Publish(context.Background(), Event{Type: PostReported, PostID: 100})

	assert.ErrorIs(t, err, boom)
	assert.Len(t, first.got, 1)
	assert.Len(t, second.got, 1)
	assert.Equal(t, uint(100), second.got[0].PostID)
}

func TestFanout_Empty(t *testing.T) {
	assert.NoError(t, Fanout{}.Publish(context.Background(), Event{}))
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{}))
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "campusnet.friend.request.sent", Subject("campusnet", FriendRequestSent))
	assert.Equal(t, "post.reported", Subject("", PostReported))
}
