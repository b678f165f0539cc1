package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campusnet/backend/internal/hub"

	"github.com/stretchr/testify/assert"
)

type fakeStream struct {
	client       hub.Client
	subscribed   uint
	unsubscribed bool
}

func (f *fakeStream) Subscribe(userID uint) hub.Client {
	f.subscribed = userID
	return f.client
}

func (f *fakeStream) Unsubscribe(uint, hub.Client) {
	f.unsubscribed = true
}

// closeNotifyRecorder adds the CloseNotifier that gin's Stream expects.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestEventHandler_StreamsUntilClosed(t *testing.T) {
	client := make(hub.Client, 1)
	client <- []byte(`{"type":"friend.request.sent"}`)
	close(client)

	stream := &fakeStream{client: client}
	r := newTestRouter(4)
	r.GET("/users/me/events", NewEventHandler(stream).Stream)

	w := &closeNotifyRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me/events", nil))

	assert.Equal(t, uint(4), stream.subscribed)
	assert.True(t, stream.unsubscribed)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream"))
	assert.Contains(t, w.Body.String(), "event:message")
	assert.Contains(t, w.Body.String(), `data:{"type":"friend.request.sent"}`)
}
