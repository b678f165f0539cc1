package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"campusnet/backend/internal/models"
	"campusnet/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forumRouter(userID uint, forums *fakeForums) *gin.Engine {
	h := NewForumHandler(forums)
	r := newTestRouter(userID)
	r.GET("/forums", h.ListForums)
	r.GET("/forums/search", h.SearchForums)
	r.GET("/forums/:id", h.GetForum)
	r.GET("/forums/:id/posts", h.ListPosts)
	r.POST("/forums/:id/posts", h.CreatePost)
	r.POST("/forums/posts/:postID/like", h.LikePost)
	r.POST("/forums/posts/:postID/dislike", h.DislikePost)
	r.POST("/admin/forums", h.CreateForum)
	r.DELETE("/admin/forums/:id", h.DeleteForum)
	return r
}

func TestForumHandler_CreateForum(t *testing.T) {
	forums := &fakeForums{}
	r := forumRouter(1, forums)

	w := perform(r, http.MethodPost, "/admin/forums", `{"title":"Exams","description":"study groups and papers"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body ForumResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Exams", body.Title)
	assert.Equal(t, "study groups and papers", body.Description)

	w = perform(r, http.MethodPost, "/admin/forums", `{"title":"Exams"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	forums.err = service.ErrForumNotFound
	w = perform(r, http.MethodDelete, "/admin/forums/4", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []uint{4}, forums.deleted)
}

func TestForumHandler_ValidationErrorsAreBadRequests(t *testing.T) {
	forums := &fakeForums{err: service.ErrEmptySearch}
	w := perform(forumRouter(0, forums), http.MethodGet, "/forums/search?q=", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"search query must not be empty"}`, w.Body.String())
}

func TestForumHandler_SearchDefaultsLimit(t *testing.T) {
	forums := &fakeForums{found: []models.Forum{{ID: 2, Title: "Clubs"}}}
	w := perform(forumRouter(0, forums), http.MethodGet, "/forums/search?q=club", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body []ForumResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, uint(2), body[0].ID)
	assert.Equal(t, "club", forums.query)
	assert.Equal(t, service.MaxSearchResults, forums.limit)
}

func TestForumHandler_PostsAndReactions(t *testing.T) {
	forums := &fakeForums{
		posts:    []service.ForumPostView{{Post: models.ForumPost{ID: 9, ForumID: 3, Content: "hi"}, Likes: 1, LikedByMe: true}},
		total:    1,
		reaction: service.ReactionResult{Reaction: models.ReactionLike, Likes: 1},
	}
	r := forumRouter(5, forums)

	w := perform(r, http.MethodGet, "/forums/3/posts", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page PaginatedResponse[ForumPostResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.True(t, page.Data[0].LikedByMe)

	w = perform(r, http.MethodPost, "/forums/3/posts", `{"content":"me too"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = perform(r, http.MethodPost, "/forums/posts/9/like", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"liked":true,"disliked":false,"likes":1,"dislikes":0}`, w.Body.String())
	perform(r, http.MethodPost, "/forums/posts/9/dislike", "")

	assert.Equal(t, []call{{5, 3}, {5, 3}, {5, 9}, {5, 9}}, forums.calls)
	assert.Equal(t, []models.ReactionKind{models.ReactionLike, models.ReactionDislike}, forums.kinds)

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, "/forums/posts/x/like", "").Code)
}
