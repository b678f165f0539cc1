package handler

import (
	"net/http"
	"strconv"

	"campusnet/backend/internal/auth"
	"campusnet/backend/internal/models"
	"campusnet/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// ForumInput defines the body for opening a forum.
type ForumInput struct {
	Title       string `json:"title" binding:"required" example:"Exam season"`
	Description string `json:"description" binding:"required" example:"Study groups and past papers"`
}

// ForumPostInput defines the body for posting in a forum.
type ForumPostInput struct {
	Content string `json:"content" binding:"required" example:"Anyone have last year's paper?"`
}

// endregion

type ForumHandler struct {
	forums ForumService
}

func NewForumHandler(forums ForumService) *ForumHandler {
	return &ForumHandler{forums: forums}
}

// ListForums godoc
// @Summary      List forums
// @Description  Returns forums, newest first.
// @Tags         forums
// @Produce      json
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[ForumResponse]
// @Router       /forums [get]
func (h *ForumHandler) ListForums(c *gin.Context) {
	page := pageFromQuery(c)
	forums, total, err := h.forums.ListForums(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(newForumResponses(forums), total, page))
}

// SearchForums godoc
// @Summary      Search forums
// @Description  Returns the forums that best match the query.
// @Tags         forums
// @Produce      json
// @Param        q     query  string  true   "Search term"
// @Param        limit query  int     false  "Maximum results" default(50)
// @Success      200  {array}   ForumResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /forums/search [get]
func (h *ForumHandler) SearchForums(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.MaxSearchResults)))
	forums, err := h.forums.SearchForums(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]ForumResponse, 0, len(forums))
	for _, f := range forums {
		out = append(out, newForumResponse(service.ForumView{Forum: f}))
	}
	c.JSON(http.StatusOK, out)
}

// GetForum godoc
// @Summary      Get a forum
// @Tags         forums
// @Produce      json
// @Param        id   path      int  true  "Forum ID"
// @Success      200  {object}  ForumResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /forums/{id} [get]
func (h *ForumHandler) GetForum(c *gin.Context) {
	forumID, ok := idParam(c, "id")
	if !ok {
		return
	}

	forum, err := h.forums.GetForum(c.Request.Context(), forumID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newForumResponse(*forum))
}

// ListPosts godoc
// @Summary      List forum posts
// @Description  Returns the posts of a forum, oldest first. With a token each post also carries the caller's reaction.
// @Tags         forums
// @Produce      json
// @Param        id    path   int  true   "Forum ID"
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[ForumPostResponse]
// @Failure      404  {object}  ErrorResponse
// @Router       /forums/{id}/posts [get]
func (h *ForumHandler) ListPosts(c *gin.Context) {
	forumID, ok := idParam(c, "id")
	if !ok {
		return
	}

	page := pageFromQuery(c)
	posts, total, err := h.forums.ListForumPosts(c.Request.Context(), auth.UserID(c), forumID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(newForumPostResponses(posts), total, page))
}

// CreatePost godoc
// @Summary      Post in a forum
// @Tags         forums
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int             true  "Forum ID"
// @Param        input body  ForumPostInput  true  "Post"
// @Success      201  {object}  ForumPostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /forums/{id}/posts [post]
func (h *ForumHandler) CreatePost(c *gin.Context) {
	forumID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input ForumPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	post, err := h.forums.CreateForumPost(c.Request.Context(), auth.UserID(c), forumID, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newForumPostResponse(*post))
}

// LikePost godoc
// @Summary      Like a forum post
// @Description  Likes a forum post. Liking again removes the like; a dislike is replaced.
// @Tags         forums
// @Produce      json
// @Security     BearerAuth
// @Param        postID  path  int  true  "Forum post ID"
// @Success      200  {object}  ReactionResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /forums/posts/{postID}/like [post]
func (h *ForumHandler) LikePost(c *gin.Context) {
	h.react(c, models.ReactionLike)
}

// DislikePost godoc
// @Summary      Dislike a forum post
// @Description  Dislikes a forum post. Disliking again removes the dislike; a like is replaced.
// @Tags         forums
// @Produce      json
// @Security     BearerAuth
// @Param        postID  path  int  true  "Forum post ID"
// @Success      200  {object}  ReactionResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /forums/posts/{postID}/dislike [post]
func (h *ForumHandler) DislikePost(c *gin.Context) {
	h.react(c, models.ReactionDislike)
}

func (h *ForumHandler) react(c *gin.Context, kind models.ReactionKind) {
	postID, ok := idParam(c, "postID")
	if !ok {
		return
	}

	result, err := h.forums.ReactForumPost(c.Request.Context(), auth.UserID(c), postID, kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReactionResponse(*result))
}

// CreateForum godoc
// @Summary      Open a forum (Admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ForumInput true "Forum"
// @Success      201  {object}  ForumResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/forums [post]
func (h *ForumHandler) CreateForum(c *gin.Context) {
	var input ForumInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	forum, err := h.forums.CreateForum(c.Request.Context(), auth.UserID(c), input.Title, input.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newForumResponse(service.ForumView{Forum: *forum}))
}

// DeleteForum godoc
// @Summary      Delete a forum (Admin)
// @Description  Deletes a forum with its posts and their reactions.
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "Forum ID"
// @Success      204  "No Content"
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/forums/{id} [delete]
func (h *ForumHandler) DeleteForum(c *gin.Context) {
	forumID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.forums.DeleteForum(c.Request.Context(), forumID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
