package handler

import (
	"context"
	"net/http"

	"campusnet/backend/internal/auth"
	"campusnet/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// PostInput defines the body for creating a post.
type PostInput struct {
	Content  string `json:"content" binding:"required" example:"Library is open late tonight"`
	ImageRef string `json:"image_ref" example:"uploads/42.png"`
}

// CommentInput defines the body for commenting on a post.
type CommentInput struct {
	Text string `json:"text" binding:"required" example:"Thanks!"`
}

// endregion

type PostHandler struct {
	posts      PostService
	moderation ModerationService
}

func NewPostHandler(posts PostService, moderation ModerationService) *PostHandler {
	return &PostHandler{posts: posts, moderation: moderation}
}

// ListPosts godoc
// @Summary      List public posts
// @Description  Returns visible posts, newest first. With a token each post also carries the caller's reaction, report and save flags.
// @Tags         posts
// @Produce      json
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[PostResponse]
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	page := pageFromQuery(c)
	posts, total, err := h.posts.ListPublic(c.Request.Context(), auth.UserID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(newPostResponses(posts), total, page))
}

// GetPost godoc
// @Summary      Get a post
// @Description  Returns a visible post with its comments.
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  PostResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), auth.UserID(c), postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(*post))
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body PostInput true "Post"
// @Success      201  {object}  PostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	post, err := h.posts.CreatePost(c.Request.Context(), auth.UserID(c), input.Content, input.ImageRef)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPostResponse(*post))
}

// DeletePost godoc
// @Summary      Delete own post
// @Description  Hides the caller's post. The post stays available to moderators.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  MessageResponse
// @Failure      403  {object}  ErrorResponse "Not the owner"
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	h.act(c, http.StatusOK, "Post deleted", h.posts.SoftDelete)
}

// MyPosts godoc
// @Summary      List own posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[PostResponse]
// @Router       /posts/mine [get]
func (h *PostHandler) MyPosts(c *gin.Context) {
	me := auth.UserID(c)
	page := pageFromQuery(c)
	posts, total, err := h.posts.ListUserPosts(c.Request.Context(), me, me, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(newPostResponses(posts), total, page))
}

// SavedPosts godoc
// @Summary      List saved posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[PostResponse]
// @Router       /posts/saved [get]
func (h *PostHandler) SavedPosts(c *gin.Context) {
	page := pageFromQuery(c)
	posts, total, err := h.posts.ListSaved(c.Request.Context(), auth.UserID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(newPostResponses(posts), total, page))
}

// Like godoc
// @Summary      Like a post
// @Description  Likes a post. Liking again removes the like; a dislike is replaced.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  ReactionResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/like [post]
func (h *PostHandler) Like(c *gin.Context) {
	h.react(c, models.ReactionLike)
}

// Dislike godoc
// @Summary      Dislike a post
// @Description  Dislikes a post. Disliking again removes the dislike; a like is replaced.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  ReactionResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/dislike [post]
func (h *PostHandler) Dislike(c *gin.Context) {
	h.react(c, models.ReactionDislike)
}

func (h *PostHandler) react(c *gin.Context, kind models.ReactionKind) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	result, err := h.posts.React(c.Request.Context(), auth.UserID(c), postID, kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReactionResponse(*result))
}

// AddComment godoc
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int           true  "Post ID"
// @Param        input body  CommentInput  true  "Comment"
// @Success      201  {object}  CommentResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	comment, err := h.posts.Comment(c.Request.Context(), auth.UserID(c), postID, input.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCommentResponse(*comment))
}

// Report godoc
// @Summary      Report a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      201  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Already reported"
// @Router       /posts/{id}/report [post]
func (h *PostHandler) Report(c *gin.Context) {
	h.act(c, http.StatusCreated, "Post reported", h.moderation.Report)
}

// Unreport godoc
// @Summary      Withdraw a report
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Not reported"
// @Router       /posts/{id}/report [delete]
func (h *PostHandler) Unreport(c *gin.Context) {
	h.act(c, http.StatusOK, "Report withdrawn", h.moderation.Unreport)
}

// Save godoc
// @Summary      Save a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      201  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Already saved"
// @Router       /posts/{id}/save [post]
func (h *PostHandler) Save(c *gin.Context) {
	h.act(c, http.StatusCreated, "Post saved", h.posts.SavePost)
}

// Unsave godoc
// @Summary      Remove a saved post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  MessageResponse
// @Router       /posts/{id}/save [delete]
func (h *PostHandler) Unsave(c *gin.Context) {
	h.act(c, http.StatusOK, "Post removed from saved", h.posts.UnsavePost)
}

func (h *PostHandler) act(c *gin.Context, status int, message string, op func(ctx context.Context, actorID, postID uint) error) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := op(c.Request.Context(), auth.UserID(c), postID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, MessageResponse{Message: message})
}
