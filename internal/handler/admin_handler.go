package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	moderation ModerationService
}

func NewAdminHandler(moderation ModerationService) *AdminHandler {
	return &AdminHandler{moderation: moderation}
}

// ListPosts godoc
// @Summary      List all posts (Admin)
// @Description  Returns every post including hidden ones, newest first.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[PostResponse]
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/posts [get]
func (h *AdminHandler) ListPosts(c *gin.Context) {
	page := pageFromQuery(c)
	posts, total, err := h.moderation.ListAllPosts(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(newPostResponses(posts), total, page))
}

// ListReported godoc
// @Summary      List reported posts (Admin)
// @Description  Returns posts with at least one report, most reported first.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[PostResponse]
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/reports [get]
func (h *AdminHandler) ListReported(c *gin.Context) {
	page := pageFromQuery(c)
	posts, total, err := h.moderation.ListReported(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(newPostResponses(posts), total, page))
}

// ListUsers godoc
// @Summary      List users (Admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        q     query  string  false  "Search term"
// @Param        page  query  int     false  "Page number" default(1)
// @Param        limit query  int     false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[AdminUserResponse]
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page := pageFromQuery(c)
	users, total, err := h.moderation.ListUsers(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(newAdminUserResponses(users), total, page))
}

// DeletePost godoc
// @Summary      Delete a post (Admin)
// @Description  Permanently deletes a post with its comments, reactions, reports and saves.
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "Post ID"
// @Success      204  "No Content"
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/posts/{id} [delete]
func (h *AdminHandler) DeletePost(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.moderation.HardDelete(c.Request.Context(), postID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteComment godoc
// @Summary      Delete a comment (Admin)
// @Tags         admin
// @Security     BearerAuth
// @Param        id         path  int  true  "Post ID"
// @Param        commentID  path  int  true  "Comment ID"
// @Success      204  "No Content"
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/posts/{id}/comments/{commentID} [delete]
func (h *AdminHandler) DeleteComment(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := idParam(c, "commentID")
	if !ok {
		return
	}
	if err := h.moderation.DeleteComment(c.Request.Context(), postID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
