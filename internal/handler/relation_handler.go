package handler

import (
	"context"
	"net/http"

	"campusnet/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

type RelationHandler struct {
	relations RelationshipService
}

func NewRelationHandler(relations RelationshipService) *RelationHandler {
	return &RelationHandler{relations: relations}
}

// GetFriends godoc
// @Summary      List friends
// @Description  Returns the caller's friends with their count, ids and names.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserListResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/friends [get]
func (h *RelationHandler) GetFriends(c *gin.Context) {
	list, err := h.relations.ListFriends(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserListResponse(list))
}

// GetRequests godoc
// @Summary      List incoming friend requests
// @Description  Returns the users with a pending request to the caller.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserListResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/requests [get]
func (h *RelationHandler) GetRequests(c *gin.Context) {
	list, err := h.relations.ListRequests(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserListResponse(list))
}

// SendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse "Invalid ID or request to self"
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      409  {object}  ErrorResponse "Already friends or already requested"
// @Router       /users/{id}/request [post]
func (h *RelationHandler) SendRequest(c *gin.Context) {
	h.act(c, http.StatusCreated, "Request sent successfully", h.relations.SendRequest)
}

// CancelRequest godoc
// @Summary      Cancel friend request
// @Description  Withdraws a pending request the caller sent.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/cancel [post]
func (h *RelationHandler) CancelRequest(c *gin.Context) {
	h.act(c, http.StatusOK, "Request cancelled", h.relations.CancelRequest)
}

// AcceptRequest godoc
// @Summary      Accept friend request
// @Description  Accepts a pending request from another user. Both users become friends.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requester User ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "No pending request"
// @Router       /users/{id}/accept [post]
func (h *RelationHandler) AcceptRequest(c *gin.Context) {
	h.act(c, http.StatusOK, "Request accepted", h.relations.AcceptRequest)
}

// RejectRequest godoc
// @Summary      Reject friend request
// @Description  Rejects a pending request from another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requester User ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "No pending request"
// @Router       /users/{id}/reject [post]
func (h *RelationHandler) RejectRequest(c *gin.Context) {
	h.act(c, http.StatusOK, "Request rejected", h.relations.RejectRequest)
}

// RemoveFriend godoc
// @Summary      Remove friend
// @Description  Removes a friend. Removing someone who is not a friend succeeds.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Friend User ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/friend [delete]
func (h *RelationHandler) RemoveFriend(c *gin.Context) {
	h.act(c, http.StatusOK, "Friend removed", h.relations.RemoveFriend)
}

func (h *RelationHandler) act(c *gin.Context, status int, message string, op func(ctx context.Context, actorID, targetID uint) error) {
	targetID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := op(c.Request.Context(), auth.UserID(c), targetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, MessageResponse{Message: message})
}
