package handler

import (
	"net/http"

	"campusnet/backend/internal/auth"
	"campusnet/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Name           string `json:"name" binding:"required,max=255" example:"Ada Lovelace"`
	Username       string `json:"username" binding:"required,min=3,max=50" example:"ada"`
	Email          string `json:"email" binding:"required,email" example:"ada@campus.edu"`
	Password       string `json:"password" binding:"required,min=8,max=100" example:"Str0ng!pass"`
	Department     string `json:"department" binding:"max=255" example:"Computer Science"`
	GraduationYear int    `json:"graduation_year" binding:"omitempty,min=1900,max=2100" example:"2027"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"ada@campus.edu"`
	Password string `json:"password" binding:"required" example:"Str0ng!pass"`
}

// BioInput is the body of the bio endpoints.
type BioInput struct {
	Text string `json:"text" binding:"required" example:"CS '27, chess club"`
}

// ProfileImageInput carries an opaque image reference.
type ProfileImageInput struct {
	ImageRef string `json:"image_ref" example:"avatars/ada.png"`
}

// endregion

type UserHandler struct {
	accounts AccountService
	posts    PostService
}

func NewUserHandler(accounts AccountService, posts PostService) *UserHandler {
	return &UserHandler{accounts: accounts, posts: posts}
}

// region --- Auth Handlers ---

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  AuthResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, token, err := h.accounts.Register(c.Request.Context(), service.Registration{
		Name:           input.Name,
		Username:       input.Username,
		Email:          input.Email,
		Password:       input.Password,
		Department:     input.Department,
		GraduationYear: input.GraduationYear,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: newUserSummary(*user)})
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username/email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  AuthResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, token, err := h.accounts.Login(c.Request.Context(), input.Login, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: newUserSummary(*user)})
}

// endregion

// region --- User Handlers ---

// GetMe godoc
// @Summary      Get current user
// @Description  Returns the authenticated user's own profile.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	me := auth.UserID(c)
	profile, err := h.accounts.Profile(c.Request.Context(), me, me)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPrivateUserResponse(*profile))
}

// GetUserByID godoc
// @Summary      Get a user's public profile
// @Description  Returns a user's public profile with counters and relation to the viewer.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	targetID, ok := idParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.accounts.Profile(c.Request.Context(), auth.UserID(c), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPublicUserResponse(*profile))
}

// SearchUsers godoc
// @Summary      Search users
// @Description  Searches users by username or name.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query  string  false  "Search term"
// @Param        page  query  int     false  "Page number" default(1)
// @Param        limit query  int     false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[UserSummary]
// @Router       /users [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	page := pageFromQuery(c)
	users, total, err := h.accounts.SearchUsers(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(newUserSummaries(users), total, page))
}

// GetUserPosts godoc
// @Summary      List a user's posts
// @Description  Returns the visible posts of a user, newest first.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   int  true   "User ID"
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[PostResponse]
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/posts [get]
func (h *UserHandler) GetUserPosts(c *gin.Context) {
	ownerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	page := pageFromQuery(c)
	posts, total, err := h.posts.ListUserPosts(c.Request.Context(), auth.UserID(c), ownerID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(newPostResponses(posts), total, page))
}

// UpdateProfileImage godoc
// @Summary      Set profile image
// @Description  Stores an opaque image reference as the caller's avatar. An empty reference clears it.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ProfileImageInput true "Image reference"
// @Success      200  {object}  UserSummary
// @Failure      400  {object}  ErrorResponse
// @Router       /users/me/image [put]
func (h *UserHandler) UpdateProfileImage(c *gin.Context) {
	var input ProfileImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.accounts.SetProfileImage(c.Request.Context(), auth.UserID(c), input.ImageRef)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserSummary(*user))
}

// endregion

// region --- Bio Handlers ---

// SetBio godoc
// @Summary      Add a bio
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body BioInput true "Bio"
// @Success      201  {object}  BioResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Bio already set"
// @Router       /users/me/bio [post]
func (h *UserHandler) SetBio(c *gin.Context) {
	var input BioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	bio, err := h.accounts.SetBio(c.Request.Context(), auth.UserID(c), input.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBioResponse(bio))
}

// UpdateBio godoc
// @Summary      Update the bio
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body BioInput true "Bio"
// @Success      200  {object}  BioResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Bio not set"
// @Router       /users/me/bio [put]
func (h *UserHandler) UpdateBio(c *gin.Context) {
	var input BioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	bio, err := h.accounts.UpdateBio(c.Request.Context(), auth.UserID(c), input.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBioResponse(bio))
}

// DeleteBio godoc
// @Summary      Remove the bio
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  BioResponse
// @Failure      409  {object}  ErrorResponse "Bio not set"
// @Router       /users/me/bio [delete]
func (h *UserHandler) DeleteBio(c *gin.Context) {
	bio, err := h.accounts.DeleteBio(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBioResponse(bio))
}

// endregion
