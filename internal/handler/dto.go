package handler

import (
	"time"

	"campusnet/backend/internal/models"
	"campusnet/backend/internal/service"
)

// region --- Users ---

// UserSummary is the minimal public view of a user.
type UserSummary struct {
	ID       uint   `json:"id" example:"1"`
	Name     string `json:"name" example:"Ada Lovelace"`
	Username string `json:"username" example:"ada"`
	Avatar   string `json:"avatar,omitempty" example:"avatars/ada.png"`
}

func newUserSummary(u models.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Username: u.Username, Avatar: u.ProfileImage}
}

func newUserSummaries(users []models.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, newUserSummary(u))
	}
	return out
}

// BioResponse is a user's bio and its state.
type BioResponse struct {
	State models.BioState `json:"state" example:"set"`
	Text  string          `json:"text" example:"CS '27, chess club"`
}

func newBioResponse(b models.Bio) BioResponse {
	if !b.IsSet() {
		return BioResponse{State: models.BioUnset}
	}
	return BioResponse{State: b.State, Text: b.Text}
}

// PublicUserResponse defines the structure for a user's public profile.
type PublicUserResponse struct {
	UserSummary
	Department     string                `json:"department,omitempty" example:"Computer Science"`
	GraduationYear int                   `json:"graduation_year,omitempty" example:"2027"`
	Bio            BioResponse           `json:"bio"`
	FriendsCount   int64                 `json:"friends_count"`
	PostsCount     int64                 `json:"posts_count"`
	RelationToMe   models.RelationStatus `json:"relation_to_me" example:"friends"`
}

func newPublicUserResponse(p service.Profile) PublicUserResponse {
	return PublicUserResponse{
		UserSummary:    newUserSummary(p.User),
		Department:     p.User.Department,
		GraduationYear: p.User.GraduationYear,
		Bio:            newBioResponse(p.User.Bio),
		FriendsCount:   p.FriendCount,
		PostsCount:     p.PostCount,
		RelationToMe:   p.Relation,
	}
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	UserSummary
	Email          string      `json:"email" example:"ada@campus.edu"`
	Role           string      `json:"role" example:"user"`
	Department     string      `json:"department,omitempty"`
	GraduationYear int         `json:"graduation_year,omitempty"`
	Bio            BioResponse `json:"bio"`
	FriendsCount   int64       `json:"friends_count"`
	PostsCount     int64       `json:"posts_count"`
}

func newPrivateUserResponse(p service.Profile) PrivateUserResponse {
	return PrivateUserResponse{
		UserSummary:    newUserSummary(p.User),
		Email:          p.User.Email,
		Role:           p.User.Role,
		Department:     p.User.Department,
		GraduationYear: p.User.GraduationYear,
		Bio:            newBioResponse(p.User.Bio),
		FriendsCount:   p.FriendCount,
		PostsCount:     p.PostCount,
	}
}

// AdminUserResponse is a user row in the admin user listing.
type AdminUserResponse struct {
	UserSummary
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func newAdminUserResponses(users []models.User) []AdminUserResponse {
	out := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, AdminUserResponse{
			UserSummary: newUserSummary(u),
			Email:       u.Email,
			Role:        u.Role,
			CreatedAt:   u.CreatedAt,
		})
	}
	return out
}

// UserListResponse lists related users with their count, ids and names.
type UserListResponse struct {
	Count int           `json:"count" example:"1"`
	IDs   []uint        `json:"ids"`
	Names []string      `json:"names"`
	Users []UserSummary `json:"users"`
}

func newUserListResponse(l service.UserList) UserListResponse {
	return UserListResponse{
		Count: l.Count,
		IDs:   l.IDs,
		Names: l.Names,
		Users: newUserSummaries(l.Users),
	}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string      `json:"token" example:"eyJhbGciOi..."`
	User  UserSummary `json:"user"`
}

// endregion

// region --- Posts ---

// CommentResponse is a comment on a post.
type CommentResponse struct {
	ID        uint      `json:"id" example:"1"`
	UserID    uint      `json:"user_id" example:"2"`
	Username  string    `json:"username" example:"ada"`
	Avatar    string    `json:"avatar,omitempty"`
	Content   string    `json:"content" example:"Nice!"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Username:  c.AuthorUsername,
		Avatar:    c.AuthorAvatar,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// PostResponse is a post with its interaction counters.
type PostResponse struct {
	ID           uint              `json:"id" example:"1"`
	Author       UserSummary       `json:"author"`
	Content      string            `json:"content" example:"Library is open late tonight"`
	ImageRef     string            `json:"image_ref,omitempty"`
	Visibility   bool              `json:"visibility" example:"true"`
	CreatedAt    time.Time         `json:"created_at"`
	Likes        int64             `json:"likes"`
	Dislikes     int64             `json:"dislikes"`
	CommentCount int64             `json:"comment_count"`
	ReportCount  int64             `json:"report_count"`
	LikedByMe    bool              `json:"liked_by_me"`
	DislikedByMe bool              `json:"disliked_by_me"`
	ReportedByMe bool              `json:"reported_by_me"`
	SavedByMe    bool              `json:"saved_by_me"`
	Comments     []CommentResponse `json:"comments,omitempty"`
}

func newPostResponse(v service.PostView) PostResponse {
	resp := PostResponse{
		ID:           v.Post.ID,
		Author:       newUserSummary(v.Post.User),
		Content:      v.Post.Content,
		ImageRef:     v.Post.ImageRef,
		Visibility:   v.Post.Visibility,
		CreatedAt:    v.Post.CreatedAt,
		Likes:        v.Likes,
		Dislikes:     v.Dislikes,
		CommentCount: v.CommentCount,
		ReportCount:  v.ReportCount,
		LikedByMe:    v.LikedByMe,
		DislikedByMe: v.DislikedByMe,
		ReportedByMe: v.ReportedByMe,
		SavedByMe:    v.SavedByMe,
	}
	for _, c := range v.Post.Comments {
		resp.Comments = append(resp.Comments, newCommentResponse(c))
	}
	return resp
}

func newPostResponses(views []service.PostView) []PostResponse {
	out := make([]PostResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newPostResponse(v))
	}
	return out
}

// ReactionResponse reports the caller's reaction after a like or dislike.
type ReactionResponse struct {
	Liked    bool  `json:"liked"`
	Disliked bool  `json:"disliked"`
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

func newReactionResponse(r service.ReactionResult) ReactionResponse {
	return ReactionResponse{Liked: r.Liked(), Disliked: r.Disliked(), Likes: r.Likes, Dislikes: r.Dislikes}
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" example:"Request sent successfully"`
}

// endregion

// region --- Forums ---

// ForumResponse is a forum with its number of posts.
type ForumResponse struct {
	ID          uint        `json:"id" example:"1"`
	Title       string      `json:"title" example:"Exam season"`
	Description string      `json:"description" example:"Study groups and past papers"`
	Creator     UserSummary `json:"creator"`
	PostCount   int64       `json:"post_count"`
	CreatedAt   time.Time   `json:"created_at"`
}

func newForumResponse(v service.ForumView) ForumResponse {
	return ForumResponse{
		ID:          v.Forum.ID,
		Title:       v.Forum.Title,
		Description: v.Forum.Description,
		Creator:     newUserSummary(v.Forum.Creator),
		PostCount:   v.PostCount,
		CreatedAt:   v.Forum.CreatedAt,
	}
}

func newForumResponses(views []service.ForumView) []ForumResponse {
	out := make([]ForumResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newForumResponse(v))
	}
	return out
}

// ForumPostResponse is a post inside a forum.
type ForumPostResponse struct {
	ID           uint        `json:"id" example:"1"`
	ForumID      uint        `json:"forum_id" example:"1"`
	Author       UserSummary `json:"author"`
	Content      string      `json:"content" example:"Anyone have last year's paper?"`
	CreatedAt    time.Time   `json:"created_at"`
	Likes        int64       `json:"likes"`
	Dislikes     int64       `json:"dislikes"`
	LikedByMe    bool        `json:"liked_by_me"`
	DislikedByMe bool        `json:"disliked_by_me"`
}

func newForumPostResponse(v service.ForumPostView) ForumPostResponse {
	return ForumPostResponse{
		ID:           v.Post.ID,
		ForumID:      v.Post.ForumID,
		Author:       newUserSummary(v.Post.User),
		Content:      v.Post.Content,
		CreatedAt:    v.Post.CreatedAt,
		Likes:        v.Likes,
		Dislikes:     v.Dislikes,
		LikedByMe:    v.LikedByMe,
		DislikedByMe: v.DislikedByMe,
	}
}

func newForumPostResponses(views []service.ForumPostView) []ForumPostResponse {
	out := make([]ForumPostResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newForumPostResponse(v))
	}
	return out
}

// endregion
