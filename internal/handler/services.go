package handler

import (
	"context"

	"campusnet/backend/internal/models"
	"campusnet/backend/internal/service"
)

// AccountService is the account and profile API used by UserHandler.
type AccountService interface {
	Register(ctx context.Context, in service.Registration) (*models.User, string, error)
	Login(ctx context.Context, login, password string) (*models.User, string, error)
	Profile(ctx context.Context, viewerID, targetID uint) (*service.Profile, error)
	SearchUsers(ctx context.Context, q string, page service.Page) ([]models.User, int64, error)
	SetProfileImage(ctx context.Context, actorID uint, ref string) (*models.User, error)
	SetBio(ctx context.Context, actorID uint, text string) (models.Bio, error)
	UpdateBio(ctx context.Context, actorID uint, text string) (models.Bio, error)
	DeleteBio(ctx context.Context, actorID uint) (models.Bio, error)
}

// RelationshipService is the friend graph API used by RelationHandler.
type RelationshipService interface {
	SendRequest(ctx context.Context, actorID, targetID uint) error
	AcceptRequest(ctx context.Context, actorID, requesterID uint) error
	RejectRequest(ctx context.Context, actorID, requesterID uint) error
	CancelRequest(ctx context.Context, actorID, targetID uint) error
	RemoveFriend(ctx context.Context, actorID, otherID uint) error
	ListFriends(ctx context.Context, actorID uint) (service.UserList, error)
	ListRequests(ctx context.Context, actorID uint) (service.UserList, error)
}

// PostService is the content API used by PostHandler and UserHandler.
type PostService interface {
	CreatePost(ctx context.Context, actorID uint, content, imageRef string) (*service.PostView, error)
	GetPost(ctx context.Context, viewerID, postID uint) (*service.PostView, error)
	ListPublic(ctx context.Context, viewerID uint, page service.Page) ([]service.PostView, int64, error)
	ListUserPosts(ctx context.Context, viewerID, ownerID uint, page service.Page) ([]service.PostView, int64, error)
	React(ctx context.Context, actorID, postID uint, kind models.ReactionKind) (*service.ReactionResult, error)
	Comment(ctx context.Context, actorID, postID uint, text string) (*models.Comment, error)
	SoftDelete(ctx context.Context, actorID, postID uint) error
	SavePost(ctx context.Context, actorID, postID uint) error
	UnsavePost(ctx context.Context, actorID, postID uint) error
	ListSaved(ctx context.Context, actorID uint, page service.Page) ([]service.PostView, int64, error)
}

// ModerationService is the reporting and admin API.
type ModerationService interface {
	Report(ctx context.Context, actorID, postID uint) error
	Unreport(ctx context.Context, actorID, postID uint) error
	ListReported(ctx context.Context, page service.Page) ([]service.PostView, int64, error)
	ListAllPosts(ctx context.Context, page service.Page) ([]service.PostView, int64, error)
	ListUsers(ctx context.Context, q string, page service.Page) ([]models.User, int64, error)
	HardDelete(ctx context.Context, postID uint) error
	DeleteComment(ctx context.Context, postID, commentID uint) error
}

// ForumService is the forum API used by ForumHandler.
type ForumService interface {
	CreateForum(ctx context.Context, adminID uint, title, description string) (*models.Forum, error)
	ListForums(ctx context.Context, page service.Page) ([]service.ForumView, int64, error)
	GetForum(ctx context.Context, forumID uint) (*service.ForumView, error)
	SearchForums(ctx context.Context, q string, limit int) ([]models.Forum, error)
	DeleteForum(ctx context.Context, forumID uint) error
	CreateForumPost(ctx context.Context, actorID, forumID uint, content string) (*service.ForumPostView, error)
	ListForumPosts(ctx context.Context, viewerID, forumID uint, page service.Page) ([]service.ForumPostView, int64, error)
	ReactForumPost(ctx context.Context, actorID, forumPostID uint, kind models.ReactionKind) (*service.ReactionResult, error)
}
