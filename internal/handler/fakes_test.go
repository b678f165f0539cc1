package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"campusnet/backend/internal/auth"
	"campusnet/backend/internal/models"
	"campusnet/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// call records the ids an operation was invoked with.
type call struct {
	actor, target uint
}

type fakeRelations struct {
	err   error
	calls []call
	list  service.UserList
}

func (f *fakeRelations) record(_ context.Context, a, b uint) error {
	f.calls = append(f.calls, call{a, b})
	return f.err
}

func (f *fakeRelations) SendRequest(ctx context.Context, a, b uint) error   { return f.record(ctx, a, b) }
func (f *fakeRelations) AcceptRequest(ctx context.Context, a, b uint) error { return f.record(ctx, a, b) }
func (f *fakeRelations) RejectRequest(ctx context.Context, a, b uint) error { return f.record(ctx, a, b) }
func (f *fakeRelations) CancelRequest(ctx context.Context, a, b uint) error { return f.record(ctx, a, b) }
func (f *fakeRelations) RemoveFriend(ctx context.Context, a, b uint) error  { return f.record(ctx, a, b) }

func (f *fakeRelations) ListFriends(context.Context, uint) (service.UserList, error) {
	return f.list, f.err
}

func (f *fakeRelations) ListRequests(context.Context, uint) (service.UserList, error) {
	return f.list, f.err
}

type fakePosts struct {
	err      error
	calls    []call
	views    []service.PostView
	total    int64
	reaction service.ReactionResult
	kinds    []models.ReactionKind
	page     service.Page
}

func (f *fakePosts) CreatePost(_ context.Context, actorID uint, content, imageRef string) (*service.PostView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.PostView{Post: models.Post{ID: 1, UserID: actorID, Content: content, ImageRef: imageRef, Visibility: true}}, nil
}

func (f *fakePosts) GetPost(_ context.Context, _, postID uint) (*service.PostView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.PostView{Post: models.Post{ID: postID, Visibility: true}}, nil
}

func (f *fakePosts) ListPublic(_ context.Context, viewerID uint, page service.Page) ([]service.PostView, int64, error) {
	f.calls = append(f.calls, call{actor: viewerID})
	f.page = page
	return f.views, f.total, f.err
}

func (f *fakePosts) ListUserPosts(_ context.Context, viewerID, ownerID uint, page service.Page) ([]service.PostView, int64, error) {
	f.calls = append(f.calls, call{viewerID, ownerID})
	f.page = page
	return f.views, f.total, f.err
}

func (f *fakePosts) React(_ context.Context, actorID, postID uint, kind models.ReactionKind) (*service.ReactionResult, error) {
	f.calls = append(f.calls, call{actorID, postID})
	f.kinds = append(f.kinds, kind)
	if f.err != nil {
		return nil, f.err
	}
	return &f.reaction, nil
}

func (f *fakePosts) Comment(_ context.Context, actorID, postID uint, text string) (*models.Comment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Comment{ID: 9, PostID: postID, UserID: actorID, AuthorUsername: "ada", Content: text}, nil
}

func (f *fakePosts) SoftDelete(_ context.Context, a, b uint) error {
	f.calls = append(f.calls, call{a, b})
	return f.err
}

func (f *fakePosts) SavePost(_ context.Context, a, b uint) error {
	f.calls = append(f.calls, call{a, b})
	return f.err
}

func (f *fakePosts) UnsavePost(_ context.Context, a, b uint) error {
	f.calls = append(f.calls, call{a, b})
	return f.err
}

func (f *fakePosts) ListSaved(_ context.Context, actorID uint, page service.Page) ([]service.PostView, int64, error) {
	f.calls = append(f.calls, call{actor: actorID})
	f.page = page
	return f.views, f.total, f.err
}

type fakeModeration struct {
	err   error
	calls []call
	views []service.PostView
	users []models.User
	total int64
}

func (f *fakeModeration) Report(_ context.Context, a, b uint) error {
	f.calls = append(f.calls, call{a, b})
	return f.err
}

func (f *fakeModeration) Unreport(_ context.Context, a, b uint) error {
	f.calls = append(f.calls, call{a, b})
	return f.err
}

func (f *fakeModeration) ListReported(context.Context, service.Page) ([]service.PostView, int64, error) {
	return f.views, f.total, f.err
}

func (f *fakeModeration) ListAllPosts(context.Context, service.Page) ([]service.PostView, int64, error) {
	return f.views, f.total, f.err
}

func (f *fakeModeration) ListUsers(context.Context, string, service.Page) ([]models.User, int64, error) {
	return f.users, f.total, f.err
}

func (f *fakeModeration) HardDelete(_ context.Context, postID uint) error {
	f.calls = append(f.calls, call{target: postID})
	return f.err
}

func (f *fakeModeration) DeleteComment(_ context.Context, postID, commentID uint) error {
	f.calls = append(f.calls, call{postID, commentID})
	return f.err
}

type fakeAccounts struct {
	err          error
	registered   service.Registration
	profile      service.Profile
	bio          models.Bio
	profileCalls []call
	searched     string
	searchPage   service.Page
	users        []models.User
}

func (f *fakeAccounts) Register(_ context.Context, in service.Registration) (*models.User, string, error) {
	f.registered = in
	if f.err != nil {
		return nil, "", f.err
	}
	return &models.User{Name: in.Name, Username: in.Username}, "token", nil
}

func (f *fakeAccounts) Login(_ context.Context, login, _ string) (*models.User, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return &models.User{Username: login}, "token", nil
}

func (f *fakeAccounts) Profile(_ context.Context, viewerID, targetID uint) (*service.Profile, error) {
	f.profileCalls = append(f.profileCalls, call{viewerID, targetID})
	if f.err != nil {
		return nil, f.err
	}
	p := f.profile
	return &p, nil
}

func (f *fakeAccounts) SearchUsers(_ context.Context, q string, page service.Page) ([]models.User, int64, error) {
	f.searched, f.searchPage = q, page
	return f.users, int64(len(f.users)), f.err
}

func (f *fakeAccounts) SetProfileImage(_ context.Context, _ uint, ref string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ProfileImage: ref}, nil
}

func (f *fakeAccounts) SetBio(_ context.Context, _ uint, text string) (models.Bio, error) {
	if f.err != nil {
		return f.bio, f.err
	}
	return models.Bio{State: models.BioSet, Text: text}, nil
}

func (f *fakeAccounts) UpdateBio(ctx context.Context, actorID uint, text string) (models.Bio, error) {
	return f.SetBio(ctx, actorID, text)
}

func (f *fakeAccounts) DeleteBio(context.Context, uint) (models.Bio, error) {
	return models.Bio{State: models.BioUnset}, f.err
}

// newTestRouter returns an engine whose requests are authenticated as userID.
// A zero userID leaves requests anonymous.
func newTestRouter(userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set(auth.ContextUserID, userID)
		}
		c.Next()
	})
	return r
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type fakeForums struct {
	err      error
	calls    []call
	forums   []service.ForumView
	found    []models.Forum
	posts    []service.ForumPostView
	total    int64
	reaction service.ReactionResult
	kinds    []models.ReactionKind
	query    string
	limit    int
	deleted  []uint
}

func (f *fakeForums) CreateForum(_ context.Context, adminID uint, title, description string) (*models.Forum, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Forum{ID: 1, Title: title, Description: description, CreatedBy: adminID}, nil
}

func (f *fakeForums) ListForums(context.Context, service.Page) ([]service.ForumView, int64, error) {
	return f.forums, f.total, f.err
}

func (f *fakeForums) GetForum(_ context.Context, forumID uint) (*service.ForumView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.ForumView{Forum: models.Forum{ID: forumID}}, nil
}

func (f *fakeForums) SearchForums(_ context.Context, q string, limit int) ([]models.Forum, error) {
	f.query, f.limit = q, limit
	return f.found, f.err
}

func (f *fakeForums) DeleteForum(_ context.Context, forumID uint) error {
	f.deleted = append(f.deleted, forumID)
	return f.err
}

func (f *fakeForums) CreateForumPost(_ context.Context, actorID, forumID uint, content string) (*service.ForumPostView, error) {
	f.calls = append(f.calls, call{actorID, forumID})
	if f.err != nil {
		return nil, f.err
	}
	return &service.ForumPostView{Post: models.ForumPost{ID: 9, ForumID: forumID, UserID: actorID, Content: content}}, nil
}

func (f *fakeForums) ListForumPosts(_ context.Context, viewerID, forumID uint, _ service.Page) ([]service.ForumPostView, int64, error) {
	f.calls = append(f.calls, call{viewerID, forumID})
	return f.posts, f.total, f.err
}

func (f *fakeForums) ReactForumPost(_ context.Context, actorID, forumPostID uint, kind models.ReactionKind) (*service.ReactionResult, error) {
	f.calls = append(f.calls, call{actorID, forumPostID})
	f.kinds = append(f.kinds, kind)
	if f.err != nil {
		return nil, f.err
	}
	return &f.reaction, nil
}
