package server

import (
	"net/http"
	"time"

	"campusnet/backend/internal/auth"
	"campusnet/backend/internal/handler"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Log            *zap.Logger
	Tokens         auth.TokenParser
	Roles          auth.RoleLookup
	Users          *handler.UserHandler
	Relations      *handler.RelationHandler
	Posts          *handler.PostHandler
	Admin          *handler.AdminHandler
	Forums         *handler.ForumHandler
	Events         *handler.EventHandler
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(requestID(), ginLogger(d.Log), recovery(d.Log), cors(d.AllowedOrigins))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	requireAuth := auth.AuthMiddleware(d.Tokens)
	bounded := timeout(d.RequestTimeout)

	apiV1 := router.Group("/api/v1")
	{
		// Event stream is long-lived and stays outside the request timeout
		apiV1.GET("/users/me/events", requireAuth, d.Events.Stream)

		// Auth routes
		authRoutes := apiV1.Group("/auth")
		authRoutes.Use(bounded)
		{
			authRoutes.POST("/register", d.Users.Register)
			authRoutes.POST("/login", d.Users.Login)
		}

		// Public post routes
		publicPosts := apiV1.Group("/posts")
		publicPosts.Use(bounded, auth.OptionalAuthMiddleware(d.Tokens))
		{
			publicPosts.GET("", d.Posts.ListPosts)
			publicPosts.GET("/:id", d.Posts.GetPost)
		}

		// Public forum routes
		publicForums := apiV1.Group("/forums")
		publicForums.Use(bounded, auth.OptionalAuthMiddleware(d.Tokens))
		{
			publicForums.GET("", d.Forums.ListForums)
			publicForums.GET("/search", d.Forums.SearchForums)
			publicForums.GET("/:id", d.Forums.GetForum)
			publicForums.GET("/:id/posts", d.Forums.ListPosts)
		}

		// Forum routes (protected)
		forumRoutes := apiV1.Group("/forums")
		forumRoutes.Use(bounded, requireAuth)
		{
			forumRoutes.POST("/:id/posts", d.Forums.CreatePost)
			forumRoutes.POST("/posts/:postID/like", d.Forums.LikePost)
			forumRoutes.POST("/posts/:postID/dislike", d.Forums.DislikePost)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(bounded, requireAuth)
		{
			userRoutes.GET("", d.Users.SearchUsers)
			userRoutes.GET("/me", d.Users.GetMe)
			userRoutes.GET("/me/friends", d.Relations.GetFriends)
			userRoutes.GET("/me/requests", d.Relations.GetRequests)
			userRoutes.PUT("/me/image", d.Users.UpdateProfileImage)
			userRoutes.POST("/me/bio", d.Users.SetBio)
			userRoutes.PUT("/me/bio", d.Users.UpdateBio)
			userRoutes.DELETE("/me/bio", d.Users.DeleteBio)
			userRoutes.GET("/:id", d.Users.GetUserByID)
			userRoutes.GET("/:id/posts", d.Users.GetUserPosts)

			// Friendship routes
			userRoutes.POST("/:id/request", d.Relations.SendRequest)
			userRoutes.POST("/:id/cancel", d.Relations.CancelRequest)
			userRoutes.POST("/:id/accept", d.Relations.AcceptRequest)
			userRoutes.POST("/:id/reject", d.Relations.RejectRequest)
			userRoutes.DELETE("/:id/friend", d.Relations.RemoveFriend)
		}

		// Post routes (protected)
		postRoutes := apiV1.Group("/posts")
		postRoutes.Use(bounded, requireAuth)
		{
			postRoutes.POST("", d.Posts.CreatePost)
			postRoutes.GET("/mine", d.Posts.MyPosts)
			postRoutes.GET("/saved", d.Posts.SavedPosts)
			postRoutes.DELETE("/:id", d.Posts.DeletePost)
			postRoutes.POST("/:id/like", d.Posts.Like)
			postRoutes.POST("/:id/dislike", d.Posts.Dislike)
			postRoutes.POST("/:id/comments", d.Posts.AddComment)
			postRoutes.POST("/:id/report", d.Posts.Report)
			postRoutes.DELETE("/:id/report", d.Posts.Unreport)
			postRoutes.POST("/:id/save", d.Posts.Save)
			postRoutes.DELETE("/:id/save", d.Posts.Unsave)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(bounded, requireAuth, auth.AdminMiddleware(d.Roles))
		{
			adminRoutes.GET("/posts", d.Admin.ListPosts)
			adminRoutes.GET("/reports", d.Admin.ListReported)
			adminRoutes.GET("/users", d.Admin.ListUsers)
			adminRoutes.DELETE("/posts/:id", d.Admin.DeletePost)
			adminRoutes.DELETE("/posts/:id/comments/:commentID", d.Admin.DeleteComment)
			adminRoutes.POST("/forums", d.Forums.CreateForum)
			adminRoutes.DELETE("/forums/:id", d.Forums.DeleteForum)
		}
	}

	return router
}
