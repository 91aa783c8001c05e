package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"feedgram/handlers"
	"feedgram/middleware"
	"feedgram/token"
)

// SetupRouter builds the full route table. Auth endpoints are public, post
// mutations require a valid access token, post reads take an optional token
// for per-viewer annotation.
func SetupRouter(tokens *token.Service) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := middleware.AuthRequired(tokens)
	authOptional := middleware.AuthOptional(tokens)

	auth := router.Group("/api/auth")
	auth.POST("/signup", handlers.Signup)
	auth.POST("/login", handlers.Login)
	auth.POST("/refresh-token", handlers.RefreshToken)

	post := router.Group("/api/post")
	post.POST("/create", authRequired, handlers.CreatePost)
	post.PUT("/update/:id", authRequired, handlers.UpdatePost)
	post.DELETE("/delete/:id", authRequired, handlers.DeletePost)
	post.PUT("/like/:id", authRequired, handlers.LikePost)
	post.PUT("/comment/:id", authRequired, handlers.CommentPost)
	post.DELETE("/comment/:id", authRequired, handlers.DeleteComment)
	post.GET("/list", authOptional, handlers.ListPosts)
	post.GET("/user/:id", authOptional, handlers.GetUserPosts)
	post.GET("/:id", authOptional, handlers.GetPost)

	profile := router.Group("/api/profile")
	profile.GET("/me", authRequired, handlers.GetMyProfile)
	profile.PUT("/update", authRequired, handlers.UpdateProfile)
	profile.GET("/:id", handlers.GetProfile)

	return router
}
