package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/streamhive/streamhive-backend/controllers"
	"github.com/streamhive/streamhive-backend/database"
	"github.com/streamhive/streamhive-backend/middleware"
	"github.com/streamhive/streamhive-backend/models"
	"github.com/streamhive/streamhive-backend/utils"
)

func setupRouter(store utils.MediaStore, v *utils.FileValidator) *gin.Engine {
	r := gin.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler())
	r.NoRoute(middleware.NotFoundHandler())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", controllers.RegisterUser(store, v))
		users.POST("/login", controllers.LoginUser())
		users.POST("/refresh-token", controllers.RefreshAccessToken())
		users.POST("/request-password-reset", controllers.RequestPasswordReset())
		users.POST("/reset-password", controllers.ResetPassword())

		protected := users.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/logout", controllers.LogoutUser())
			protected.GET("/current-user", controllers.GetCurrentUser())
			protected.PATCH("/change-password", controllers.ChangePassword())
			protected.PATCH("/update-account", controllers.UpdateAccount())
			protected.PATCH("/avatar", controllers.UpdateAvatar(store, v))
			protected.PATCH("/cover-image", controllers.UpdateCoverImage(store, v))
			protected.GET("/c/:username", controllers.GetUserChannelProfile())
			protected.GET("/history", controllers.GetWatchHistory())
		}
	}

	videos := v1.Group("/videos")
	{
		videos.GET("", controllers.GetVideos())
		videos.GET("/:id", controllers.GetVideo())

		protected := videos.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("", controllers.PublishVideo(store, v))
			protected.POST("/:id/watch", controllers.WatchVideo())
			protected.PATCH("/:id", controllers.UpdateVideo())
			protected.DELETE("/:id", controllers.DeleteVideo(store))
		}
	}

	subscriptions := v1.Group("/subscriptions")
	subscriptions.Use(middleware.AuthMiddleware())
	{
		subscriptions.POST("/c/:channelId", controllers.ToggleSubscription())
		subscriptions.GET("/c/:channelId", controllers.GetChannelSubscribers())
		subscriptions.GET("/u/:subscriberId", controllers.GetSubscribedChannels())
	}

	playlists := v1.Group("/playlists")
	playlists.Use(middleware.AuthMiddleware())
	{
		playlists.POST("", controllers.CreatePlaylist())
		playlists.GET("", controllers.GetMyPlaylists())
		playlists.PATCH("/:id/videos/:videoId", controllers.AddVideoToPlaylist())
		playlists.DELETE("/:id/videos/:videoId", controllers.RemoveVideoFromPlaylist())
		playlists.DELETE("/:id", controllers.DeletePlaylist())
	}

	likes := v1.Group("/likes")
	likes.Use(middleware.AuthMiddleware())
	{
		likes.POST("/toggle", controllers.ToggleLike())
	}

	notifications := v1.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", controllers.GetNotifications())
		notifications.PATCH("/read-all", controllers.MarkAllNotificationsRead())
		notifications.PATCH("/:id/read", controllers.MarkNotificationRead())
	}

	analytics := v1.Group("/analytics")
	analytics.Use(middleware.AuthMiddleware())
	{
		analytics.GET("/c/:channelId", controllers.GetChannelAnalytics())
	}

	return r
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}

	ctx := context.Background()
	if err := models.EnsureIndexes(ctx, database.Database()); err != nil {
		log.Fatal(err)
	}

	store, err := utils.NewMediaStoreFromEnv(ctx)
	if err != nil {
		log.Fatal(err)
	}
	v := utils.NewImageOrVideoValidator()

	r := setupRouter(store, v)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
