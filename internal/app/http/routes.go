package routes

import (
	authapi "cafeplanner/internal/api/auth"
	plansapi "cafeplanner/internal/api/plans"
	reviewsapi "cafeplanner/internal/api/reviews"
	usersapi "cafeplanner/internal/api/users"
	"cafeplanner/internal/app/http/middleware"

	"cafeplanner/config"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	public := r.Group("/api")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/auth/register", authapi.Register)
	public.POST("/auth/login", authapi.Login)
	public.POST("/auth/logout", authapi.Logout)
	public.GET("/reviews", reviewsapi.ListReviews)

	if config.GoogleEnabled() {
		public.GET("/auth/google", authapi.GoogleStart)
		public.GET("/auth/google/callback", authapi.GoogleCallback)
	}

	// Authenticated
	auth := r.Group("/api")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())
	auth.GET("/auth/me", usersapi.GetCurrentUser)

	auth.GET("/plans", plansapi.ListPlans)
	auth.PUT("/plans/sync", plansapi.SyncPlans)

	auth.POST("/reviews", reviewsapi.CreateReview)
}
