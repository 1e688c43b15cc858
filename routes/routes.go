package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vqlam/thesis-archive-backend/controllers"
	"github.com/vqlam/thesis-archive-backend/middleware"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	api.Use(middleware.DBMiddleware(db))

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/google", controllers.GoogleLogin)
		auth.POST("/change-password", middleware.AuthMiddleware(), controllers.ChangePassword)
		auth.GET("/me", middleware.AuthMiddleware(), controllers.Me)
	}

	// Public archive: browsing needs no account, downloads are attributed
	// when a token is present.
	public := api.Group("")
	{
		public.GET("/categories", controllers.GetActiveCategories)
		public.GET("/thesis", controllers.BrowseTheses)
		public.GET("/thesis/:id", controllers.GetThesisDetail)
		public.POST("/thesis/:id/download", middleware.OptionalAuthMiddleware(), controllers.RecordDownload)
	}

	user := api.Group("")
	{
		user.Use(middleware.AuthMiddleware())
		user.POST("/thesis/:id/favorite", controllers.AddFavorite)
		user.DELETE("/thesis/:id/favorite", controllers.RemoveFavorite)
		user.POST("/thesis/:id/rating", controllers.RateThesis)
		user.GET("/user/favorites", controllers.GetMyFavorites)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())

		// Thesis management
		admin.POST("/thesis", controllers.CreateThesis)
		admin.GET("/thesis", controllers.GetTheses)
		admin.PUT("/thesis", controllers.UpdateThesis)
		admin.DELETE("/thesis", controllers.DeleteThesis)

		// Category management
		admin.POST("/categories", controllers.CreateCategory)
		admin.GET("/categories", controllers.GetCategories)
		admin.GET("/categories/:id", controllers.GetCategoryDetail)
		admin.PUT("/categories/:id", controllers.UpdateCategory)
		admin.DELETE("/categories/:id", controllers.DeleteCategory)
		admin.PATCH("/categories/:id/toggle-active", controllers.ToggleCategoryActive)

		// Dashboard
		admin.GET("/stats/overview", controllers.GetDashboardOverview)
		admin.GET("/stats/monthly", controllers.GetMonthlySubmissions)
	}

	return r
}
