package routes

import (
	"timesheet-planning-api/controllers"
	"timesheet-planning-api/middleware"
	"timesheet-planning-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Timesheet Planning API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Organization
			protected.POST("/organizations", middleware.RequireRole(models.RoleAdmin), controllers.CreateOrganization)
			protected.GET("/organization", controllers.GetOrganization)

			// Users
			protected.POST("/users", middleware.RequireRole(models.RoleAdmin), controllers.CreateUser)
			protected.GET("/users", controllers.GetUsers)

			// Planning role catalog
			protected.GET("/org-roles", controllers.GetOrgRoles)
			protected.POST("/org-roles", middleware.RequireRole(models.RoleAdmin), controllers.CreateOrgRole)

			// Projects
			projects := protected.Group("/projects")
			{
				projects.GET("", controllers.GetProjects)
				projects.GET("/:id", controllers.GetProject)
				projects.POST("", middleware.RequireRole(models.RoleManager, models.RoleAdmin), controllers.CreateProject)
				projects.POST("/:id/complete", middleware.RequireRole(models.RoleManager, models.RoleAdmin), controllers.CompleteProject)

				// Cost planning (managers and admins mutate, everyone reads)
				projects.GET("/:id/setup", controllers.GetProjectSetup)
				projects.PUT("/:id/setup/draft", middleware.RequireRole(models.RoleManager, models.RoleAdmin), controllers.SaveProjectDraft)
				projects.PATCH("/:id/setup/pricing", middleware.RequireRole(models.RoleManager, models.RoleAdmin), controllers.UpdateSetupPricing)
				projects.POST("/:id/setup/finalize", middleware.RequireRole(models.RoleManager, models.RoleAdmin), controllers.FinalizeProject)
				projects.GET("/:id/cost-summary", controllers.GetProjectCostSummary)

				projects.GET("/:id/timesheets", controllers.GetProjectTimesheets)
			}

			// Timesheets
			protected.POST("/timesheets/:id/entries", controllers.AddTimesheetEntry)
		}
	}
}
