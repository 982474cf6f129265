package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk/internal/app/controllers"
	"github.com/campusdesk/campusdesk/internal/app/models"
	"github.com/campusdesk/campusdesk/internal/middleware"
	"github.com/campusdesk/campusdesk/internal/pkg/realtime"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	issueController *controllers.IssueController,
	categoryController *controllers.CategoryController,
	notificationController *controllers.NotificationController,
	userController *controllers.UserController,
	analyticsController *controllers.AnalyticsController,
	uploadController *controllers.UploadController,
	realtimeHandler *realtime.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	v1.GET("/categories", categoryController.List)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		issues := authenticated.Group("/issues")
		{
			issues.POST("", issueController.Create)
			issues.GET("", issueController.ListMine)
			issues.GET("/:id", issueController.Get)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.List)
			notifications.PATCH("/:id/read", notificationController.MarkRead)
		}

		authenticated.PATCH("/users/profile", userController.UpdateProfile)
		authenticated.POST("/upload", uploadController.Upload)

		// Websocket handshake carries the token as a query parameter
		authenticated.GET("/ws", realtimeHandler.HandleConnection)

		// --- Admin routes ---
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.GET("/issues", issueController.ListAll)
			admin.PATCH("/issues/:id/status", issueController.UpdateStatus)
			admin.GET("/analytics", analyticsController.GetDashboard)
			admin.GET("/users", userController.ListAll)
		}
	}
}
