package api

import (
	"net/http"

	"taskboard-backend/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	authHandler := delivery.NewAuthHandler(h.authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// SSE endpoint: opens the live board/task subscriptions for this
		// connection and tears them down when the device disconnects.
		api.GET("/events", delivery.AuthMiddleware(h.authUsecase), func(c *gin.Context) {
			userID := c.GetString("userID")
			teardown, err := h.hub.Open(c.Request.Context(), userID, c.Query("board"))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			defer teardown()
			h.sseManager.ServeHTTP(c, userID)
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/github", authHandler.GithubSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", delivery.AuthMiddleware(h.authUsecase), authHandler.Me)
			auth.POST("/logout", authHandler.Logout)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			fcm.POST("/register", authHandler.RegisterFCMToken)
			fcm.DELETE("/:token", authHandler.UnregisterFCMToken)
		}

		// Profile routes (protected)
		profile := api.Group("/profile")
		profile.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			profile.GET("", h.profileHandler.GetProfile)
			profile.PUT("", h.profileHandler.UpdateProfile)
		}

		// Board routes (protected)
		boards := api.Group("/boards")
		boards.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			boards.GET("", h.boardHandler.GetBoards)
			boards.POST("", h.boardHandler.CreateBoard)
			boards.GET("/palette", h.boardHandler.GetPalette)
			boards.GET("/:id", h.boardHandler.GetBoardByID)
			boards.PATCH("/:id", h.boardHandler.UpdateBoard)
			boards.DELETE("/:id", h.boardHandler.DeleteBoard)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			tasks.GET("", h.taskHandler.GetTasks)
			tasks.POST("", h.taskHandler.CreateTask)
			tasks.GET("/:id", h.taskHandler.GetTaskByID)
			tasks.PUT("/:id", h.taskHandler.UpdateTask)
			tasks.DELETE("/:id", h.taskHandler.DeleteTask)
			tasks.PATCH("/:id/completion", h.taskHandler.SetCompletion)
			tasks.PATCH("/:id/priority", h.taskHandler.SetPriority)
			tasks.PATCH("/:id/board", h.taskHandler.MoveToBoard)
		}

		// Derived view routes (protected)
		views := api.Group("/views")
		views.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			views.GET("/tasks", h.viewsHandler.GetTaskList)
			views.GET("/calendar", h.viewsHandler.GetCalendar)
		}

		// GitHub routes (protected)
		github := api.Group("/github")
		github.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			github.POST("/auth", h.trackerHandler.BeginAuth)
			github.POST("/auth/callback", h.trackerHandler.CompleteAuth)
			github.GET("/status", h.trackerHandler.Status)
			github.GET("/repos", h.trackerHandler.ListRepositories)
			github.GET("/repos/:owner/:repo/issues", h.trackerHandler.ListIssues)
			github.POST("/repos/:owner/:repo/issues", h.trackerHandler.CreateIssue)
			github.PATCH("/repos/:owner/:repo/issues/:number/close", h.trackerHandler.CloseIssue)
			github.POST("/repos/:owner/:repo/import", h.trackerHandler.ImportIssues)
		}
	}
}
