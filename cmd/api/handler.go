package api

import (
	authusecase "taskboard-backend/internal/auth/usecase"
	boarddelivery "taskboard-backend/internal/board/delivery"
	boardusecase "taskboard-backend/internal/board/usecase"
	profiledelivery "taskboard-backend/internal/profile/delivery"
	profileusecase "taskboard-backend/internal/profile/usecase"
	"taskboard-backend/internal/stream"
	taskdelivery "taskboard-backend/internal/task/delivery"
	taskusecase "taskboard-backend/internal/task/usecase"
	"taskboard-backend/internal/tracker"
	trackerdelivery "taskboard-backend/internal/tracker/delivery"
	"taskboard-backend/pkg/config"
	"taskboard-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase    authusecase.AuthUsecase
	sseManager     *sse.Manager
	hub            *stream.Hub
	config         *config.Config
	taskHandler    *taskdelivery.TaskHandler
	boardHandler   *boarddelivery.BoardHandler
	profileHandler *profiledelivery.ProfileHandler
	trackerHandler *trackerdelivery.TrackerHandler
	viewsHandler   *ViewsHandler
}

func NewHandler(authUc authusecase.AuthUsecase, taskUc taskusecase.TaskUsecase, boardUc boardusecase.BoardUsecase, profileUc profileusecase.ProfileUsecase, trackerUc tracker.TrackerUsecase, sseManager *sse.Manager, hub *stream.Hub, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:    authUc,
		sseManager:     sseManager,
		hub:            hub,
		config:         cfg,
		taskHandler:    taskdelivery.NewTaskHandler(taskUc),
		boardHandler:   boarddelivery.NewBoardHandler(boardUc),
		profileHandler: profiledelivery.NewProfileHandler(profileUc),
		trackerHandler: trackerdelivery.NewTrackerHandler(trackerUc, authUc),
		viewsHandler:   NewViewsHandler(taskUc, boardUc),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)

	return r.Run(addr)
}
