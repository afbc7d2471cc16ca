package api

import (
	"net/http"

	boarddomain "taskboard-backend/internal/board/domain"
	boardusecase "taskboard-backend/internal/board/usecase"
	taskusecase "taskboard-backend/internal/task/usecase"
	"taskboard-backend/internal/view"

	"github.com/gin-gonic/gin"
)

// ViewsHandler serves the derived projections over plain requests, the same
// shapes the event stream pushes.
type ViewsHandler struct {
	taskUsecase  taskusecase.TaskUsecase
	boardUsecase boardusecase.BoardUsecase
}

func NewViewsHandler(taskUc taskusecase.TaskUsecase, boardUc boardusecase.BoardUsecase) *ViewsHandler {
	return &ViewsHandler{taskUsecase: taskUc, boardUsecase: boardUc}
}

// GetTaskList returns the display-ordered task list split into incomplete and
// completed sections. ?board= restricts to one board.
func (h *ViewsHandler) GetTaskList(c *gin.Context) {
	tasks, err := h.taskUsecase.GetUserTasks(c.Request.Context(), c.GetString("userID"), c.Query("board"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sorted := view.SortTasks(tasks)
	incomplete, completed := view.PartitionByCompletion(sorted)
	c.JSON(http.StatusOK, gin.H{
		"incomplete": incomplete,
		"completed":  completed,
	})
}

// GetCalendar returns deadline buckets plus per-date markers. ?date= selects
// a day (defaults to today).
func (h *ViewsHandler) GetCalendar(c *gin.Context) {
	userID := c.GetString("userID")

	tasks, err := h.taskUsecase.GetUserTasks(c.Request.Context(), userID, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	boards, err := h.boardUsecase.GetUserBoards(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	selected := c.Query("date")
	if selected == "" {
		selected = view.Today()
	}

	accent := boarddomain.Palette[0]
	buckets := view.BucketByDeadline(tasks, boards, accent)
	markers := view.DateMarkers(buckets, selected, accent)
	c.JSON(http.StatusOK, gin.H{
		"buckets": buckets,
		"markers": markers,
	})
}
