package delivery

import (
	"errors"
	"net/http"

	"taskboard-backend/internal/board/domain"
	"taskboard-backend/internal/board/usecase"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boardUsecase usecase.BoardUsecase
}

func NewBoardHandler(boardUsecase usecase.BoardUsecase) *BoardHandler {
	return &BoardHandler{boardUsecase: boardUsecase}
}

type createBoardRequest struct {
	Name       string `json:"name" binding:"required"`
	Color      string `json:"color"`
	CoverImage string `json:"cover_image"`
}

func (h *BoardHandler) CreateBoard(c *gin.Context) {
	var req createBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := h.boardUsecase.CreateBoard(c.Request.Context(), c.GetString("userID"), req.Name, req.Color, req.CoverImage)
	if err != nil {
		respondBoardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

func (h *BoardHandler) GetBoards(c *gin.Context) {
	boards, err := h.boardUsecase.GetUserBoards(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (h *BoardHandler) GetBoardByID(c *gin.Context) {
	board, err := h.boardUsecase.GetBoard(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		respondBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GetPalette returns the fixed set of colors a board may use.
func (h *BoardHandler) GetPalette(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"colors": domain.Palette})
}

type updateBoardRequest struct {
	Name       *string `json:"name"`
	Color      *string `json:"color"`
	CoverImage *string `json:"cover_image"`
}

// UpdateBoard applies whichever of name, color and cover image are present.
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	var req updateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	boardID := c.Param("id")

	if req.Name != nil {
		if err := h.boardUsecase.Rename(c.Request.Context(), userID, boardID, *req.Name); err != nil {
			respondBoardError(c, err)
			return
		}
	}
	if req.Color != nil {
		if err := h.boardUsecase.Recolor(c.Request.Context(), userID, boardID, *req.Color); err != nil {
			respondBoardError(c, err)
			return
		}
	}
	if req.CoverImage != nil {
		if err := h.boardUsecase.SetCover(c.Request.Context(), userID, boardID, *req.CoverImage); err != nil {
			respondBoardError(c, err)
			return
		}
	}

	board, err := h.boardUsecase.GetBoard(c.Request.Context(), userID, boardID)
	if err != nil {
		respondBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	deleted, err := h.boardUsecase.DeleteBoardCascade(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		respondBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "board deleted", "tasks_deleted": deleted})
}

func respondBoardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrEmptyName), errors.Is(err, usecase.ErrInvalidColor):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
