package delivery

import (
	"errors"
	"net/http"
	"strconv"

	authusecase "taskboard-backend/internal/auth/usecase"
	"taskboard-backend/internal/tracker"

	"github.com/gin-gonic/gin"
)

type TrackerHandler struct {
	trackerUsecase tracker.TrackerUsecase
	authUsecase    authusecase.AuthUsecase
}

func NewTrackerHandler(trackerUsecase tracker.TrackerUsecase, authUsecase authusecase.AuthUsecase) *TrackerHandler {
	return &TrackerHandler{trackerUsecase: trackerUsecase, authUsecase: authUsecase}
}

// BeginAuth starts the OAuth flow and hands the device the URL to open.
func (h *TrackerHandler) BeginAuth(c *gin.Context) {
	authURL := h.trackerUsecase.BeginAuth(c.GetString("userID"))
	c.JSON(http.StatusOK, gin.H{"auth_url": authURL})
}

type completeAuthRequest struct {
	Code string `json:"code" binding:"required"`
}

// CompleteAuth exchanges the authorization code and links the GitHub account
// to the signed-in user.
func (h *TrackerHandler) CompleteAuth(c *gin.Context) {
	var req completeAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	token, err := h.trackerUsecase.CompleteAuth(c.Request.Context(), userID, req.Code)
	if err != nil {
		if errors.Is(err, tracker.ErrAuthNotStarted) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authUsecase.GithubSignIn(c.Request.Context(), userID, token)
	if err != nil {
		if errors.Is(err, authusecase.ErrCredentialInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TrackerHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.trackerUsecase.State(c.GetString("userID"))})
}

func (h *TrackerHandler) ListRepositories(c *gin.Context) {
	repos, err := h.trackerUsecase.ListRepositories(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondTrackerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"repositories": repos})
}

func (h *TrackerHandler) ListIssues(c *gin.Context) {
	issues, err := h.trackerUsecase.ListIssues(c.Request.Context(), c.GetString("userID"),
		c.Param("owner"), c.Param("repo"), c.Query("state"))
	if err != nil {
		respondTrackerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

type createIssueRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

func (h *TrackerHandler) CreateIssue(c *gin.Context) {
	var req createIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.trackerUsecase.CreateIssue(c.Request.Context(), c.GetString("userID"),
		c.Param("owner"), c.Param("repo"), req.Title, req.Body)
	if err != nil {
		respondTrackerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, issue)
}

func (h *TrackerHandler) CloseIssue(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue number"})
		return
	}

	issue, err := h.trackerUsecase.CloseIssue(c.Request.Context(), c.GetString("userID"),
		c.Param("owner"), c.Param("repo"), number)
	if err != nil {
		respondTrackerError(c, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *TrackerHandler) ImportIssues(c *gin.Context) {
	imported, err := h.trackerUsecase.ImportIssues(c.Request.Context(), c.GetString("userID"),
		c.Param("owner"), c.Param("repo"))
	if err != nil {
		respondTrackerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": imported})
}

func respondTrackerError(c *gin.Context, err error) {
	if errors.Is(err, tracker.ErrNotLinked) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
