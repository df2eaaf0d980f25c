package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kurihiro0119/portfolio-manifest/internal/aggregator"
	apperrors "github.com/kurihiro0119/portfolio-manifest/internal/errors"
)

// Handler handles API requests
type Handler struct {
	aggregator aggregator.Aggregator
}

// NewHandler creates a new API handler
func NewHandler(agg aggregator.Aggregator) *Handler {
	return &Handler{
		aggregator: agg,
	}
}

// HealthCheck reports liveness
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GetProjects returns every project of an owner
// GET /api/v1/owners/:owner/projects
func (h *Handler) GetProjects(c *gin.Context) {
	owner := c.Param("owner")

	projects, err := h.aggregator.GetProjects(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": projects,
	})
}

// GetProject returns a single project
// GET /api/v1/owners/:owner/projects/:name
func (h *Handler) GetProject(c *gin.Context) {
	owner := c.Param("owner")
	name := c.Param("name")

	project, err := h.aggregator.GetProject(c.Request.Context(), owner, name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": project,
	})
}

// GetStats returns manifest statistics for an owner
// GET /api/v1/owners/:owner/stats
func (h *Handler) GetStats(c *gin.Context) {
	owner := c.Param("owner")

	stats, err := h.aggregator.GetOwnerStats(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": stats,
	})
}

func respondError(c *gin.Context, err error) {
	code := apperrors.Code(err)

	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		status = http.StatusForbidden
	case apperrors.ErrCodeBadRequest:
		status = http.StatusBadRequest
	case apperrors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	}

	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
