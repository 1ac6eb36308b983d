package handlers

import (
	"context"
	"net/http"
	"strconv"

	"foodshare-service/internal/repository"
	"foodshare-service/pkg/errors"
	"foodshare-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// fail hands err to the ErrorHandler middleware.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		fail(c, errors.NewInvalidRequest("invalid request body", err.Error()))
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		fail(c, errors.NewValidationError("invalid id format", name))
		return uuid.Nil, false
	}
	return id, true
}

// pageQuery reads page and limit. Absent values are left zero for the filter defaults.
func pageQuery(c *gin.Context) (repository.Page, bool) {
	var p repository.Page
	for _, q := range []struct {
		name string
		dest *int
	}{{"page", &p.Page}, {"limit", &p.Limit}} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fail(c, errors.NewValidationError(q.name+" must be a positive integer", q.name))
			return p, false
		}
		*q.dest = n
	}
	return p, true
}

func caller(c *gin.Context) uuid.UUID {
	return middleware.CallerID(c)
}

// HealthCheck handles GET /api/v1/health
// @Summary      Health check endpoint
// @Description  Reports whether the service and its store are reachable.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  ErrorResponse
// @Router       /health [get]
func HealthCheck(pinger interface {
	Ping(ctx context.Context) error
}) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := pinger.Ping(c.Request.Context()); err != nil {
			fail(c, errors.NewServiceUnavailable("database unreachable"))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "foodshare-service",
		})
	}
}
