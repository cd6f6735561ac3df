package gateway

import (
	"errors"
	"net/http"

	"github.com/example/honeystore/pkg/metrics"
	"github.com/example/honeystore/pkg/models"
	"github.com/example/honeystore/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxErrorDetail = 200

type MessageResponse struct {
	Message string `json:"message" example:"Seeded default products"`
}

type CreatedResponse struct {
	ID      string `json:"id" example:"665f1c2ab3e4d5f6a7b8c9d0"`
	Message string `json:"message" example:"Product created"`
}

type OrderCreatedResponse struct {
	ID      string  `json:"id" example:"665f1c2ab3e4d5f6a7b8c9d1"`
	Message string  `json:"message" example:"Order placed"`
	Total   float64 `json:"total" example:"30.98"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error   string             `json:"error" example:"validation failed"`
	Details []models.Violation `json:"details"`
}

// respondError maps validation failures to 400 and everything else to 500.
// Server errors carry a truncated message, never a stack trace.
func (g *Gateway) respondError(c *gin.Context, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		g.logger.Debug("Validation failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:   "validation failed",
			Details: verr.Violations,
		})
		return
	}

	op := "unknown"
	var serr *repository.StorageError
	if errors.As(err, &serr) {
		op = serr.Op
	}
	metrics.StorageErrors.WithLabelValues(op).Inc()

	g.logger.Error("Request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: truncate(err.Error(), maxErrorDetail)})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
