package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wine-quality-service/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrTrainingInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidHyperparameter),
		errors.Is(err, domain.ErrFeatureCount),
		errors.Is(err, domain.ErrInvalidFeature),
		errors.Is(err, domain.ErrNonFiniteScore):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrModelNotTrained),
		errors.Is(err, domain.ErrRunStoreNotAvailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
