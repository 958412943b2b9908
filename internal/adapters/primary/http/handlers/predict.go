package handlers

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/adapters/primary/http/dto"
	"wine-quality-service/internal/core/domain"
)

const predictErrorMessage = "Something went wrong. Please check your input values."

func (h *Handler) Home(c *gin.Context) {
	renderIndex(c, "")
}

func (h *Handler) Predict(c *gin.Context) {
	vector, err := domain.ParseFeatureVector(c.GetPostForm)
	if err != nil {
		log.WithError(err).Warn("invalid prediction input")
		renderIndex(c, predictErrorMessage)
		return
	}

	log.WithField("input", vector).Debug("prediction input")

	result, err := h.predictor.Predict(c.Request.Context(), [][]float64{vector.Row()})
	if err != nil {
		log.WithError(err).Error("prediction failed")
		renderIndex(c, predictErrorMessage)
		return
	}

	log.WithField("result", result).Debug("prediction result")

	c.HTML(http.StatusOK, "results.html", gin.H{
		"prediction": fmt.Sprintf("%.2f", roundScore(result[0])),
	})
}

func (h *Handler) PredictJSON(c *gin.Context) {
	var req dto.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.predictor.Predict(c.Request.Context(), req.Instances)
	if err != nil {
		log.WithError(err).Error("prediction failed")
		mapDomainError(c, err)
		return
	}

	predictions := make([]float64, len(result))
	for i, v := range result {
		predictions[i] = roundScore(v)
	}
	c.JSON(http.StatusOK, dto.PredictResponse{Predictions: predictions})
}

// renderIndex shows the form. Input and prediction errors are reported on the
// page itself with a generic message, so the status is always 200.
func renderIndex(c *gin.Context, errMsg string) {
	data := gin.H{"fields": domain.Features}
	if errMsg != "" {
		data["error"] = errMsg
	}
	c.HTML(http.StatusOK, "index.html", data)
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
