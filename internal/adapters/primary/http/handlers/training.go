package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/adapters/primary/http/dto"
	"wine-quality-service/internal/core/domain"
)

const (
	trainingSuccessMessage    = "Model training completed successfully!"
	trainSuccessMessage       = "Model training completed successfully! You can now make predictions."
	trainingInputMessage      = "Training failed. Please check your input values."
	trainingFailedMessage     = "Training failed. Please check the logs for details."
	trainingInProgressMessage = "A training run is already in progress. Please try again later."
)

func (h *Handler) TrainingPage(c *gin.Context) {
	params := h.trainer.DefaultParams()
	c.HTML(http.StatusOK, "training.html", gin.H{
		"show_form": true,
		"alpha":     params.Alpha,
		"l1_ratio":  params.L1Ratio,
	})
}

func (h *Handler) SubmitTraining(c *gin.Context) {
	params, err := parseHyperparameters(c)
	if err != nil {
		log.WithError(err).Warn("invalid training parameters")
		c.HTML(http.StatusOK, "training.html", gin.H{
			"training_error": trainingInputMessage,
			"show_form":      true,
			"alpha":          c.PostForm("alpha"),
			"l1_ratio":       c.PostForm("l1_ratio"),
		})
		return
	}

	run, err := h.trainer.Run(c.Request.Context(), params)
	if err != nil {
		status, msg := trainingFailure(err)
		c.HTML(status, "training.html", gin.H{
			"training_error": msg,
			"show_form":      true,
			"run":            run,
			"alpha":          params.Alpha,
			"l1_ratio":       params.L1Ratio,
		})
		return
	}

	c.HTML(http.StatusOK, "training.html", gin.H{
		"training_success": trainingSuccessMessage,
		"show_form":        false,
		"run":              run,
	})
}

func (h *Handler) Train(c *gin.Context) {
	run, err := h.trainer.Run(c.Request.Context(), h.trainer.DefaultParams())
	if err != nil {
		status, msg := trainingFailure(err)
		c.HTML(status, "training.html", gin.H{
			"training_error": msg,
			"run":            run,
		})
		return
	}

	c.HTML(http.StatusOK, "training.html", gin.H{
		"training_success": trainSuccessMessage,
		"run":              run,
	})
}

func (h *Handler) TrainJSON(c *gin.Context) {
	params := h.trainer.DefaultParams()
	var req dto.TrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Alpha != nil {
		params.Alpha = *req.Alpha
	}
	if req.L1Ratio != nil {
		params.L1Ratio = *req.L1Ratio
	}

	run, err := h.trainer.Run(c.Request.Context(), params)
	if err != nil {
		if run == nil {
			mapDomainError(c, err)
			return
		}
		log.WithError(err).WithField("run_id", run.ID).Error("training run failed")
		c.JSON(http.StatusInternalServerError, dto.ToTrainingRunResponse(run))
		return
	}

	c.JSON(http.StatusCreated, dto.ToTrainingRunResponse(run))
}

func parseHyperparameters(c *gin.Context) (domain.Hyperparameters, error) {
	alpha, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("alpha")), 64)
	if err != nil {
		return domain.Hyperparameters{}, err
	}
	l1Ratio, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("l1_ratio")), 64)
	if err != nil {
		return domain.Hyperparameters{}, err
	}
	params := domain.Hyperparameters{Alpha: alpha, L1Ratio: l1Ratio}
	return params, params.Validate()
}

func trainingFailure(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrTrainingInProgress):
		return http.StatusConflict, trainingInProgressMessage
	case errors.Is(err, domain.ErrInvalidHyperparameter):
		return http.StatusBadRequest, trainingInputMessage
	default:
		log.WithError(err).Error("training error")
		return http.StatusInternalServerError, trainingFailedMessage
	}
}
