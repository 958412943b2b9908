package handlers

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"

	"wine-quality-service/internal/core/ports/input"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded HTML pages.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type Handler struct {
	trainer   input.Trainer
	predictor input.Predictor
	runs      input.RunHistory
}

func New(trainer input.Trainer, predictor input.Predictor, runs input.RunHistory) *Handler {
	return &Handler{
		trainer:   trainer,
		predictor: predictor,
		runs:      runs,
	}
}

// RegisterRoutes binds the HTML pages.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.Home)

	// Training
	r.GET("/training", h.TrainingPage)
	r.POST("/training", h.SubmitTraining)
	r.GET("/train", h.Train)

	// Prediction
	r.GET("/predict", h.Home)
	r.POST("/predict", h.Predict)
}

// RegisterAPIRoutes binds the JSON API.
func (h *Handler) RegisterAPIRoutes(r *gin.RouterGroup) {
	r.POST("/predict", h.PredictJSON)
	r.POST("/train", h.TrainJSON)

	// Training runs
	r.GET("/runs", h.ListRuns)
	r.GET("/runs/:id", h.GetRun)
}
