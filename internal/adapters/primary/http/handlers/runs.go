package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/adapters/primary/http/dto"
	ports "wine-quality-service/internal/core/ports/output"
)

func (h *Handler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.RunListFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	}

	runs, total, err := h.runs.ListRuns(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list training runs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.TrainingRunResponse, 0, len(runs))
	for _, r := range runs {
		items = append(items, dto.ToTrainingRunResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListTrainingRunsResponse{
		Items:      items,
		Total:      total,
		PageSize:   len(items),
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetRun(c *gin.Context) {
	run, err := h.runs.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTrainingRunResponse(run))
}
