package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ruet-cse/class-routine-api/internal/dto"
	"github.com/ruet-cse/class-routine-api/internal/models"
	appErrors "github.com/ruet-cse/class-routine-api/pkg/errors"
	"github.com/ruet-cse/class-routine-api/pkg/response"
)

type routineService interface {
	EditCell(ctx context.Context, batchID string, req dto.CellEditRequest) (*dto.CellEditResult, error)
	DeleteCell(ctx context.Context, batchID string, req dto.CellDeleteRequest) (*models.Batch, error)
}

// RoutineHandler manages grid cell editing endpoints.
type RoutineHandler struct {
	service routineService
}

// NewRoutineHandler constructs handler.
func NewRoutineHandler(svc routineService) *RoutineHandler {
	return &RoutineHandler{service: svc}
}

// EditCell godoc
// @Summary Place course entries into a grid cell
// @Tags Routine
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body dto.CellEditRequest true "Cell edit payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /batches/{id}/cells [put]
func (h *RoutineHandler) EditCell(c *gin.Context) {
	var req dto.CellEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.EditCell(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Outcome == dto.OutcomeRejected {
		response.JSON(c, http.StatusUnprocessableEntity, result, nil)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// DeleteCell godoc
// @Summary Clear a grid cell
// @Tags Routine
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body dto.CellDeleteRequest true "Cell coordinate"
// @Success 200 {object} response.Envelope
// @Router /batches/{id}/cells [delete]
func (h *RoutineHandler) DeleteCell(c *gin.Context) {
	var req dto.CellDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	batch, err := h.service.DeleteCell(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batch, nil)
}
