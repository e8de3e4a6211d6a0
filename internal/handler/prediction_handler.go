package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/wifi-positioning-go/internal/models"
	"github.com/jengzang/wifi-positioning-go/internal/service"
	"github.com/jengzang/wifi-positioning-go/pkg/response"
)

// PredictionHandler handles HTTP requests for predictions
type PredictionHandler struct {
	predictionService *service.PredictionService
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionService *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
	}
}

// Predict handles POST /api/v1/predict
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	items, err := req.Items()
	if err != nil {
		if errors.Is(err, models.ErrNoScans) {
			response.BadRequest(c, err.Error())
			return
		}
		response.BadRequest(c, "Invalid scan payload")
		return
	}

	prediction, err := h.predictionService.Predict(items)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, prediction)
}

// Latest handles GET /api/v1/predictions/latest
func (h *PredictionHandler) Latest(c *gin.Context) {
	prediction, ok := h.predictionService.Latest()
	if !ok {
		response.NotFound(c, "No predictions yet")
		return
	}
	response.Success(c, prediction)
}

// Stats handles GET /api/v1/predictions/stats
func (h *PredictionHandler) Stats(c *gin.Context) {
	stats, err := h.predictionService.Stats()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, stats)
}

// History handles GET /api/v1/predictions/history
func (h *PredictionHandler) History(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > 1000 {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}

	predictions, err := h.predictionService.History(limit)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, predictions)
}
