package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/wifi-positioning-go/internal/models"
	"github.com/jengzang/wifi-positioning-go/internal/service"
	"github.com/jengzang/wifi-positioning-go/pkg/response"
)

// LocationHandler handles HTTP requests for the location registry
type LocationHandler struct {
	locationService   *service.LocationService
	predictionService *service.PredictionService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locationService *service.LocationService, predictionService *service.PredictionService) *LocationHandler {
	return &LocationHandler{
		locationService:   locationService,
		predictionService: predictionService,
	}
}

// List handles GET /api/v1/locations. It merges the model's predictable
// labels with the registry so clients see every label even before an
// operator has placed it on a map.
func (h *LocationHandler) List(c *gin.Context) {
	registered, err := h.locationService.All()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	byName := make(map[string]models.Location, len(registered))
	for _, loc := range registered {
		byName[loc.Name] = loc
	}

	trainable := h.predictionService.Locations()
	locations := make([]models.Location, 0, len(trainable))
	for _, name := range trainable {
		if loc, ok := byName[name]; ok {
			locations = append(locations, loc)
		} else {
			locations = append(locations, models.Location{Name: name})
		}
	}

	response.Success(c, gin.H{
		"locations": locations,
		"count":     len(locations),
	})
}

// Register handles POST /api/v1/admin/locations
func (h *LocationHandler) Register(c *gin.Context) {
	var loc models.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.locationService.Register(&loc); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, loc)
}

// Nearby handles GET /api/v1/locations/nearby
func (h *LocationHandler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid lat parameter")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid lng parameter")
		return
	}

	limit := 5
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			response.BadRequest(c, "Invalid limit parameter")
			return
		}
	}

	nearby, err := h.locationService.Nearby(lat, lng, limit)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, nearby)
}
