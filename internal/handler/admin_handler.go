package handler

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/wifi-positioning-go/internal/middleware"
	"github.com/jengzang/wifi-positioning-go/internal/service"
	"github.com/jengzang/wifi-positioning-go/pkg/response"
)

// AdminHandler handles artifact management and training data ingestion
type AdminHandler struct {
	predictionService *service.PredictionService
	surveyService     *service.SurveyService
	artifactPaths     service.ArtifactPaths

	jwtSecret   string
	adminAPIKey string
	tokenTTL    time.Duration
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	predictionService *service.PredictionService,
	surveyService *service.SurveyService,
	artifactPaths service.ArtifactPaths,
	jwtSecret, adminAPIKey string,
	tokenTTL time.Duration,
) *AdminHandler {
	return &AdminHandler{
		predictionService: predictionService,
		surveyService:     surveyService,
		artifactPaths:     artifactPaths,
		jwtSecret:         jwtSecret,
		adminAPIKey:       adminAPIKey,
		tokenTTL:          tokenTTL,
	}
}

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

// Token handles POST /api/v1/auth/token
func (h *AdminHandler) Token(c *gin.Context) {
	if h.adminAPIKey == "" {
		response.Unauthorized(c, "Admin access is not configured")
		return
	}

	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.adminAPIKey)) != 1 {
		response.Unauthorized(c, "Invalid API key")
		return
	}

	token, err := middleware.IssueAdminToken(h.jwtSecret, h.tokenTTL)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"token":      token,
		"expires_in": int(h.tokenTTL.Seconds()),
	})
}

// Reload handles POST /api/v1/admin/reload. It re-reads the artifact
// files and swaps them in atomically; a failed load leaves the current
// model serving.
func (h *AdminHandler) Reload(c *gin.Context) {
	bundle, err := service.LoadArtifacts(h.artifactPaths)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	if err := h.predictionService.Reload(bundle); err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"features":  bundle.Schema.Len(),
		"locations": bundle.Labels.Labels(),
	})
}

// Survey handles POST /api/v1/admin/survey
func (h *AdminHandler) Survey(c *gin.Context) {
	var sub service.SurveySubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	burstID, rows, err := h.surveyService.Append(sub)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"burst_id": burstID,
		"rows":     rows,
	})
}
