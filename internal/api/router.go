package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/wifi-positioning-go/internal/config"
	"github.com/jengzang/wifi-positioning-go/internal/handler"
	"github.com/jengzang/wifi-positioning-go/internal/middleware"
	"github.com/jengzang/wifi-positioning-go/internal/service"
)

// Handlers collects the route handlers the router wires up
type Handlers struct {
	Prediction *handler.PredictionHandler
	Location   *handler.LocationHandler
	Admin      *handler.AdminHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all routes and middleware
func SetupRouter(cfg *config.Config, svc *service.PredictionService, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Service status
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "online",
			"service":   "WiFi Indoor Positioning API",
			"features":  svc.Features(),
			"locations": svc.Locations(),
		})
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "WiFi Positioning API is running",
		})
	})

	// Push subscription
	r.GET("/ws", h.WS.Subscribe)

	// API route group
	api := r.Group("/api/v1")
	{
		api.POST("/predict",
			middleware.RateLimit(cfg.RateLimit, cfg.RateLimitWindow),
			h.Prediction.Predict)

		predictions := api.Group("/predictions")
		{
			predictions.GET("/latest", h.Prediction.Latest)
			predictions.GET("/history", h.Prediction.History)
			predictions.GET("/stats", h.Prediction.Stats)
		}

		locations := api.Group("/locations")
		{
			locations.GET("", h.Location.List)
			locations.GET("/nearby", h.Location.Nearby)
		}

		api.POST("/auth/token", h.Admin.Token)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin(cfg.JWTSecret))
		{
			admin.POST("/reload", h.Admin.Reload)
			admin.POST("/survey", h.Admin.Survey)
			admin.POST("/locations", h.Location.Register)
		}
	}

	return r
}
