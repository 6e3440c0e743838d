package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/alimgiray/streakcard/internal/middleware"
)

// Handlers groups everything SetupRoutes mounts
type Handlers struct {
	Card     *CardHandler
	Streak   *StreakHandler
	Theme    *ThemeHandler
	Usage    *UsageHandler
	Health   *HealthHandler
	NotFound *NotFoundHandler

	// UsageToken protects the usage routes when set
	UsageToken string
}

// NewRouter creates a gin engine with the standard middleware and all routes
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.RequestID(), middleware.CORS())

	SetupRoutes(router, h)
	return router
}

// SetupRoutes mounts the API routes on router
func SetupRoutes(router *gin.Engine, h Handlers) {
	api := router.Group("/api")
	{
		cards := api.Group("")
		cards.Use(middleware.CardRecovery())
		{
			cards.GET("/card", h.Card.Card)
			cards.GET("/card-with-avatar", h.Card.CardWithAvatar)
		}

		api.GET("/streak", h.Streak.Streak)
		api.GET("/themes", h.Theme.Themes)
		api.GET("/readme", h.Theme.Readme)

		usage := api.Group("/usage")
		usage.Use(middleware.TokenRequired(h.UsageToken))
		{
			usage.GET("", h.Usage.Summary)
			usage.GET("/export.xlsx", h.Usage.Export)
		}
	}

	// Health check endpoint
	router.GET("/health", h.Health.HealthCheck)

	router.NoRoute(h.NotFound.NotFound)
}
