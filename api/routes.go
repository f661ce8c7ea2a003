package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/lingloop/player-api/api/groups"
	"github.com/lingloop/player-api/api/health"
	"github.com/lingloop/player-api/api/media"
	playerapi "github.com/lingloop/player-api/api/player"
	"github.com/lingloop/player-api/api/projects"
	"github.com/lingloop/player-api/api/segments"
	"github.com/lingloop/player-api/api/settings"
	"github.com/lingloop/player-api/api/types"
	"github.com/lingloop/player-api/api/version"
	_ "github.com/lingloop/player-api/docs/swagger"
	"github.com/lingloop/player-api/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		return fmt.Errorf("handler dependencies are not set")
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	limits := endpointLimits()

	// Register project routes with general rate limiting
	projectGroup := v1.Group("/projects")
	projectGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, limits["default"], 2*limits["default"]))
	projects.RegisterRoutes(projectGroup, deps)

	// Segment import is parse-heavy and may fetch remote text, so it gets a
	// tighter limit than the rest of the project surface.
	importMiddleware := PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, limits["import"], 2*limits["import"])
	segments.RegisterRoutes(projectGroup, deps, importMiddleware)

	// Media uploads move large payloads; limit them separately.
	uploadMiddleware := PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, limits["media"], 2*limits["media"])
	media.RegisterRoutes(projectGroup, deps, uploadMiddleware)

	// Register group routes with general rate limiting
	groupGroup := v1.Group("/groups")
	groupGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, limits["default"], 2*limits["default"]))
	groups.RegisterRoutes(groupGroup, deps)

	// Register settings routes with general rate limiting
	settingsGroup := v1.Group("/settings")
	settingsGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, limits["default"], 2*limits["default"]))
	settings.RegisterRoutes(settingsGroup, deps)

	// Player routes carry the position update stream, so they get the most
	// generous limit.
	playerGroup := v1.Group("/player")
	playerGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, limits["player"], 2*limits["player"]))
	playerapi.RegisterRoutes(playerGroup, deps)

	return nil
}

// endpointLimits reads the per-endpoint requests-per-second limits, falling
// back to usable values when the config is missing entries.
func endpointLimits() map[string]int {
	limits := map[string]int{
		"import":  10,
		"media":   20,
		"player":  100,
		"default": 120,
	}
	for name, fallback := range limits {
		if v := config.GetInt("rate_limiting.endpoints." + name); v > 0 {
			limits[name] = v
		} else {
			limits[name] = fallback
		}
	}
	return limits
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
