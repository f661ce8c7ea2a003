package media

import (
	"github.com/gin-gonic/gin"
	"github.com/lingloop/player-api/api/types"
)

// RegisterRoutes registers media payload routes on the projects group
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, uploadMiddleware gin.HandlerFunc) {
	router.POST("/:id/media", uploadMiddleware, Upload(deps))
	router.GET("/:id/media", Stream(deps))
	router.HEAD("/:id/media", Stat(deps))
	router.DELETE("/:id/media", Delete(deps))
}
