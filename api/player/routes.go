package player

import (
	"github.com/gin-gonic/gin"
	"github.com/lingloop/player-api/api/types"
)

// RegisterRoutes registers loop playback engine routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.POST("/load", Load(deps))
	router.POST("/unload", Unload(deps))
	router.POST("/position", Position(deps))
	router.POST("/select", Select(deps))
	router.POST("/next", Next(deps))
	router.POST("/previous", Previous(deps))
	router.POST("/rate", Rate(deps))
	router.GET("/state", State(deps))
}
