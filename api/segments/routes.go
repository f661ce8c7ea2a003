package segments

import (
	"github.com/gin-gonic/gin"
	"github.com/lingloop/player-api/api/types"
)

// RegisterRoutes registers segment import/export routes on the projects group
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, importMiddleware gin.HandlerFunc) {
	router.PUT("/:id/segments", importMiddleware, Import(deps))
	router.GET("/:id/segments", Export(deps))
	router.PUT("/:id/segments/:segmentID", Update(deps))
}
