package projects

import (
	"github.com/gin-gonic/gin"
	"github.com/lingloop/player-api/api/types"
)

// RegisterRoutes registers project management routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", GetAll(deps))
	router.POST("", Create(deps))
	router.GET("/:id", GetByID(deps))
	router.PUT("/:id", Update(deps))
	router.DELETE("/:id", Delete(deps))
}
