package settings

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/lingloop/player-api/api/types"
)

// Get returns the durable playback settings
// @Summary      Get playback settings
// @Description  Returns the persisted playback settings, falling back to defaults when none have been saved
// @Tags         settings
// @Produce      json
// @Success      200 {object} types.SettingsResponse
// @Router       /api/v1/settings [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := deps.Meta.LoadSettings(c.Request.Context())
		types.SendSuccess(c, types.SettingsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Settings:     current,
		})
	}
}

// Put persists playback settings and applies them to the live engine
// @Summary      Update playback settings
// @Description  Persists the playback settings and applies them to the running loop engine immediately. Out-of-range values are clamped, not rejected.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body models.PlaybackSettings true "Settings to apply"
// @Success      200 {object} types.SettingsResponse
// @Failure      400 {object} types.ErrorResponse
// @Router       /api/v1/settings [put]
func Put(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Binding onto the stored settings makes a partial body keep the
		// current value for any omitted field.
		req := deps.Meta.LoadSettings(c.Request.Context())
		if !types.BindJSONOrError(c, &req) {
			return
		}

		req.Clamp()
		if err := deps.Meta.SaveSettings(c.Request.Context(), req); err != nil {
			log.Printf("[ERROR] Failed to persist playback settings: %v", err)
			types.SendError(c, err)
			return
		}

		if deps.Sessions != nil {
			deps.Sessions.Engine().ApplySettings(req)
		}

		types.SendSuccess(c, types.SettingsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Settings:     req,
		})
	}
}
