package player

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingloop/player-api/api/types"
)

// LoadRequest names the project to make the active session
type LoadRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
}

// PositionRequest is one media element position update
type PositionRequest struct {
	Position float64 `json:"position"`
}

// SelectRequest names the segment to activate
type SelectRequest struct {
	SegmentID string `json:"segmentId" binding:"required"`
}

// Load makes a project the active playback session
// @Summary      Load project into player
// @Description  Loads the project's sentence sequence into the loop engine and starts session snapshotting. Any previous session is snapshotted and closed first.
// @Tags         player
// @Accept       json
// @Produce      json
// @Param        request body LoadRequest true "Project to load"
// @Success      200 {object} types.SingleProjectResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/player/load [post]
func Load(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoadRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		project, err := deps.Sessions.LoadProject(c.Request.Context(), req.ProjectID)
		if err != nil {
			types.SendError(c, err)
			return
		}

		// Reset any directives queued before the load; they belong to the
		// previous session.
		deps.Directives.Drain()

		types.SendSuccess(c, types.SingleProjectResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Session loaded"},
			Project:      project,
		})
	}
}

// Unload closes the active session
// @Summary      Unload player
// @Description  Snapshots the active session one last time and stops the engine. Unloading without an active session is a no-op.
// @Tags         player
// @Produce      json
// @Success      200 {object} types.BaseResponse
// @Router       /api/v1/player/unload [post]
func Unload(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Sessions.Unload(c.Request.Context())
		deps.Directives.Drain()
		c.JSON(http.StatusOK, types.BaseResponse{
			Status:  types.StatusOK,
			Message: "Session unloaded",
		})
	}
}

// Position feeds one media element position update to the engine
// @Summary      Report playback position
// @Description  Feeds the client media element's current position to the loop engine and returns the transport directives the client must execute in order.
// @Tags         player
// @Accept       json
// @Produce      json
// @Param        request body PositionRequest true "Current position in seconds"
// @Success      200 {object} types.PlayerResponse
// @Router       /api/v1/player/position [post]
func Position(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PositionRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		deps.Sessions.Engine().OnPosition(req.Position)
		sendState(c, deps)
	}
}

// RateRequest carries a transient playback rate change
type RateRequest struct {
	Rate float64 `json:"rate" binding:"required"`
}

// Rate changes the playback rate for the running session
// @Summary      Set playback rate
// @Description  Applies the rate to the transport immediately. Boundaries are content-time so loop counting is unaffected. The change is not persisted; use the settings endpoint for a durable rate.
// @Tags         player
// @Accept       json
// @Produce      json
// @Param        request body RateRequest true "Playback rate, clamped to the supported range"
// @Success      200 {object} types.PlayerResponse
// @Router       /api/v1/player/rate [post]
func Rate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RateRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		engine := deps.Sessions.Engine()
		settings := engine.Settings()
		settings.PlaybackRate = req.Rate
		engine.ApplySettings(settings)
		sendState(c, deps)
	}
}

// Select activates a segment by id
// @Summary      Select segment
// @Tags         player
// @Accept       json
// @Produce      json
// @Param        request body SelectRequest true "Segment to activate"
// @Success      200 {object} types.PlayerResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/player/select [post]
func Select(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SelectRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		if err := deps.Sessions.Engine().Select(req.SegmentID); err != nil {
			types.SendError(c, err)
			return
		}
		sendState(c, deps)
	}
}

// Next activates the segment after the current one
// @Summary      Next segment
// @Tags         player
// @Produce      json
// @Success      200 {object} types.PlayerResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/player/next [post]
func Next(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Sessions.Engine().Next(); err != nil {
			types.SendError(c, err)
			return
		}
		sendState(c, deps)
	}
}

// Previous activates the segment before the current one
// @Summary      Previous segment
// @Tags         player
// @Produce      json
// @Success      200 {object} types.PlayerResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/player/previous [post]
func Previous(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Sessions.Engine().Previous(); err != nil {
			types.SendError(c, err)
			return
		}
		sendState(c, deps)
	}
}

// State returns the engine snapshot and drains pending directives
// @Summary      Player state
// @Tags         player
// @Produce      json
// @Success      200 {object} types.PlayerResponse
// @Router       /api/v1/player/state [get]
func State(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		sendState(c, deps)
	}
}

func sendState(c *gin.Context, deps *types.Dependencies) {
	types.SendSuccess(c, types.PlayerResponse{
		BaseResponse: types.BaseResponse{Status: types.StatusOK},
		State:        deps.Sessions.Engine().Snapshot(),
		Directives:   deps.Directives.Drain(),
	})
}
