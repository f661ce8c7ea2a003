package groups

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lingloop/player-api/api/types"
	"github.com/lingloop/player-api/internal/models"
	apperrors "github.com/lingloop/player-api/pkg/errors"
)

// GroupRequest is the body for creating or renaming a group
type GroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetAll returns every group
// @Summary      List groups
// @Tags         groups
// @Produce      json
// @Success      200 {object} types.GroupsResponse
// @Router       /api/v1/groups [get]
func GetAll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		groups := deps.Meta.ListGroups(c.Request.Context())
		types.SendSuccess(c, types.GroupsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Groups:       groups,
			Count:        len(groups),
		})
	}
}

// Create creates a new group
// @Summary      Create group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body GroupRequest true "Group to create"
// @Success      201 {object} types.SingleGroupResponse
// @Failure      400 {object} types.ErrorResponse
// @Router       /api/v1/groups [post]
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GroupRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			types.SendBadRequest(c, "Group name must not be blank")
			return
		}

		group := models.NewGroup(name)
		if err := deps.Meta.SaveGroup(c.Request.Context(), group); err != nil {
			types.SendError(c, err)
			return
		}

		types.SendCreated(c, types.SingleGroupResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Group:        group,
		})
	}
}

// Update renames a group
// @Summary      Rename group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        request body GroupRequest true "New name"
// @Success      200 {object} types.SingleGroupResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/groups/{id} [put]
func Update(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.RequireParam(c, "id")
		if !ok {
			return
		}

		var req GroupRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			types.SendBadRequest(c, "Group name must not be blank")
			return
		}

		var found *models.Group
		for _, group := range deps.Meta.ListGroups(c.Request.Context()) {
			if group.ID == id {
				g := group
				found = &g
				break
			}
		}
		if found == nil {
			types.SendError(c, apperrors.NotFound("group", id))
			return
		}

		found.Name = name
		if err := deps.Meta.SaveGroup(c.Request.Context(), found); err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.SingleGroupResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Group:        found,
		})
	}
}

// Delete removes a group; its projects move back to the root
// @Summary      Delete group
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200 {object} types.BaseResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/groups/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.RequireParam(c, "id")
		if !ok {
			return
		}

		if err := deps.Meta.DeleteGroup(c.Request.Context(), id); err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.BaseResponse{
			Status:  types.StatusOK,
			Message: "Group deleted",
		})
	}
}
