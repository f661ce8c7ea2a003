package projects

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lingloop/player-api/api/types"
	"github.com/lingloop/player-api/internal/models"
)

// CreateProjectRequest is the body for creating a project
type CreateProjectRequest struct {
	Name    string  `json:"name" binding:"required"`
	GroupID *string `json:"groupId"`
}

// UpdateProjectRequest is the body for updating a project's mutable fields.
// Pointer fields distinguish "not sent" from the zero value.
type UpdateProjectRequest struct {
	Name       *string  `json:"name"`
	GroupID    *string  `json:"groupId"`
	SplitRatio *float64 `json:"splitRatio"`
	FontSize   *int     `json:"fontSize"`
	TextURL    *string  `json:"textUrl"`
	MediaURL   *string  `json:"mediaUrl"`
}

// GetAll returns every project
// @Summary      List projects
// @Description  Returns all projects with their sentence segments and presentation state
// @Tags         projects
// @Produce      json
// @Success      200 {object} types.ProjectsResponse
// @Router       /api/v1/projects [get]
func GetAll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects := deps.Meta.ListProjects(c.Request.Context())
		types.SendSuccess(c, types.ProjectsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Projects:     projects,
			Count:        len(projects),
		})
	}
}

// GetByID returns a single project
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} types.SingleProjectResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/projects/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.RequireParam(c, "id")
		if !ok {
			return
		}

		project, err := deps.Meta.GetProject(c.Request.Context(), id)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.SingleProjectResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Project:      project,
		})
	}
}

// Create creates a new, empty project
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body CreateProjectRequest true "Project to create"
// @Success      201 {object} types.SingleProjectResponse
// @Failure      400 {object} types.ErrorResponse
// @Router       /api/v1/projects [post]
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProjectRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			types.SendBadRequest(c, "Project name must not be blank")
			return
		}

		project := models.NewProject(name)
		project.GroupID = req.GroupID
		if err := deps.Meta.SaveProject(c.Request.Context(), project); err != nil {
			log.Printf("[ERROR] Failed to create project %s: %v", project.ID, err)
			types.SendError(c, err)
			return
		}

		types.SendCreated(c, types.SingleProjectResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Project:      project,
		})
	}
}

// Update modifies a project's name, group or presentation state
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body UpdateProjectRequest true "Fields to update"
// @Success      200 {object} types.SingleProjectResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/projects/{id} [put]
func Update(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.RequireParam(c, "id")
		if !ok {
			return
		}

		var req UpdateProjectRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		project, err := deps.Meta.GetProject(c.Request.Context(), id)
		if err != nil {
			types.SendError(c, err)
			return
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				types.SendBadRequest(c, "Project name must not be blank")
				return
			}
			project.Name = name
		}
		if req.GroupID != nil {
			if *req.GroupID == "" {
				project.GroupID = nil
			} else {
				project.GroupID = req.GroupID
			}
		}
		if req.SplitRatio != nil {
			project.SplitRatio = *req.SplitRatio
		}
		if req.FontSize != nil {
			project.FontSize = *req.FontSize
		}
		if req.TextURL != nil {
			project.TextURL = *req.TextURL
		}
		if req.MediaURL != nil {
			project.MediaURL = *req.MediaURL
		}
		project.ClampLayout()

		if err := deps.Meta.SaveProject(c.Request.Context(), project); err != nil {
			log.Printf("[ERROR] Failed to update project %s: %v", id, err)
			types.SendError(c, err)
			return
		}

		// Mirror layout changes onto the live session so the next snapshot
		// does not overwrite them with stale values.
		if deps.Sessions != nil {
			if active := deps.Sessions.Project(); active != nil && active.ID == id {
				_ = deps.Sessions.UpdateLayout(project.SplitRatio, project.FontSize)
			}
		}

		types.SendSuccess(c, types.SingleProjectResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Project:      project,
		})
	}
}

// Delete removes a project and best-effort deletes its media payload
// @Summary      Delete project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} types.BaseResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/projects/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.RequireParam(c, "id")
		if !ok {
			return
		}

		// Deleting the active project tears down its session first.
		if deps.Sessions != nil {
			if active := deps.Sessions.Project(); active != nil && active.ID == id {
				deps.Sessions.Unload(c.Request.Context())
			}
		}

		if err := deps.Meta.DeleteProject(c.Request.Context(), id); err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.BaseResponse{
			Status:  types.StatusOK,
			Message: "Project deleted",
		})
	}
}
