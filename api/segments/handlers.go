package segments

import (
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lingloop/player-api/api/types"
	"github.com/lingloop/player-api/internal/models"
	apperrors "github.com/lingloop/player-api/pkg/errors"
	"github.com/lingloop/player-api/pkg/subtitle"
)

// Import source formats. FormatAuto sniffs cue timestamps and falls back to
// plain text parsing.
const (
	FormatAuto     = "auto"
	FormatText     = "text"
	FormatSubtitle = "subtitle"
)

// ImportRequest is the body for importing a project's segment sequence.
// Exactly one of Content or URL must be set.
type ImportRequest struct {
	Format  string `json:"format"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// Import replaces a project's segment sequence from text or subtitle input
// @Summary      Import segments
// @Description  Parses text or subtitle content (inline or fetched from a URL) and replaces the project's sentence sequence wholesale. An import that yields no valid segments is rejected and leaves the project untouched.
// @Tags         segments
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body ImportRequest true "Import source"
// @Success      200 {object} types.ImportResponse
// @Failure      400 {object} types.ErrorResponse
// @Failure      404 {object} types.ErrorResponse
// @Failure      502 {object} types.ErrorResponse
// @Router       /api/v1/projects/{id}/segments [put]
func Import(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.RequireParam(c, "id")
		if !ok {
			return
		}

		var req ImportRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		format := req.Format
		if format == "" {
			format = FormatAuto
		}

		content := req.Content
		if req.URL != "" {
			if content != "" {
				types.SendBadRequest(c, "Provide either content or url, not both")
				return
			}
			fetched, err := deps.Fetcher.Text(c.Request.Context(), req.URL)
			if err != nil {
				log.Printf("[ERROR] Failed to fetch import source %s: %v", req.URL, err)
				types.SendError(c, apperrors.ExternalServiceError("fetch import source", err))
				return
			}
			content = fetched
		}
		if strings.TrimSpace(content) == "" {
			types.SendError(c, apperrors.EmptyImport(format))
			return
		}

		parsed := parse(format, content)
		if len(parsed) == 0 {
			types.SendError(c, apperrors.EmptyImport(format))
			return
		}

		project, err := deps.Meta.GetProject(c.Request.Context(), id)
		if err != nil {
			types.SendError(c, err)
			return
		}

		// The live session owns the engine reload; anything else is a plain
		// metadata write.
		if deps.Sessions != nil {
			if active := deps.Sessions.Project(); active != nil && active.ID == id {
				if err := deps.Sessions.ReplaceSegments(c.Request.Context(), parsed); err != nil {
					types.SendError(c, err)
					return
				}
				types.SendSuccess(c, types.ImportResponse{
					BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: importMessage(len(parsed))},
					SegmentCount: len(parsed),
				})
				return
			}
		}

		list := models.NewSegmentList(parsed)
		project.Sentences = list.Segments()
		project.LastActiveIndex = -1
		project.CurrentTime = 0
		if req.URL != "" {
			project.TextURL = req.URL
		}
		if err := deps.Meta.SaveProject(c.Request.Context(), project); err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.ImportResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: importMessage(len(parsed))},
			SegmentCount: len(parsed),
		})
	}
}

// UpdateSegmentRequest carries a partial edit of one segment. Absent fields
// keep their current value.
type UpdateSegmentRequest struct {
	Text      *string  `json:"text"`
	StartTime *float64 `json:"startTime"`
	EndTime   *float64 `json:"endTime"`
	LoopCount *int     `json:"loopCount"`
}

// Update edits a single segment's text, time range or loop override
// @Summary      Update segment
// @Description  Applies a partial edit to one segment. The sentence sequence is re-sorted by start time after a time edit, so next/previous navigation always follows content time.
// @Tags         segments
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        segmentID path string true "Segment ID"
// @Param        request body UpdateSegmentRequest true "Fields to change"
// @Success      200 {object} types.SingleProjectResponse
// @Failure      400 {object} types.ErrorResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/projects/{id}/segments/{segmentID} [put]
func Update(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.RequireParam(c, "id")
		if !ok {
			return
		}
		segmentID, ok := types.RequireParam(c, "segmentID")
		if !ok {
			return
		}

		var req UpdateSegmentRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		project, err := deps.Meta.GetProject(c.Request.Context(), id)
		if err != nil {
			types.SendError(c, err)
			return
		}

		list := models.NewSegmentList(project.Sentences)
		segment, found := list.Get(segmentID)
		if !found {
			types.SendError(c, apperrors.NotFound("segment", segmentID))
			return
		}

		if req.Text != nil {
			segment.Text = *req.Text
		}
		if req.StartTime != nil {
			segment.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			segment.EndTime = *req.EndTime
		}
		if req.LoopCount != nil {
			segment.LoopCount = *req.LoopCount
		}
		if !segment.Valid() {
			types.SendBadRequest(c, "Segment end time must be after its start time")
			return
		}

		// A live session routes the edit through the engine so the active
		// selection survives; otherwise it is a plain metadata write.
		if deps.Sessions != nil {
			if active := deps.Sessions.Project(); active != nil && active.ID == id {
				if err := deps.Sessions.UpdateSegment(c.Request.Context(), segment); err != nil {
					types.SendError(c, err)
					return
				}
				types.SendSuccess(c, types.SingleProjectResponse{
					BaseResponse: types.BaseResponse{Status: types.StatusOK},
					Project:      deps.Sessions.Project(),
				})
				return
			}
		}

		list.Replace(segment)
		project.Sentences = list.Segments()
		if err := deps.Meta.SaveProject(c.Request.Context(), project); err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.SingleProjectResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Project:      project,
		})
	}
}

// Export returns the project's segments in the bracketed text format
// @Summary      Export segments
// @Description  Returns the project's sentence sequence as plain text, one "[start-end] text" line per segment
// @Tags         segments
// @Produce      plain
// @Param        id path string true "Project ID"
// @Success      200 {string} string "Bracketed segment lines"
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/projects/{id}/segments [get]
func Export(deps *types.Dependencies) gin.HandlerFunc {
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

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", project.Name+".txt"))
		c.String(200, subtitle.ExportText(project.Sentences))
	}
}

func parse(format, content string) []models.Segment {
	switch format {
	case FormatSubtitle:
		return subtitle.ParseCues(content)
	case FormatText:
		return subtitle.ParseText(content)
	default:
		if cues := subtitle.ParseCues(content); len(cues) > 0 {
			return cues
		}
		return subtitle.ParseText(content)
	}
}

func importMessage(count int) string {
	return fmt.Sprintf("Imported %d segment(s)", count)
}
