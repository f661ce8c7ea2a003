package media

import (
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lingloop/player-api/api/types"
	"github.com/lingloop/player-api/internal/models"
)

// Upload attaches a media payload to a project
// @Summary      Upload media
// @Description  Stores the uploaded file as the project's media payload, replacing any previous one. The project's media type and name are derived from the upload.
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        file formData file true "Media file"
// @Success      201 {object} types.MediaResponse
// @Failure      400 {object} types.ErrorResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/projects/{id}/media [post]
func Upload(deps *types.Dependencies) gin.HandlerFunc {
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

		fileHeader, err := c.FormFile("file")
		if err != nil {
			types.SendBadRequest(c, "Missing file upload")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			types.SendInternalError(c, "Failed to read upload")
			return
		}
		defer file.Close()

		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		object, err := deps.Media.Put(c.Request.Context(), id, file, fileHeader.Filename, contentType)
		if err != nil {
			log.Printf("[ERROR] Failed to store media for project %s: %v", id, err)
			types.SendError(c, err)
			return
		}

		project.MediaType = mediaTypeFor(contentType)
		project.MediaName = fileHeader.Filename
		if err := deps.Meta.SaveProject(c.Request.Context(), project); err != nil {
			log.Printf("[WARN] Media stored but project %s metadata update failed: %v", id, err)
		}

		types.SendCreated(c, types.MediaResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Media stored"},
			Media:        object,
		})
	}
}

// Stream serves the project's media payload with range request support
// @Summary      Stream media
// @Description  Streams the stored media payload. Supports HTTP range requests for seeking.
// @Tags         media
// @Produce      octet-stream
// @Param        id path string true "Project ID"
// @Success      200 "Full media content"
// @Success      206 "Partial media content (range request)"
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/projects/{id}/media [get]
func Stream(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.RequireParam(c, "id")
		if !ok {
			return
		}

		reader, object, err := deps.Media.Get(c.Request.Context(), id)
		if err != nil {
			types.SendError(c, err)
			return
		}
		defer reader.Close()

		c.Header("Content-Type", object.ContentType)

		// Filesystem blobs are seekable, which lets the media element scrub.
		if seeker, ok := reader.(io.ReadSeeker); ok {
			http.ServeContent(c.Writer, c.Request, object.FileName, object.UpdatedAt, seeker)
			return
		}

		c.DataFromReader(http.StatusOK, object.SizeBytes, object.ContentType, reader, nil)
	}
}

// Stat reports whether a payload is attached without sending the bytes
// @Summary      Probe media
// @Tags         media
// @Param        id path string true "Project ID"
// @Success      200 "Media attached"
// @Failure      404 "No media attached"
// @Router       /api/v1/projects/{id}/media [head]
func Stat(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.RequireParam(c, "id")
		if !ok {
			return
		}

		object, err := deps.Media.Stat(c.Request.Context(), id)
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}

		c.Header("Content-Type", object.ContentType)
		c.Header("Content-Length", strconv.FormatInt(object.SizeBytes, 10))
		c.Status(http.StatusOK)
	}
}

// Delete removes the project's media payload
// @Summary      Delete media
// @Description  Removes the stored payload and resets the project's media fields. Deleting absent media is a no-op.
// @Tags         media
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} types.BaseResponse
// @Router       /api/v1/projects/{id}/media [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.RequireParam(c, "id")
		if !ok {
			return
		}

		if err := deps.Media.Delete(c.Request.Context(), id); err != nil {
			types.SendError(c, err)
			return
		}

		if project, err := deps.Meta.GetProject(c.Request.Context(), id); err == nil {
			project.MediaType = models.MediaTypeNone
			project.MediaName = ""
			if err := deps.Meta.SaveProject(c.Request.Context(), project); err != nil {
				log.Printf("[WARN] Media deleted but project %s metadata update failed: %v", id, err)
			}
		}

		c.JSON(http.StatusOK, types.BaseResponse{
			Status:  types.StatusOK,
			Message: "Media deleted",
		})
	}
}

func mediaTypeFor(contentType string) models.MediaType {
	switch {
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo
	case strings.HasPrefix(contentType, "audio/"):
		return models.MediaTypeAudio
	default:
		return models.MediaTypeAudio
	}
}
