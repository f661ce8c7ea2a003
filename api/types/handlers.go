package types

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lingloop/player-api/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// RequireParam extracts a URL parameter and rejects the request when empty
func RequireParam(c *gin.Context, paramName string) (string, bool) {
	value := c.Param(paramName)
	if value == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Message: "Missing " + paramName,
			Error:   "Invalid " + paramName,
		})
		return "", false
	}
	return value, true
}

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Message: "Invalid request body",
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Status: StatusError, Message: message, Error: message})
}

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Status: StatusError, Message: message, Error: message})
}

// SendInternalError sends a standardized internal server error response
func SendInternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Status: StatusError, Message: message, Error: message})
}

// SendError maps a service error onto its HTTP status using the error's
// embedded code, falling back to 500 for unclassified errors
func SendError(c *gin.Context, err error) {
	status := apperrors.GetHTTPCode(err)
	c.JSON(status, ErrorResponse{
		Status:  StatusError,
		Message: err.Error(),
		Error:   string(apperrors.GetCode(err)),
	})
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendCreated sends a standardized created response with data
func SendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}
