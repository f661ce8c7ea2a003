package types

import (
	"github.com/lingloop/player-api/internal/models"
	"github.com/lingloop/player-api/internal/services/player"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`            // One of the Status constants above
	Message string `json:"message,omitempty"` // Human-readable message
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// ProjectsResponse for project lists
type ProjectsResponse struct {
	BaseResponse
	Projects []models.Project `json:"projects"`
	Count    int              `json:"count"`
}

// SingleProjectResponse for getting a single project
type SingleProjectResponse struct {
	BaseResponse
	Project *models.Project `json:"project"`
}

// GroupsResponse for group lists
type GroupsResponse struct {
	BaseResponse
	Groups []models.Group `json:"groups"`
	Count  int            `json:"count"`
}

// SingleGroupResponse for getting a single group
type SingleGroupResponse struct {
	BaseResponse
	Group *models.Group `json:"group"`
}

// SettingsResponse for the durable playback settings record
type SettingsResponse struct {
	BaseResponse
	Settings models.PlaybackSettings `json:"settings"`
}

// ImportResponse reports the outcome of a segment import
type ImportResponse struct {
	BaseResponse
	SegmentCount int `json:"segmentCount"`
}

// MediaResponse describes the media payload attached to a project
type MediaResponse struct {
	BaseResponse
	Media *models.MediaObject `json:"media"`
}

// PlayerResponse carries the engine state plus the transport directives the
// client media element must execute, in order, since its last exchange
type PlayerResponse struct {
	BaseResponse
	State      player.State       `json:"state"`
	Directives []player.Directive `json:"directives"`
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	BaseResponse
	Version  string                 `json:"version,omitempty"`
	Services map[string]interface{} `json:"services,omitempty"`
}
