package metadata

import (
	"context"

	"github.com/lingloop/player-api/internal/models"
)

// Service defines the metadata tier operations: project and group
// collections plus the process-wide playback settings record. All collection
// mutations follow a whole-collection read-modify-write discipline,
// serialized per collection key.
type Service interface {
	// ListProjects returns every project. Store failure degrades to an
	// empty list.
	ListProjects(ctx context.Context) []models.Project

	// GetProject returns the project with the given id.
	GetProject(ctx context.Context, id string) (*models.Project, error)

	// SaveProject inserts or replaces a project and stamps LastAccessedAt.
	SaveProject(ctx context.Context, project *models.Project) error

	// DeleteProject removes a project from the collection and best-effort
	// deletes its media payload. Metadata deletion succeeds even when the
	// payload deletion fails.
	DeleteProject(ctx context.Context, id string) error

	// ListGroups returns every group. Store failure degrades to an empty
	// list.
	ListGroups(ctx context.Context) []models.Group

	// SaveGroup inserts or replaces a group.
	SaveGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and moves its projects back to the root.
	// The projects themselves are kept.
	DeleteGroup(ctx context.Context, id string) error

	// LoadSettings returns the persisted playback settings, or the defaults
	// when nothing has been persisted yet.
	LoadSettings(ctx context.Context) models.PlaybackSettings

	// SaveSettings persists the playback settings.
	SaveSettings(ctx context.Context, settings models.PlaybackSettings) error
}

// MediaDeleter is the slice of the binary media store the metadata tier
// needs for the delete cascade.
type MediaDeleter interface {
	Delete(ctx context.Context, projectID string) error
}
