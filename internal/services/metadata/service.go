package metadata

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/lingloop/player-api/internal/models"
	"github.com/lingloop/player-api/internal/store"
	apperrors "github.com/lingloop/player-api/pkg/errors"
)

// ServiceImpl implements Service over the key-value tier. Every
// read-modify-write for a given collection key runs under that key's mutex,
// so two logical writers can no longer race the last-write-wins window the
// whole-collection format would otherwise leave open.
type ServiceImpl struct {
	kv    *store.KV
	media MediaDeleter

	locks sync.Map // collection key -> *sync.Mutex
}

// NewService creates a metadata service. media may be nil when no binary
// tier is configured; the delete cascade is then skipped.
func NewService(kv *store.KV, media MediaDeleter) *ServiceImpl {
	return &ServiceImpl{kv: kv, media: media}
}

func (s *ServiceImpl) lock(key string) func() {
	muInterface, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := muInterface.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// loadProjects reads the whole project collection, degrading to empty on any
// store or decode failure.
func (s *ServiceImpl) loadProjects(ctx context.Context) []models.Project {
	value, err := s.kv.Get(ctx, models.MetaKeyProjects)
	if err != nil {
		log.Printf("[ERROR] Failed to read project collection: %v", err)
		return []models.Project{}
	}
	if value == nil {
		return []models.Project{}
	}

	var projects []models.Project
	if err := json.Unmarshal(value, &projects); err != nil {
		log.Printf("[ERROR] Corrupt project collection, starting empty: %v", err)
		return []models.Project{}
	}
	return projects
}

func (s *ServiceImpl) writeProjects(ctx context.Context, projects []models.Project) error {
	value, err := json.Marshal(projects)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to encode project collection")
	}
	if err := s.kv.Put(ctx, models.MetaKeyProjects, value); err != nil {
		return apperrors.DatabaseError("write projects", err)
	}
	return nil
}

// ListProjects returns every project in the collection.
func (s *ServiceImpl) ListProjects(ctx context.Context) []models.Project {
	unlock := s.lock(models.MetaKeyProjects)
	defer unlock()
	return s.loadProjects(ctx)
}

// GetProject returns the project with the given id.
func (s *ServiceImpl) GetProject(ctx context.Context, id string) (*models.Project, error) {
	unlock := s.lock(models.MetaKeyProjects)
	defer unlock()

	for _, p := range s.loadProjects(ctx) {
		if p.ID == id {
			project := p
			return &project, nil
		}
	}
	return nil, apperrors.NotFound("project", id)
}

// SaveProject inserts or replaces a project, stamping LastAccessedAt on
// every save.
func (s *ServiceImpl) SaveProject(ctx context.Context, project *models.Project) error {
	if project == nil || project.ID == "" {
		return apperrors.ValidationError("project", "missing id")
	}

	unlock := s.lock(models.MetaKeyProjects)
	defer unlock()

	project.LastAccessedAt = time.Now().UTC()
	project.ClampLayout()

	projects := s.loadProjects(ctx)
	replaced := false
	for i, p := range projects {
		if p.ID == project.ID {
			projects[i] = *project
			replaced = true
			break
		}
	}
	if !replaced {
		projects = append(projects, *project)
	}

	return s.writeProjects(ctx, projects)
}

// DeleteProject removes a project and best-effort deletes its media payload.
func (s *ServiceImpl) DeleteProject(ctx context.Context, id string) error {
	unlock := s.lock(models.MetaKeyProjects)

	projects := s.loadProjects(ctx)
	filtered := projects[:0]
	found := false
	for _, p := range projects {
		if p.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, p)
	}

	if !found {
		unlock()
		return apperrors.NotFound("project", id)
	}

	err := s.writeProjects(ctx, filtered)
	unlock()
	if err != nil {
		return err
	}

	// Payload deletion is best-effort: the metadata delete already
	// succeeded and must stand even when the blob cannot be removed.
	if s.media != nil {
		if err := s.media.Delete(ctx, id); err != nil {
			log.Printf("[WARN] Failed to delete media for project %s: %v", id, err)
		}
	}

	return nil
}

// loadGroups reads the whole group collection, degrading to empty on
// failure.
func (s *ServiceImpl) loadGroups(ctx context.Context) []models.Group {
	value, err := s.kv.Get(ctx, models.MetaKeyGroups)
	if err != nil {
		log.Printf("[ERROR] Failed to read group collection: %v", err)
		return []models.Group{}
	}
	if value == nil {
		return []models.Group{}
	}

	var groups []models.Group
	if err := json.Unmarshal(value, &groups); err != nil {
		log.Printf("[ERROR] Corrupt group collection, starting empty: %v", err)
		return []models.Group{}
	}
	return groups
}

func (s *ServiceImpl) writeGroups(ctx context.Context, groups []models.Group) error {
	value, err := json.Marshal(groups)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to encode group collection")
	}
	if err := s.kv.Put(ctx, models.MetaKeyGroups, value); err != nil {
		return apperrors.DatabaseError("write groups", err)
	}
	return nil
}

// ListGroups returns every group in the collection.
func (s *ServiceImpl) ListGroups(ctx context.Context) []models.Group {
	unlock := s.lock(models.MetaKeyGroups)
	defer unlock()
	return s.loadGroups(ctx)
}

// SaveGroup inserts or replaces a group.
func (s *ServiceImpl) SaveGroup(ctx context.Context, group *models.Group) error {
	if group == nil || group.ID == "" {
		return apperrors.ValidationError("group", "missing id")
	}

	unlock := s.lock(models.MetaKeyGroups)
	defer unlock()

	groups := s.loadGroups(ctx)
	replaced := false
	for i, g := range groups {
		if g.ID == group.ID {
			groups[i] = *group
			replaced = true
			break
		}
	}
	if !replaced {
		groups = append(groups, *group)
	}

	return s.writeGroups(ctx, groups)
}

// DeleteGroup removes a group and reassigns its projects to the root.
func (s *ServiceImpl) DeleteGroup(ctx context.Context, id string) error {
	unlock := s.lock(models.MetaKeyGroups)

	groups := s.loadGroups(ctx)
	filtered := groups[:0]
	found := false
	for _, g := range groups {
		if g.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, g)
	}

	if !found {
		unlock()
		return apperrors.NotFound("group", id)
	}

	err := s.writeGroups(ctx, filtered)
	unlock()
	if err != nil {
		return err
	}

	// Member projects move to the root; they are never deleted with their
	// group.
	unlockProjects := s.lock(models.MetaKeyProjects)
	defer unlockProjects()

	projects := s.loadProjects(ctx)
	changed := false
	for i, p := range projects {
		if p.GroupID != nil && *p.GroupID == id {
			projects[i].GroupID = nil
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.writeProjects(ctx, projects)
}

// LoadSettings returns the persisted playback settings, falling back to the
// defaults when the record is missing or unreadable.
func (s *ServiceImpl) LoadSettings(ctx context.Context) models.PlaybackSettings {
	unlock := s.lock(models.MetaKeySettings)
	defer unlock()

	value, err := s.kv.Get(ctx, models.MetaKeySettings)
	if err != nil {
		log.Printf("[ERROR] Failed to read playback settings: %v", err)
		return models.DefaultPlaybackSettings()
	}
	if value == nil {
		return models.DefaultPlaybackSettings()
	}

	var settings models.PlaybackSettings
	if err := json.Unmarshal(value, &settings); err != nil {
		log.Printf("[ERROR] Corrupt playback settings, using defaults: %v", err)
		return models.DefaultPlaybackSettings()
	}
	settings.Clamp()
	return settings
}

// SaveSettings persists the playback settings.
func (s *ServiceImpl) SaveSettings(ctx context.Context, settings models.PlaybackSettings) error {
	unlock := s.lock(models.MetaKeySettings)
	defer unlock()

	settings.Clamp()
	value, err := json.Marshal(settings)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to encode playback settings")
	}
	if err := s.kv.Put(ctx, models.MetaKeySettings, value); err != nil {
		return apperrors.DatabaseError("write settings", err)
	}
	return nil
}
