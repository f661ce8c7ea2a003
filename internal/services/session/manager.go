package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lingloop/player-api/internal/models"
	"github.com/lingloop/player-api/internal/services/metadata"
	"github.com/lingloop/player-api/internal/services/player"
	apperrors "github.com/lingloop/player-api/pkg/errors"
)

// Manager owns the active project session: it loads a project into the loop
// engine and periodically snapshots the engine-observable state (active
// segment index, playback position, pane ratio, font size) back into the
// metadata tier, so the session survives a reload.
type Manager struct {
	engine   *player.Engine
	meta     metadata.Service
	interval time.Duration

	mu      sync.Mutex
	project *models.Project
	stop    chan struct{}
	done    chan struct{}
}

// NewManager creates a session manager snapshotting at the given interval.
// Segment changes additionally trigger an immediate snapshot, so the stored
// LastActiveIndex tracks selection without waiting for the next tick.
func NewManager(engine *player.Engine, meta metadata.Service, interval time.Duration) *Manager {
	m := &Manager{
		engine:   engine,
		meta:     meta,
		interval: interval,
	}
	// The callback fires under the engine lock; persist off that path so
	// the transport never waits on a metadata write.
	engine.SetEvents(player.Events{
		OnSegmentChange: func(models.Segment, int) {
			go func() {
				_ = m.Snapshot(context.Background())
			}()
		},
	})
	return m
}

// Engine returns the managed loop engine.
func (m *Manager) Engine() *player.Engine {
	return m.engine
}

// LoadProject makes the given project the active session: its sentences are
// loaded into the engine and the periodic snapshotter starts. Any previous
// session is snapshotted and closed first.
func (m *Manager) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	project, err := m.meta.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeSessionLocked(ctx)

	m.engine.Load(models.NewSegmentList(project.Sentences))
	m.project = project

	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.run(m.stop, m.done)

	return project, nil
}

// Unload snapshots the active session one last time and stops the
// snapshotter. Unloading without an active session is a no-op.
func (m *Manager) Unload(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine.Stop()
	m.closeSessionLocked(ctx)
	m.engine.Load(models.NewSegmentList(nil))
}

// Project returns a copy of the active project, or nil when no session is
// loaded.
func (m *Manager) Project() *models.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.project == nil {
		return nil
	}
	project := *m.project
	return &project
}

// UpdateLayout records the pane split ratio and font size on the active
// project; the next snapshot persists them.
func (m *Manager) UpdateLayout(splitRatio float64, fontSize int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.project == nil {
		return apperrors.NotFound("session", "active")
	}
	m.project.SplitRatio = splitRatio
	m.project.FontSize = fontSize
	m.project.ClampLayout()
	return nil
}

// ReplaceSegments swaps the active project's sentence sequence, reloads the
// engine and persists immediately. Import replaces wholesale; there is no
// partial merge.
func (m *Manager) ReplaceSegments(ctx context.Context, segments []models.Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.project == nil {
		return apperrors.NotFound("session", "active")
	}

	list := models.NewSegmentList(segments)
	m.project.Sentences = list.Segments()
	m.project.LastActiveIndex = -1
	m.engine.Load(list)

	return m.meta.SaveProject(ctx, m.project)
}

// UpdateSegment edits a single segment on the active project without
// dropping the engine's selection, then persists. The sentence sequence
// stays sorted by start time after the edit.
func (m *Manager) UpdateSegment(ctx context.Context, segment models.Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.project == nil {
		return apperrors.NotFound("session", "active")
	}

	if !m.engine.ReplaceSegment(segment) {
		return apperrors.NotFound("segment", segment.ID)
	}

	for i := range m.project.Sentences {
		if m.project.Sentences[i].ID == segment.ID {
			m.project.Sentences[i] = segment
			break
		}
	}
	m.project.Sentences = models.NewSegmentList(m.project.Sentences).Segments()

	return m.meta.SaveProject(ctx, m.project)
}

// Snapshot persists the current engine state onto the active project. Called
// by the ticker and on unload; safe to call manually after an edit.
func (m *Manager) Snapshot(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(ctx)
}

func (m *Manager) snapshotLocked(ctx context.Context) error {
	if m.project == nil {
		return nil
	}

	state := m.engine.Snapshot()
	m.project.LastActiveIndex = state.ActiveIndex
	m.project.CurrentTime = state.Position

	if err := m.meta.SaveProject(ctx, m.project); err != nil {
		// Session sync is best-effort; playback must not stop because a
		// snapshot write failed.
		log.Printf("[WARN] Session snapshot failed for project %s: %v", m.project.ID, err)
		return err
	}
	return nil
}

func (m *Manager) closeSessionLocked(ctx context.Context) {
	if m.project == nil {
		return
	}

	close(m.stop)
	<-m.done

	if err := m.snapshotLocked(ctx); err == nil {
		log.Printf("Session closed for project %s", m.project.ID)
	}
	m.project = nil
	m.stop = nil
	m.done = nil
}

func (m *Manager) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.tick(context.Background())
		}
	}
}

// tick is the periodic snapshot. It skips the tick when the lock is
// contended: Unload holds the lock while waiting for this goroutine to
// finish, so blocking here would deadlock the shutdown.
func (m *Manager) tick(ctx context.Context) {
	if !m.mu.TryLock() {
		return
	}
	defer m.mu.Unlock()
	_ = m.snapshotLocked(ctx)
}
