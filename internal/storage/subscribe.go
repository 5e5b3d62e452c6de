// ABOUTME: Change notification for project snapshots
// ABOUTME: Backends publish after writes; subscribers reload and receive a fresh snapshot

package storage

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/oklog/ulid/v2"
)

// Snapshot is the full current state of one project as seen by a subscriber.
// Seq increases monotonically across snapshots.
type Snapshot struct {
	Seq       ulid.ULID
	ProjectID uuid.UUID
	Sections  []models.Section
	Tasks     []models.Task
	// Err is set when reloading the project failed; the stream continues.
	Err error
}

// loadFunc reads a project's current sections and tasks.
type loadFunc func(ctx context.Context, projectID uuid.UUID) ([]models.Section, []models.Task, error)

// hub fans out write notifications to subscribers of a project.
type hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[chan struct{}]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[uuid.UUID]map[chan struct{}]struct{})}
}

// publish wakes every subscriber of projectID without blocking.
func (h *hub) publish(projectID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[projectID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *hub) register(projectID uuid.UUID) chan struct{} {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[projectID] == nil {
		h.subs[projectID] = make(map[chan struct{}]struct{})
	}
	h.subs[projectID][ch] = struct{}{}
	return ch
}

func (h *hub) unregister(projectID uuid.UUID, ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[projectID], ch)
	if len(h.subs[projectID]) == 0 {
		delete(h.subs, projectID)
	}
}

func snapshot(ctx context.Context, projectID uuid.UUID, load loadFunc) Snapshot {
	sections, tasks, err := load(ctx, projectID)
	return Snapshot{
		Seq:       ulid.Make(),
		ProjectID: projectID,
		Sections:  sections,
		Tasks:     tasks,
		Err:       err,
	}
}

// sameState reports whether two snapshots hold the same sections and tasks.
func sameState(a, b Snapshot) bool {
	return a.Err == nil && b.Err == nil &&
		reflect.DeepEqual(a.Sections, b.Sections) &&
		reflect.DeepEqual(a.Tasks, b.Tasks)
}

// subscribe loads the first snapshot synchronously so a missing project
// fails fast, then streams a new snapshot after each publish. Reloads that
// find nothing changed are dropped, so publishers may over-notify.
func (h *hub) subscribe(ctx context.Context, projectID uuid.UUID, load loadFunc) (<-chan Snapshot, error) {
	first := snapshot(ctx, projectID, load)
	if first.Err != nil {
		return nil, first.Err
	}

	notify := h.register(projectID)
	out := make(chan Snapshot, 1)

	go func() {
		defer close(out)
		defer h.unregister(projectID, notify)

		pending := &first
		last := first
		for {
			if pending != nil {
				select {
				case out <- *pending:
					pending = nil
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-ctx.Done():
				return
			case <-notify:
				next := snapshot(ctx, projectID, load)
				if sameState(last, next) {
					continue
				}
				last = next
				pending = &next
			}
		}
	}()

	return out, nil
}
