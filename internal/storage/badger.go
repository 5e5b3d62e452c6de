// ABOUTME: Embedded key-value storage backend built on Badger
// ABOUTME: Stores projects, sections and tasks as JSON documents under prefixed keys

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
)

// Key layout:
//
//	project/<id>                 -> Project
//	project-name/<name>          -> project id
//	section/<project>/<id>       -> Section
//	section-of/<id>              -> project id
//	task/<project>/<id>          -> Task
//	task-of/<id>                 -> project id
const (
	projectPrefix     = "project/"
	projectNamePrefix = "project-name/"
	sectionPrefix     = "section/"
	sectionOfPrefix   = "section-of/"
	taskPrefix        = "task/"
	taskOfPrefix      = "task-of/"
)

func projectKey(id uuid.UUID) []byte { return []byte(projectPrefix + id.String()) }
func projectNameKey(name string) []byte { return []byte(projectNamePrefix + name) }
func sectionOfKey(id uuid.UUID) []byte { return []byte(sectionOfPrefix + id.String()) }
func taskOfKey(id uuid.UUID) []byte { return []byte(taskOfPrefix + id.String()) }
func sectionsPrefix(project uuid.UUID) []byte { return []byte(sectionPrefix + project.String() + "/") }
func tasksPrefix(project uuid.UUID) []byte { return []byte(taskPrefix + project.String() + "/") }

func sectionKey(project, id uuid.UUID) []byte {
	return []byte(sectionPrefix + project.String() + "/" + id.String())
}

func taskKey(project, id uuid.UUID) []byte {
	return []byte(taskPrefix + project.String() + "/" + id.String())
}

// BadgerStore implements Repository on an embedded Badger database.
type BadgerStore struct {
	db  *badger.DB
	hub *hub
}

// Compile-time check that BadgerStore implements Repository.
var _ Repository = (*BadgerStore)(nil)

// DefaultBadgerPath returns the default Badger directory.
func DefaultBadgerPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "todo", "badger")
}

// NewBadgerStore opens (or creates) a Badger database in dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}
	return openBadger(badger.DefaultOptions(dir).WithLogger(nil))
}

// NewMemoryBadgerStore opens a Badger database that lives only in memory.
func NewMemoryBadgerStore() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, hub: newHub()}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Reset clears all data.
func (s *BadgerStore) Reset() error {
	return s.db.DropAll()
}

// --- Projects ---

// CreateProject creates a new project. Names are unique.
func (s *BadgerStore) CreateProject(_ context.Context, project *models.Project) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(projectNameKey(project.Name)); err == nil {
			return fmt.Errorf("project %q: %w", project.Name, ErrDuplicate)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := putJSON(txn, projectKey(project.ID), project); err != nil {
			return err
		}
		return txn.Set(projectNameKey(project.Name), []byte(project.ID.String()))
	})
}

// GetProject retrieves a project by its UUID.
func (s *BadgerStore) GetProject(_ context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, projectKey(id), &project)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProjectByName retrieves a project by its name.
func (s *BadgerStore) GetProjectByName(_ context.Context, name string) (*models.Project, error) {
	var project models.Project
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := getID(txn, projectNameKey(name))
		if err != nil {
			return err
		}
		return getJSON(txn, projectKey(id), &project)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects returns all projects sorted by name.
func (s *BadgerStore) ListProjects(_ context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(projectPrefix), func(val []byte) error {
			var p models.Project
			if err := json.Unmarshal(val, &p); err != nil {
				return fmt.Errorf("decode project: %w", err)
			}
			projects = append(projects, &p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// DeleteProject removes a project along with its sections and tasks.
func (s *BadgerStore) DeleteProject(_ context.Context, id uuid.UUID) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var project models.Project
		if err := getJSON(txn, projectKey(id), &project); err != nil {
			return err
		}
		var keys [][]byte
		collect := func(prefix []byte, index func(uuid.UUID) []byte) error {
			return scanPrefixKeys(txn, prefix, func(key []byte) {
				keys = append(keys, key)
				if child, err := uuid.Parse(string(key[len(prefix):])); err == nil {
					keys = append(keys, index(child))
				}
			})
		}
		if err := collect(sectionsPrefix(id), sectionOfKey); err != nil {
			return err
		}
		if err := collect(tasksPrefix(id), taskOfKey); err != nil {
			return err
		}
		keys = append(keys, projectKey(id), projectNameKey(project.Name))
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.hub.publish(id)
	return nil
}

// --- Sections and tasks ---

// GetSection retrieves a section by its UUID.
func (s *BadgerStore) GetSection(_ context.Context, id uuid.UUID) (*models.Section, error) {
	var section models.Section
	err := s.db.View(func(txn *badger.Txn) error {
		project, err := getID(txn, sectionOfKey(id))
		if err != nil {
			return err
		}
		return getJSON(txn, sectionKey(project, id), &section)
	})
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// ListSections returns a project's sections ordered by position.
func (s *BadgerStore) ListSections(_ context.Context, projectID uuid.UUID) ([]models.Section, error) {
	var sections []models.Section
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, sectionsPrefix(projectID), func(val []byte) error {
			var sec models.Section
			if err := json.Unmarshal(val, &sec); err != nil {
				return fmt.Errorf("decode section: %w", err)
			}
			sections = append(sections, sec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Position < sections[j].Position })
	return sections, nil
}

// GetTask retrieves a task by its UUID.
func (s *BadgerStore) GetTask(_ context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.View(func(txn *badger.Txn) error {
		project, err := getID(txn, taskOfKey(id))
		if err != nil {
			return err
		}
		return getJSON(txn, taskKey(project, id), &task)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns all of a project's tasks in key order.
func (s *BadgerStore) ListTasks(_ context.Context, projectID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, tasksPrefix(projectID), func(val []byte) error {
			var t models.Task
			if err := json.Unmarshal(val, &t); err != nil {
				return fmt.Errorf("decode task: %w", err)
			}
			tasks = append(tasks, t)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Apply writes the batch in a single Badger transaction.
func (s *BadgerStore) Apply(_ context.Context, batch *Batch) error {
	if batch.Empty() {
		return nil
	}
	if err := batch.validate(); err != nil {
		return err
	}

	project := batch.ProjectID
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(projectKey(project)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("project %s: %w", project, ErrNotFound)
			}
			return err
		}

		for _, id := range batch.DeleteTasks {
			if err := deleteTask(txn, project, id); err != nil {
				return err
			}
		}
		for _, id := range batch.DeleteSections {
			if err := deleteSection(txn, project, id); err != nil {
				return err
			}
		}
		for i := range batch.CreateSections {
			sec := batch.CreateSections[i]
			if err := putJSON(txn, sectionKey(project, sec.ID), &sec); err != nil {
				return err
			}
			if err := txn.Set(sectionOfKey(sec.ID), []byte(project.String())); err != nil {
				return err
			}
		}
		for i := range batch.CreateTasks {
			t := batch.CreateTasks[i]
			if err := putJSON(txn, taskKey(project, t.ID), &t); err != nil {
				return err
			}
			if err := txn.Set(taskOfKey(t.ID), []byte(project.String())); err != nil {
				return err
			}
		}
		for _, p := range batch.UpdateSections {
			var sec models.Section
			err := getJSON(txn, sectionKey(project, p.ID), &sec)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			sec = p.Apply(sec)
			if err := putJSON(txn, sectionKey(project, p.ID), &sec); err != nil {
				return err
			}
		}
		for _, p := range batch.UpdateTasks {
			var t models.Task
			err := getJSON(txn, taskKey(project, p.ID), &t)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			t = p.Apply(t)
			if err := putJSON(txn, taskKey(project, p.ID), &t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.hub.publish(project)
	return nil
}

// Subscribe streams snapshots of a project.
func (s *BadgerStore) Subscribe(ctx context.Context, projectID uuid.UUID) (<-chan Snapshot, error) {
	return s.hub.subscribe(ctx, projectID, s.loadProject)
}

func (s *BadgerStore) loadProject(ctx context.Context, projectID uuid.UUID) ([]models.Section, []models.Task, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, nil, err
	}
	sections, err := s.ListSections(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.ListTasks(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	return sections, tasks, nil
}

func deleteTask(txn *badger.Txn, project, id uuid.UUID) error {
	if err := txn.Delete(taskKey(project, id)); err != nil {
		return err
	}
	return txn.Delete(taskOfKey(id))
}

// deleteSection removes the section and every task filed under it.
func deleteSection(txn *badger.Txn, project, id uuid.UUID) error {
	var doomed []uuid.UUID
	err := scanPrefix(txn, tasksPrefix(project), func(val []byte) error {
		var t models.Task
		if err := json.Unmarshal(val, &t); err != nil {
			return fmt.Errorf("decode task: %w", err)
		}
		if t.SectionID != nil && *t.SectionID == id {
			doomed = append(doomed, t.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, taskID := range doomed {
		if err := deleteTask(txn, project, taskID); err != nil {
			return err
		}
	}
	if err := txn.Delete(sectionKey(project, id)); err != nil {
		return err
	}
	return txn.Delete(sectionOfKey(id))
}

func putJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set(key, data)
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func getID(txn *badger.Txn, key []byte) (uuid.UUID, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(string(val))
}

// scanPrefix calls fn with the value of every key under prefix.
func scanPrefix(txn *badger.Txn, prefix []byte, fn func(val []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

// scanPrefixKeys collects copies of every key under prefix.
func scanPrefixKeys(txn *badger.Txn, prefix []byte, fn func(key []byte)) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		fn(it.Item().KeyCopy(nil))
	}
	return nil
}
