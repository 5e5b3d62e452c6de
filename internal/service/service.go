// ABOUTME: Application layer tying storage to the pure reorder operations
// ABOUTME: Each mutation loads a project, reorders in memory, diffs, and writes one batch

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/todo/internal/logging"
	"github.com/harper/todo/internal/models"
	"github.com/harper/todo/internal/reorder"
	"github.com/harper/todo/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Service runs todo operations against a repository. Concurrent writers to
// the same project resolve last-writer-wins per document.
type Service struct {
	repo storage.Repository
	log  *log.Logger
	now  func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the clock used for completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service over repo.
func New(repo storage.Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		log:  logging.Discard(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository returns the underlying repository.
func (s *Service) Repository() storage.Repository {
	return s.repo
}

// Board loads a project's sections and tasks concurrently and returns them
// in display order.
func (s *Service) Board(ctx context.Context, projectID uuid.UUID) (*storage.Board, error) {
	var (
		project  *models.Project
		sections []models.Section
		tasks    []models.Task
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.repo.GetProject(gctx, projectID)
		if err != nil {
			return fmt.Errorf("project %s: %w", projectID, err)
		}
		project = p
		return nil
	})
	g.Go(func() error {
		list, err := s.repo.ListSections(gctx, projectID)
		if err != nil {
			return fmt.Errorf("list sections: %w", err)
		}
		sections = list
		return nil
	})
	g.Go(func() error {
		list, err := s.repo.ListTasks(gctx, projectID)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		tasks = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sections = reorder.SortSections(sections)
	return &storage.Board{
		Project:  project,
		Sections: sections,
		Tasks:    reorder.Sort(tasks, sections),
	}, nil
}

// Watch streams the project's board, first immediately and then after
// every change. The channel closes when ctx is done.
func (s *Service) Watch(ctx context.Context, projectID uuid.UUID) (<-chan *storage.Board, error) {
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", projectID, err)
	}
	snapshots, err := s.repo.Subscribe(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan *storage.Board)
	go func() {
		defer close(out)
		for snap := range snapshots {
			if snap.Err != nil {
				if errors.Is(snap.Err, storage.ErrNotFound) {
					s.log.Warn("watched project is gone", "project", project.Name)
					return
				}
				s.log.Error("reload board", "project", project.Name, "err", snap.Err)
				continue
			}
			sections := reorder.SortSections(snap.Sections)
			board := &storage.Board{
				Project:  project,
				Sections: sections,
				Tasks:    reorder.Sort(snap.Tasks, sections),
			}
			select {
			case out <- board:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// commit diffs the before and after collections and writes the result as
// one batch.
func (s *Service) commit(ctx context.Context, op string, board *storage.Board, sections []models.Section, tasks []models.Task) error {
	batch := storage.NewBatch(
		board.Project.ID,
		reorder.DiffSections(board.Sections, sections),
		reorder.DiffTasks(board.Tasks, tasks),
	)
	if batch.Empty() {
		s.log.Debug("nothing to write", "op", op, "project", board.Project.Name)
		return nil
	}
	if err := s.repo.Apply(ctx, batch); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Debug("applied batch",
		"op", op,
		"project", board.Project.Name,
		"sections", len(batch.CreateSections)+len(batch.UpdateSections)+len(batch.DeleteSections),
		"tasks", len(batch.CreateTasks)+len(batch.UpdateTasks)+len(batch.DeleteTasks),
	)
	return nil
}

func findTask(tasks []models.Task, id uuid.UUID) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func findSection(sections []models.Section, id uuid.UUID) (models.Section, bool) {
	for _, sec := range sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return models.Section{}, false
}
