// ABOUTME: Tests for the service layer against real storage backends
// ABOUTME: Covers project, section and task operations end to end

package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/harper/todo/internal/reorder"
	"github.com/harper/todo/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := storage.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, WithClock(func() time.Time { return fixedNow }))
}

func newBadgerService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.NewMemoryBadgerStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, WithClock(func() time.Time { return fixedNow }))
}

// titles returns the titles of a section's tasks in display order.
func titles(board *storage.Board, sectionID *uuid.UUID) []string {
	var out []string
	for _, t := range board.Tasks {
		if t.InSection(sectionID) {
			out = append(out, t.Title)
		}
	}
	return out
}

func taskID(t *testing.T, board *storage.Board, title string) uuid.UUID {
	t.Helper()
	task, err := ResolveTask(board.Tasks, title)
	require.NoError(t, err)
	return task.ID
}

// requireDense checks that every section's incomplete tasks hold 0..n-1
// and completed tasks hold the completed sentinel.
func requireDense(t *testing.T, board *storage.Board) {
	t.Helper()
	next := map[string]int{}
	for _, task := range board.Tasks {
		if task.IsCompleted() {
			require.Equal(t, reorder.CompletedPosition, task.Position, task.Title)
			continue
		}
		key := "none"
		if task.SectionID != nil {
			key = task.SectionID.String()
		}
		require.Equal(t, next[key], task.Position, task.Title)
		next[key]++
	}
}

type fixture struct {
	svc     *Service
	project *models.Project
	kitchen *models.Section
	garden  *models.Section
}

// newFixture builds: ungrouped [a b], kitchen [k1 k2 k3], garden [g1].
func newFixture(t *testing.T, svc *Service) *fixture {
	t.Helper()
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, "home")
	require.NoError(t, err)
	kitchen, err := svc.AddSection(ctx, project.ID, "kitchen")
	require.NoError(t, err)
	garden, err := svc.AddSection(ctx, project.ID, "garden")
	require.NoError(t, err)

	_, err = svc.AddTasks(ctx, project.ID, nil, []string{"a", "b"})
	require.NoError(t, err)
	_, err = svc.AddTasks(ctx, project.ID, &kitchen.ID, []string{"k1", "k2", "k3"})
	require.NoError(t, err)
	_, err = svc.AddTask(ctx, project.ID, &garden.ID, "g1")
	require.NoError(t, err)

	return &fixture{svc: svc, project: project, kitchen: kitchen, garden: garden}
}

func (f *fixture) board(t *testing.T) *storage.Board {
	t.Helper()
	board, err := f.svc.Board(context.Background(), f.project.ID)
	require.NoError(t, err)
	return board
}

func TestCreateProject(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, "  home  ")
	require.NoError(t, err)
	assert.Equal(t, "home", project.Name)

	_, err = svc.CreateProject(ctx, "home")
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	_, err = svc.CreateProject(ctx, "   ")
	assert.Error(t, err)

	got, err := svc.ProjectByName(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	_, err = svc.ProjectByName(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestResolveProject(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	home, err := svc.CreateProject(ctx, "Home")
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, "Work")
	require.NoError(t, err)

	for _, ref := range []string{"Home", "home", home.ID.String(), home.ID.String()[:8]} {
		got, err := svc.ResolveProject(ctx, ref)
		require.NoError(t, err, ref)
		assert.Equal(t, home.ID, got.ID, ref)
	}

	_, err = svc.ResolveProject(ctx, "garage")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddTasks_AppendsInOrder(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	board := f.board(t)

	assert.Equal(t, []string{"a", "b"}, titles(board, nil))
	assert.Equal(t, []string{"k1", "k2", "k3"}, titles(board, &f.kitchen.ID))
	assert.Equal(t, []string{"g1"}, titles(board, &f.garden.ID))
	requireDense(t, board)

	created, err := svc.AddTask(context.Background(), f.project.ID, &f.kitchen.ID, "k4")
	require.NoError(t, err)
	assert.Equal(t, 3, created.Position)
}

func TestAddTask_Errors(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	ctx := context.Background()

	missing := uuid.New()
	_, err := svc.AddTask(ctx, f.project.ID, &missing, "x")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.AddTask(ctx, uuid.New(), nil, "x")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.AddTask(ctx, f.project.ID, nil, " ")
	assert.Error(t, err)

	_, err = svc.AddTasks(ctx, f.project.ID, nil, nil)
	assert.Error(t, err)
}

func TestMoveTask_WithinSection(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.MoveTask(ctx, taskID(t, f.board(t), "k3"), &f.kitchen.ID, 0))

	board := f.board(t)
	assert.Equal(t, []string{"k3", "k1", "k2"}, titles(board, &f.kitchen.ID))
	requireDense(t, board)
}

func TestMoveTask_AcrossSections(t *testing.T) {
	for name, svc := range map[string]*Service{"sqlite": newService(t), "badger": newBadgerService(t)} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, svc)
			ctx := context.Background()

			require.NoError(t, svc.MoveTask(ctx, taskID(t, f.board(t), "k2"), &f.garden.ID, 0))
			require.NoError(t, svc.MoveTask(ctx, taskID(t, f.board(t), "a"), &f.kitchen.ID, 99))

			board := f.board(t)
			assert.Equal(t, []string{"b"}, titles(board, nil))
			assert.Equal(t, []string{"k1", "k3", "a"}, titles(board, &f.kitchen.ID))
			assert.Equal(t, []string{"k2", "g1"}, titles(board, &f.garden.ID))
			requireDense(t, board)
		})
	}
}

func TestMoveTask_Errors(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	ctx := context.Background()

	err := svc.MoveTask(ctx, uuid.New(), nil, 0)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	missing := uuid.New()
	err = svc.MoveTask(ctx, taskID(t, f.board(t), "a"), &missing, 0)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMoveTask_CompletedOnlyChangesSection(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	ctx := context.Background()

	k1 := taskID(t, f.board(t), "k1")
	require.NoError(t, svc.CompleteTask(ctx, k1))
	require.NoError(t, svc.MoveTask(ctx, k1, &f.garden.ID, 0))

	task, err := svc.Repository().GetTask(ctx, k1)
	require.NoError(t, err)
	require.NotNil(t, task.SectionID)
	assert.Equal(t, f.garden.ID, *task.SectionID)
	assert.True(t, task.IsCompleted())

	board := f.board(t)
	assert.Equal(t, []string{"g1", "k1"}, titles(board, &f.garden.ID))
	requireDense(t, board)
}

func TestMoveTasks_ContiguousRun(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	ctx := context.Background()
	board := f.board(t)

	first := taskID(t, board, "k3")
	others := []uuid.UUID{taskID(t, board, "a"), taskID(t, board, "k1")}
	require.NoError(t, svc.MoveTasks(ctx, first, others, &f.garden.ID, 1))

	board = f.board(t)
	assert.Equal(t, []string{"b"}, titles(board, nil))
	assert.Equal(t, []string{"k2"}, titles(board, &f.kitchen.ID))
	// The run keeps display order: a (ungrouped) before k1 before k3.
	assert.Equal(t, []string{"g1", "a", "k1", "k3"}, titles(board, &f.garden.ID))
	requireDense(t, board)
}

func TestMoveTasks_UnknownSelection(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)

	err := svc.MoveTasks(context.Background(), taskID(t, f.board(t), "a"), []uuid.UUID{uuid.New()}, nil, 0)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCompleteAndIncomplete(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	ctx := context.Background()
	k1 := taskID(t, f.board(t), "k1")

	require.NoError(t, svc.CompleteTask(ctx, k1))

	task, err := svc.Repository().GetTask(ctx, k1)
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, fixedNow.Equal(*task.CompletedAt))
	assert.Equal(t, reorder.CompletedPosition, task.Position)

	board := f.board(t)
	assert.Equal(t, []string{"k2", "k3", "k1"}, titles(board, &f.kitchen.ID))
	requireDense(t, board)

	// Completing again is a no-op.
	require.NoError(t, svc.CompleteTask(ctx, k1))

	require.NoError(t, svc.IncompleteTask(ctx, k1))
	task, err = svc.Repository().GetTask(ctx, k1)
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, 2, task.Position)

	require.NoError(t, svc.IncompleteTask(ctx, k1))
	assert.ErrorIs(t, svc.CompleteTask(ctx, uuid.New()), storage.ErrNotFound)
}

func TestRenameTask(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.RenameTask(ctx, taskID(t, f.board(t), "a"), "alpha"))
	assert.Equal(t, []string{"alpha", "b"}, titles(f.board(t), nil))

	assert.Error(t, svc.RenameTask(ctx, taskID(t, f.board(t), "b"), ""))
	assert.ErrorIs(t, svc.RenameTask(ctx, uuid.New(), "x"), storage.ErrNotFound)
}

func TestDeleteTasks(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	ctx := context.Background()

	other, err := svc.CreateProject(ctx, "work")
	require.NoError(t, err)
	w, err := svc.AddTask(ctx, other.ID, nil, "w1")
	require.NoError(t, err)

	board := f.board(t)
	require.NoError(t, svc.DeleteTasks(ctx, []uuid.UUID{taskID(t, board, "k2"), w.ID}))

	board = f.board(t)
	assert.Equal(t, []string{"k1", "k3"}, titles(board, &f.kitchen.ID))
	requireDense(t, board)

	otherBoard, err := svc.Board(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, otherBoard.Tasks)

	require.NoError(t, svc.DeleteTask(ctx, taskID(t, board, "a")))
	assert.Equal(t, []string{"b"}, titles(f.board(t), nil))

	assert.ErrorIs(t, svc.DeleteTask(ctx, uuid.New()), storage.ErrNotFound)
}

func TestSections(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	ctx := context.Background()

	pantry, err := svc.AddSection(ctx, f.project.ID, "pantry")
	require.NoError(t, err)
	assert.Equal(t, 2, pantry.Position)

	require.NoError(t, svc.MoveSection(ctx, pantry.ID, 0))
	require.NoError(t, svc.RenameSection(ctx, f.garden.ID, "yard"))

	board := f.board(t)
	require.Len(t, board.Sections, 3)
	assert.Equal(t, "pantry", board.Sections[0].Name)
	assert.Equal(t, "kitchen", board.Sections[1].Name)
	assert.Equal(t, "yard", board.Sections[2].Name)
	for i, sec := range board.Sections {
		assert.Equal(t, i, sec.Position)
	}

	assert.ErrorIs(t, svc.MoveSection(ctx, uuid.New(), 0), storage.ErrNotFound)
	assert.Error(t, svc.RenameSection(ctx, pantry.ID, ""))
}

func TestDeleteSection_CascadesTasks(t *testing.T) {
	for name, svc := range map[string]*Service{"sqlite": newService(t), "badger": newBadgerService(t)} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, svc)
			ctx := context.Background()

			require.NoError(t, svc.DeleteSection(ctx, f.kitchen.ID))

			board := f.board(t)
			require.Len(t, board.Sections, 1)
			assert.Equal(t, "garden", board.Sections[0].Name)
			assert.Equal(t, 0, board.Sections[0].Position)
			assert.Len(t, board.Tasks, 3)
			assert.Empty(t, titles(board, &f.kitchen.ID))

			assert.ErrorIs(t, svc.DeleteSection(ctx, f.kitchen.ID), storage.ErrNotFound)
		})
	}
}

func TestDeleteProject(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.DeleteProject(ctx, f.project.ID))
	_, err := svc.Board(ctx, f.project.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProject(ctx, f.project.ID), storage.ErrNotFound)
}

func TestBoard_DisplayOrder(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.MoveSection(ctx, f.garden.ID, 0))
	require.NoError(t, svc.CompleteTask(ctx, taskID(t, f.board(t), "a")))

	board := f.board(t)
	var got []string
	for _, task := range board.Tasks {
		got = append(got, task.Title)
	}
	assert.Equal(t, []string{"b", "a", "g1", "k1", "k2", "k3"}, got)
}

func TestSeed(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	plan := &storage.SeedPlan{
		Project: "home",
		Tasks:   []string{"water plants"},
		Sections: []storage.SeedSection{
			{Name: "kitchen", Tasks: []string{"dishes", "mop"}},
			{Name: "garden"},
		},
	}
	project, err := svc.Seed(ctx, plan)
	require.NoError(t, err)

	board, err := svc.Board(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, board.Sections, 2)
	assert.Equal(t, "kitchen", board.Sections[0].Name)
	assert.Equal(t, []string{"water plants"}, titles(board, nil))
	assert.Equal(t, []string{"dishes", "mop"}, titles(board, &board.Sections[0].ID))
	requireDense(t, board)

	_, err = svc.Seed(ctx, &storage.SeedPlan{Project: ""})
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	svc := newService(t)
	f := newFixture(t, svc)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boards, err := svc.Watch(ctx, f.project.ID)
	require.NoError(t, err)

	next := func() *storage.Board {
		select {
		case b, ok := <-boards:
			require.True(t, ok)
			return b
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for board")
			return nil
		}
	}

	first := next()
	assert.Equal(t, []string{"a", "b"}, titles(first, nil))

	require.NoError(t, svc.MoveTask(ctx, taskID(t, first, "b"), nil, 0))
	second := next()
	assert.Equal(t, []string{"b", "a"}, titles(second, nil))

	cancel()
	for range boards {
	}
}
