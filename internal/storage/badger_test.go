// ABOUTME: Tests for the Badger storage backend
// ABOUTME: Covers on-disk persistence and key index bookkeeping

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harper/todo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBadger opens an in-memory Badger store for testing.
func testBadger(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := NewMemoryBadgerStore()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "badger")

	store, err := NewBadgerStore(dir)
	require.NoError(t, err)
	project := models.NewProject("home")
	require.NoError(t, store.CreateProject(ctx, project))
	task := models.NewTask(project.ID, nil, "dishes")
	require.NoError(t, store.Apply(ctx, &Batch{ProjectID: project.ID, CreateTasks: []models.Task{*task}}))
	require.NoError(t, store.Close())

	store, err = NewBadgerStore(dir)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "dishes", got.Title)
}

func TestBadgerStore_ApplyToMissingProject(t *testing.T) {
	store := testBadger(t)
	projectID := uuid.New()

	err := store.Apply(context.Background(), &Batch{
		ProjectID:   projectID,
		CreateTasks: []models.Task{*models.NewTask(projectID, nil, "orphan")},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerStore_DeleteProjectRemovesIndexes(t *testing.T) {
	ctx := context.Background()
	store := testBadger(t)
	project, section, tasks := seedProject(t, store)

	require.NoError(t, store.DeleteProject(ctx, project.ID))

	err := store.db.View(func(txn *badger.Txn) error {
		for _, key := range [][]byte{
			projectNameKey(project.Name),
			sectionOfKey(section.ID),
			taskOfKey(tasks[0].ID),
			taskOfKey(tasks[2].ID),
		} {
			_, err := txn.Get(key)
			assert.ErrorIs(t, err, badger.ErrKeyNotFound, "key %s", key)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestBadgerStore_UpdateOfDeletedTaskIsSkipped(t *testing.T) {
	ctx := context.Background()
	store := testBadger(t)
	project, _, tasks := seedProject(t, store)

	require.NoError(t, store.Apply(ctx, &Batch{
		ProjectID:   project.ID,
		DeleteTasks: []uuid.UUID{tasks[0].ID},
		UpdateTasks: []models.TaskPatch{{ID: tasks[0].ID, Fields: models.TaskFieldTitle, Title: "resurrected"}},
	}))

	_, err := store.GetTask(ctx, tasks[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
