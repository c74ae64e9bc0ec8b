package store_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookrackapp/bookrack-server/internal/store"
)

type TestEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "entity-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)
	s.SetSearchIndexer(store.NewNoopSearchIndexer())

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func TestEntity_Create_Success(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{
		ID:   "1",
		Name: "John Doe",
	}

	err := entity.Create(context.Background(), "1", testData)
	require.NoError(t, err)

	retrieved, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, testData.ID, retrieved.ID)
	require.Equal(t, testData.Name, retrieved.Name)
}

func TestEntity_Create_DuplicateID(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Name: "first"})
	require.NoError(t, err)

	err = entity.Create(context.Background(), "1", &TestEntity{ID: "1", Name: "second"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_Get_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	_, err := entity.Get(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_UniqueIndex_Conflict(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithUniqueIndex("name", func(e *TestEntity) []string {
			return []string{e.Name}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Name: "taken"})
	require.NoError(t, err)

	err = entity.Create(context.Background(), "2", &TestEntity{ID: "2", Name: "taken"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// A different value goes through fine.
	err = entity.Create(context.Background(), "2", &TestEntity{ID: "2", Name: "free"})
	require.NoError(t, err)
}

func TestEntity_UniqueIndexTransform_CaseInsensitive(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithUniqueIndexTransform("name",
			func(e *TestEntity) []string { return []string{strings.ToLower(e.Name)} },
			strings.ToLower,
		)

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Name: "Frodo"})
	require.NoError(t, err)

	err = entity.Create(context.Background(), "2", &TestEntity{ID: "2", Name: "FRODO"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	found, err := entity.GetByIndex(context.Background(), "name", "fRoDo")
	require.NoError(t, err)
	require.Equal(t, "1", found.ID)
}

func TestEntity_FindByIndex_NonUnique(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("group", func(e *TestEntity) []string {
			return []string{e.Group}
		})

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("%d", i)
		err := entity.Create(context.Background(), id, &TestEntity{ID: id, Name: "member " + id, Group: "fellowship"})
		require.NoError(t, err)
	}
	err := entity.Create(context.Background(), "4", &TestEntity{ID: "4", Name: "outsider", Group: "mordor"})
	require.NoError(t, err)

	members, err := entity.FindByIndex(context.Background(), "group", "fellowship")
	require.NoError(t, err)
	require.Len(t, members, 3)

	others, err := entity.FindByIndex(context.Background(), "group", "mordor")
	require.NoError(t, err)
	require.Len(t, others, 1)

	none, err := entity.FindByIndex(context.Background(), "group", "shire")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestEntity_FindByIndex_UnknownIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	_, err := entity.FindByIndex(context.Background(), "nope", "value")
	require.Error(t, err)
}

func TestEntity_Update_ReindexesChangedValues(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithUniqueIndex("name", func(e *TestEntity) []string {
			return []string{e.Name}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Name: "before"})
	require.NoError(t, err)

	err = entity.Update(context.Background(), "1", &TestEntity{ID: "1", Name: "after"})
	require.NoError(t, err)

	// Old index entry is gone, new one resolves.
	_, err = entity.GetByIndex(context.Background(), "name", "before")
	require.ErrorIs(t, err, store.ErrNotFound)

	found, err := entity.GetByIndex(context.Background(), "name", "after")
	require.NoError(t, err)
	require.Equal(t, "1", found.ID)
}

func TestEntity_Update_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	err := entity.Update(context.Background(), "missing", &TestEntity{ID: "missing"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Delete_CleansUpIndexes(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithUniqueIndex("name", func(e *TestEntity) []string {
			return []string{e.Name}
		})

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Name: "ephemeral"})
	require.NoError(t, err)

	err = entity.Delete(context.Background(), "1")
	require.NoError(t, err)

	_, err = entity.Get(context.Background(), "1")
	require.ErrorIs(t, err, store.ErrNotFound)

	// The freed index value is reusable.
	err = entity.Create(context.Background(), "2", &TestEntity{ID: "2", Name: "ephemeral"})
	require.NoError(t, err)
}

func TestEntity_Delete_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	require.NoError(t, entity.Delete(context.Background(), "never-existed"))
}

func TestEntity_List(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("group", func(e *TestEntity) []string {
			return []string{e.Group}
		})

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("%d", i)
		err := entity.Create(context.Background(), id, &TestEntity{ID: id, Name: "entity " + id, Group: "all"})
		require.NoError(t, err)
	}

	var count int
	for e, err := range entity.List(context.Background()) {
		require.NoError(t, err)
		require.NotNil(t, e)
		count++
	}
	// Index keys must not leak into the listing.
	require.Equal(t, 5, count)
}
