//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/scry-notes/internal/domain"
	"github.com/phrazzld/scry-notes/internal/platform/postgres"
	"github.com/phrazzld/scry-notes/internal/store"
	"github.com/phrazzld/scry-notes/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresNoteStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.CleanupDB(t, db)
	t.Cleanup(func() { testdb.CleanupDB(t, db) })

	s := postgres.NewPostgresNoteStore(db, nil)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := domain.NewNote("First", "a", "", "", base, base.Add(24*time.Hour))
	require.NoError(t, err)
	second, err := domain.NewNote("Second", "b", "", "", base.Add(time.Hour), base.Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, second))
	assert.NotEqual(t, first.ID, second.ID)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	due, err := s.ListDue(ctx, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, second.ID, due[0].ID)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Modify(ctx, first.ID, func(n *domain.Note) error {
				n.ReviewStage++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.ReviewStage, "row lock must prevent lost updates")

	require.NoError(t, s.Delete(ctx, first.ID))
	_, err = s.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, store.ErrNoteNotFound)
	assert.ErrorIs(t, s.Delete(ctx, first.ID), store.ErrNoteNotFound)
}
