package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/cars-api/internal/model"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCarRepository()

	created, err := repo.Create(ctx, model.Car{Name: "Volvo"})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created, *got)

	res, err := repo.Update(ctx, model.Car{ID: created.ID, Name: "Saab"})
	require.NoError(t, err)
	assert.Equal(t, UpdateApplied, res.Status)

	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Saab", got.Name)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryAbsentValues(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCarRepository()

	cars, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cars)
	assert.Empty(t, cars)

	res, err := repo.Update(ctx, model.Car{ID: 3, Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, UpdateNotFound, res.Status)

	deleted, err := repo.Delete(ctx, 3)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemoryIDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCarRepository()

	first, _ := repo.Create(ctx, model.Car{Name: "a"})
	_, _ = repo.Delete(ctx, first.ID)
	second, _ := repo.Create(ctx, model.Car{Name: "b"})

	assert.Greater(t, second.ID, first.ID)
}

func TestMemoryConcurrentCreatesGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCarRepository()

	const workers = 50
	ids := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			car, err := repo.Create(ctx, model.Car{Name: fmt.Sprintf("car-%d", i)})
			assert.NoError(t, err)
			ids <- car.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, workers)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)

	cars, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, cars, workers)
	for i := 1; i < len(cars); i++ {
		assert.Less(t, cars[i-1].ID, cars[i].ID)
	}
}

func TestMemoryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewMemoryCarRepository()

	_, err := repo.Create(ctx, model.Car{Name: "x"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.ListAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
