package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/cartonization-service/internal/circuitbreaker"
	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/guttosm/cartonization-service/internal/mocks"
	"github.com/guttosm/cartonization-service/internal/packing"
	"github.com/guttosm/cartonization-service/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quickRetry() circuitbreaker.RetryConfig {
	return circuitbreaker.RetryConfig{MaxAttempts: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
}

func TestCatalogService_Snapshot(t *testing.T) {
	repo := repository.NewMemoryCartonRepository([]model.Carton{box("A", 10, 10, 10, 5)})
	svc := NewCatalogService(repo, nil)

	snap, err := svc.Snapshot(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Version)
	require.Len(t, snap.Cartons, 1)
	assert.Equal(t, "carton_catalog", svc.Breaker().Name())
}

func TestCatalogService_ServesLastKnownSnapshotWhenUnavailable(t *testing.T) {
	repo := &mocks.MockCartonRepositoryInterface{}
	good := model.CatalogSnapshot{Version: 3, Cartons: []model.Carton{box("A", 10, 10, 10, 5)}}
	repo.On("Snapshot", mock.Anything).Return(good, nil).Once()
	repo.On("Snapshot", mock.Anything).Return(model.CatalogSnapshot{}, errors.New("connection refused"))

	svc := NewCatalogService(repo, nil, WithCatalogRetry(quickRetry()))

	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.Version)
	repo.AssertNumberOfCalls(t, "Snapshot", 3)
}

func TestCatalogService_UnavailableWithoutSnapshot(t *testing.T) {
	repo := &mocks.MockCartonRepositoryInterface{}
	repo.On("Snapshot", mock.Anything).Return(model.CatalogSnapshot{}, errors.New("connection refused"))

	svc := NewCatalogService(repo, nil, WithCatalogRetry(quickRetry()))
	_, err := svc.Snapshot(context.Background())

	require.Error(t, err)
	assert.Equal(t, packing.CodeDependencyUnavailable, packing.CodeOf(err))
	repo.AssertNumberOfCalls(t, "Snapshot", 2)
}

func TestCatalogService_CanceledContext(t *testing.T) {
	repo := &mocks.MockCartonRepositoryInterface{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewCatalogService(repo, nil)
	_, err := svc.Snapshot(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	repo.AssertNotCalled(t, "Snapshot", mock.Anything)
}

func TestCatalogService_UpsertInvalidatesOlderSolutions(t *testing.T) {
	solutionCache := NewShardedCache(10, time.Hour, 1)
	defer solutionCache.Stop()
	solutionCache.Set("fp", 1, solution("s1", 1))

	svc := NewCatalogService(repository.NewMemoryCartonRepository([]model.Carton{box("A", 10, 10, 10, 5)}), solutionCache)
	version, err := svc.Upsert(context.Background(), model.Carton{
		ID:         "B",
		Dimensions: model.Dimensions{Length: 20, Width: 20, Height: 20},
		MaxWeight:  10,
		Cost:       decimal.RequireFromString("2.10"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
	_, ok := solutionCache.Get("fp")
	assert.False(t, ok)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	b, ok := snap.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, model.CartonStatusActive, b.Status)
}

func TestCatalogService_UpsertValidation(t *testing.T) {
	valid := box("A", 10, 10, 10, 5)

	tests := []struct {
		name   string
		mutate func(*model.Carton)
	}{
		{"missing id", func(c *model.Carton) { c.ID = "" }},
		{"zero dimension", func(c *model.Carton) { c.Dimensions.Height = 0 }},
		{"zero max weight", func(c *model.Carton) { c.MaxWeight = 0 }},
		{"negative cost", func(c *model.Carton) { c.Cost = decimal.NewFromInt(-1) }},
		{"unknown status", func(c *model.Carton) { c.Status = "ARCHIVED" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockCartonRepositoryInterface{}
			svc := NewCatalogService(repo, nil)
			c := valid
			tt.mutate(&c)

			_, err := svc.Upsert(context.Background(), c)

			require.Error(t, err)
			assert.Equal(t, packing.CodeInvalidRequest, packing.CodeOf(err))
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestCatalogService_Deactivate(t *testing.T) {
	t.Run("unknown carton", func(t *testing.T) {
		svc := NewCatalogService(repository.NewMemoryCartonRepository(nil), nil)

		_, err := svc.Deactivate(context.Background(), "missing")

		assert.ErrorIs(t, err, repository.ErrCartonNotFound)
		assert.True(t, IsNotFound(err))
		assert.Equal(t, circuitbreaker.StateClosed, svc.Breaker().State())
	})

	t.Run("write failure", func(t *testing.T) {
		repo := &mocks.MockCartonRepositoryInterface{}
		repo.On("Deactivate", mock.Anything, "A").Return(int64(0), errors.New("timeout"))

		svc := NewCatalogService(repo, nil)
		_, err := svc.Deactivate(context.Background(), "A")

		assert.Equal(t, packing.CodeDependencyUnavailable, packing.CodeOf(err))
	})

	t.Run("inactive cartons leave snapshots", func(t *testing.T) {
		svc := NewCatalogService(repository.NewMemoryCartonRepository([]model.Carton{box("A", 10, 10, 10, 5)}), nil)

		_, err := svc.Deactivate(context.Background(), "A")
		require.NoError(t, err)

		snap, err := svc.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Empty(t, snap.Active())
	})
}

func TestCatalogService_Refresh(t *testing.T) {
	repo := &mocks.MockCartonRepositoryInterface{}
	repo.On("Snapshot", mock.Anything).Return(model.CatalogSnapshot{Version: 1}, nil).Once()
	repo.On("Version", mock.Anything).Return(int64(1), nil).Once()
	repo.On("Version", mock.Anything).Return(int64(4), nil).Once()
	repo.On("Snapshot", mock.Anything).Return(model.CatalogSnapshot{Version: 4}, nil).Once()

	solutionCache := NewShardedCache(10, time.Hour, 1)
	defer solutionCache.Stop()
	solutionCache.Set("fp", 1, solution("s1", 1))

	svc := NewCatalogService(repo, solutionCache)
	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	// Unchanged version does not reload.
	require.NoError(t, svc.Refresh(context.Background()))
	repo.AssertNumberOfCalls(t, "Snapshot", 1)
	_, ok := solutionCache.Get("fp")
	assert.True(t, ok)

	require.NoError(t, svc.Refresh(context.Background()))
	repo.AssertNumberOfCalls(t, "Snapshot", 2)
	_, ok = solutionCache.Get("fp")
	assert.False(t, ok)
	repo.AssertExpectations(t)
}

func TestCatalogService_RefreshFailure(t *testing.T) {
	repo := &mocks.MockCartonRepositoryInterface{}
	repo.On("Version", mock.Anything).Return(int64(0), errors.New("down"))

	svc := NewCatalogService(repo, nil, WithCatalogRetry(quickRetry()))
	err := svc.Refresh(context.Background())

	assert.ErrorContains(t, err, "read catalog version")
}

func TestCatalogWatcher(t *testing.T) {
	repo := &mocks.MockCartonRepositoryInterface{}
	called := make(chan struct{}, 8)
	repo.On("Version", mock.Anything).Run(func(mock.Arguments) {
		select {
		case called <- struct{}{}:
		default:
		}
	}).Return(int64(0), nil)
	repo.On("Snapshot", mock.Anything).Return(model.CatalogSnapshot{}, nil)

	w := NewCatalogWatcher(NewCatalogService(repo, nil), "@every 1s")
	require.NoError(t, w.Start())
	defer w.Stop()

	select {
	case <-called:
	case <-time.After(3 * time.Second):
		t.Fatal("catalog watcher never polled")
	}
}

func TestCatalogWatcher_InvalidSchedule(t *testing.T) {
	w := NewCatalogWatcher(NewCatalogService(&mocks.MockCartonRepositoryInterface{}, nil), "not a schedule")

	assert.Error(t, w.Start())
}

func TestCatalogWatcher_Every(t *testing.T) {
	repo := &mocks.MockCartonRepositoryInterface{}
	repo.On("Version", mock.Anything).Return(int64(0), nil).Maybe()
	repo.On("Snapshot", mock.Anything).Return(model.CatalogSnapshot{}, nil).Maybe()

	ran := make(chan struct{}, 1)
	w := NewCatalogWatcher(NewCatalogService(repo, nil), "@every 1h")
	w.Every(time.Second, func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, w.Start())
	defer w.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("periodic job never ran")
	}
}
