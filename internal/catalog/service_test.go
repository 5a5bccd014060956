package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/backoffice-retail/backoffice/internal/platform/statestore"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

func newTestService(t *testing.T) (*Service, statestore.Store) {
	t.Helper()
	store := statestore.NewMemory()
	repo := NewRepository(store)
	require.NoError(t, repo.Load(context.Background()))
	return NewService(repo, nil), store
}

func seedOne(t *testing.T, svc *Service, id string, stock int) {
	t.Helper()
	err := svc.Seed(context.Background(), []Product{{
		ID:    id,
		Name:  "Filter Coffee 500g",
		Price: decimal.NewFromInt(120),
		Stock: stock,
	}})
	require.NoError(t, err)
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	svc, _ := newTestService(t)
	seedOne(t, svc, "P1", 10)
	ctx := context.Background()

	name := "Filter Coffee 1kg"
	price := decimal.NewFromInt(210)
	updated, err := svc.Update(ctx, "P1", UpdateInput{Name: &name, Price: &price})
	require.NoError(t, err)
	require.Equal(t, "Filter Coffee 1kg", updated.Name)
	require.True(t, updated.Price.Equal(decimal.NewFromInt(210)))
	require.Equal(t, 10, updated.Stock)

	_, err = svc.Update(ctx, "missing", UpdateInput{Name: &name})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDecreaseStockClampsAtZero(t *testing.T) {
	svc, _ := newTestService(t)
	seedOne(t, svc, "P1", 1)
	ctx := context.Background()

	p, clamped, err := svc.DecreaseStock(ctx, "P1", 2)
	require.NoError(t, err)
	require.True(t, clamped)
	require.Equal(t, 0, p.Stock)

	p, err = svc.IncreaseStock(ctx, "P1", 5)
	require.NoError(t, err)
	require.Equal(t, 5, p.Stock)

	p, clamped, err = svc.DecreaseStock(ctx, "P1", 3)
	require.NoError(t, err)
	require.False(t, clamped)
	require.Equal(t, 2, p.Stock)

	_, _, err = svc.DecreaseStock(ctx, "P1", 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestRegistrySurvivesReload(t *testing.T) {
	svc, store := newTestService(t)
	seedOne(t, svc, "P1", 7)
	ctx := context.Background()

	_, _, err := svc.DecreaseStock(ctx, "P1", 4)
	require.NoError(t, err)

	reloaded := NewRepository(store)
	require.NoError(t, reloaded.Load(ctx))
	p, err := reloaded.Get(ctx, "P1")
	require.NoError(t, err)
	require.Equal(t, 3, p.Stock)
}

func TestSeedSkipsNonEmptyRegistry(t *testing.T) {
	svc, _ := newTestService(t)
	seedOne(t, svc, "P1", 1)

	err := svc.Seed(context.Background(), []Product{{ID: "P2", Name: "Tea", Price: decimal.NewFromInt(40)}})
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), "P2")
	require.ErrorIs(t, err, shared.ErrNotFound)
}
