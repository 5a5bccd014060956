package counting

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/backoffice-retail/backoffice/internal/platform/statestore"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := NewRepository(statestore.NewMemory())
	require.NoError(t, repo.Load(context.Background()))
	return NewService(repo, nil)
}

func TestAddAndDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	l, err := svc.CreateList(ctx, CreateListInput{Name: "January stocktake", User: "ayse"})
	require.NoError(t, err)

	l, err = svc.AddCount(ctx, l.ID, CountInput{
		ProductID: "P1", Name: "Olive Oil 1L", Location: "A1",
		Quantity: 12, CurrentStock: 10, Price: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	require.Equal(t, 1, l.TotalItems)
	require.Equal(t, 12, l.TotalQuantity)
	require.True(t, l.TotalValue.Equal(decimal.NewFromInt(240)))

	// Same product, different location: a separate entry.
	l, err = svc.AddCount(ctx, l.ID, CountInput{ProductID: "P1", Location: "B3", Quantity: 5, Price: decimal.NewFromInt(20)})
	require.NoError(t, err)
	require.Equal(t, 2, l.TotalItems)
	require.Equal(t, 17, l.TotalQuantity)
	require.Equal(t, []string{"A1", "B3"}, l.Departments())

	_, err = svc.AddCount(ctx, l.ID, CountInput{ProductID: "P1", Location: "A1", Quantity: 9})
	require.ErrorIs(t, err, ErrDuplicateCount)
}

func TestMergeReplacesQuantity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	l, err := svc.CreateList(ctx, CreateListInput{Name: "Recount", User: "ayse"})
	require.NoError(t, err)
	_, err = svc.AddCount(ctx, l.ID, CountInput{ProductID: "P1", Location: "A1", Quantity: 12, Price: decimal.NewFromInt(10)})
	require.NoError(t, err)

	// Merge replaces, it does not add.
	l, err = svc.MergeCount(ctx, l.ID, CountInput{ProductID: "P1", Location: "A1", Quantity: 9, Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	require.Equal(t, 1, l.TotalItems)
	require.Equal(t, 9, l.TotalQuantity)
	require.Equal(t, 9, l.Counts[0].Quantity)
	require.True(t, l.TotalValue.Equal(decimal.NewFromInt(90)))

	// Merging an absent key just appends.
	l, err = svc.MergeCount(ctx, l.ID, CountInput{ProductID: "P2", Location: "C2", Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, 2, l.TotalItems)
	require.Equal(t, 13, l.TotalQuantity)
}

func TestScopedList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	l, err := svc.CreateList(ctx, CreateListInput{Name: "Oils only", User: "ayse", ProductIDs: []string{"P1"}})
	require.NoError(t, err)

	_, err = svc.AddCount(ctx, l.ID, CountInput{ProductID: "P1", Location: "A1", Quantity: 3})
	require.NoError(t, err)
	_, err = svc.AddCount(ctx, l.ID, CountInput{ProductID: "P9", Location: "A1", Quantity: 3})
	require.ErrorIs(t, err, ErrNotInScope)
}

func TestCompletedListIsFrozen(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	l, err := svc.CreateList(ctx, CreateListInput{Name: "Done", User: "ayse"})
	require.NoError(t, err)
	_, err = svc.AddCount(ctx, l.ID, CountInput{ProductID: "P1", Location: "A1", Quantity: 3})
	require.NoError(t, err)

	l, err = svc.CompleteList(ctx, l.ID, "fatma", "aisle A only")
	require.NoError(t, err)
	require.True(t, l.Completed())
	require.Equal(t, "fatma", l.CompletedBy)
	require.Equal(t, "aisle A only", l.Note)

	_, err = svc.AddCount(ctx, l.ID, CountInput{ProductID: "P2", Location: "B1", Quantity: 1})
	require.ErrorIs(t, err, ErrListCompleted)
	_, err = svc.MergeCount(ctx, l.ID, CountInput{ProductID: "P1", Location: "A1", Quantity: 5})
	require.ErrorIs(t, err, ErrListCompleted)
	_, err = svc.RemoveCount(ctx, l.ID, "P1", "A1")
	require.ErrorIs(t, err, ErrListCompleted)
	_, err = svc.CompleteList(ctx, l.ID, "fatma", "")
	require.ErrorIs(t, err, ErrListCompleted)

	// Deletion still works on frozen lists.
	require.NoError(t, svc.DeleteList(ctx, l.ID))
	_, err = svc.List(ctx, l.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestActiveList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.ActiveList(ctx)
	require.ErrorIs(t, err, ErrNoActiveList)

	first, err := svc.CreateList(ctx, CreateListInput{Name: "First", User: "ayse"})
	require.NoError(t, err)
	second, err := svc.CreateList(ctx, CreateListInput{Name: "Second", User: "ayse"})
	require.NoError(t, err)

	active, err := svc.ActiveList(ctx)
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID, "newest open list wins")

	_, err = svc.CompleteList(ctx, second.ID, "ayse", "")
	require.NoError(t, err)
	active, err = svc.ActiveList(ctx)
	require.NoError(t, err)
	require.Equal(t, first.ID, active.ID)

	require.Len(t, svc.Lists(ctx), 2)
}

func TestSurvivesReload(t *testing.T) {
	store := statestore.NewMemory()
	ctx := context.Background()
	repo := NewRepository(store)
	require.NoError(t, repo.Load(ctx))
	svc := NewService(repo, nil)

	l, err := svc.CreateList(ctx, CreateListInput{Name: "Persisted", User: "ayse"})
	require.NoError(t, err)
	_, err = svc.AddCount(ctx, l.ID, CountInput{ProductID: "P1", Location: "A1", Quantity: 7, Price: decimal.NewFromInt(5)})
	require.NoError(t, err)

	reloaded := NewRepository(store)
	require.NoError(t, reloaded.Load(ctx))
	got, err := NewService(reloaded, nil).List(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, 7, got.TotalQuantity)
	require.True(t, got.TotalValue.Equal(decimal.NewFromInt(35)))
	require.Equal(t, "Persisted", got.Name)
}
