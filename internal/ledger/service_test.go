package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/backoffice-retail/backoffice/internal/platform/statestore"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

type fakeStock struct {
	levels map[string]int
}

func newFakeStock() *fakeStock {
	return &fakeStock{levels: map[string]int{}}
}

func (f *fakeStock) IncreaseStock(_ context.Context, id string, qty int) error {
	f.levels[id] += qty
	return nil
}

func (f *fakeStock) DecreaseStock(_ context.Context, id string, qty int) error {
	f.levels[id] -= qty
	if f.levels[id] < 0 {
		f.levels[id] = 0
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStock) {
	t.Helper()
	repo := NewRepository(statestore.NewMemory())
	require.NoError(t, repo.Load(context.Background()))
	svc := NewService(repo, nil)
	stock := newFakeStock()
	svc.SetStock(stock)
	return svc, stock
}

func customer(id string) shared.CustomerSnapshot {
	return shared.CustomerSnapshot{ID: id, Name: "Aegean Market"}
}

func TestBalanceRecomputedFromHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Append(ctx, AppendInput{Type: TypeSale, Customer: customer("C1"), Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = svc.Append(ctx, AppendInput{Type: TypePayment, Customer: customer("C1"), Amount: decimal.NewFromInt(60)})
	require.NoError(t, err)
	_, err = svc.Append(ctx, AppendInput{Type: TypeExpense, Customer: customer("C1"), Amount: decimal.NewFromInt(-15)})
	require.NoError(t, err)
	_, err = svc.Append(ctx, AppendInput{Type: TypeReturn, Customer: customer("C1"), Amount: decimal.NewFromInt(20)})
	require.NoError(t, err)
	// Another customer's records must not leak in.
	_, err = svc.Append(ctx, AppendInput{Type: TypeSale, Customer: customer("C2"), Amount: decimal.NewFromInt(999)})
	require.NoError(t, err)

	// 60 + 20 - 100 - |−15| = -35
	require.True(t, svc.Balance(ctx, "C1").Equal(decimal.NewFromInt(-35)),
		"got %s", svc.Balance(ctx, "C1"))

	// Deleting a record shifts the derived balance with no stored field to drift.
	payments := 0
	for _, tx := range svc.ByCustomer(ctx, "C1", nil) {
		if tx.Type == TypePayment {
			require.NoError(t, svc.Remove(ctx, tx.ID))
			payments++
		}
	}
	require.Equal(t, 1, payments)
	require.True(t, svc.Balance(ctx, "C1").Equal(decimal.NewFromInt(-95)))
}

func TestSaleMovesStockAndRemoveRestoresIt(t *testing.T) {
	svc, stock := newTestService(t)
	ctx := context.Background()
	stock.levels["P1"] = 10

	tx, err := svc.Append(ctx, AppendInput{
		Type:     TypeSale,
		Customer: customer("C1"),
		Amount:   decimal.NewFromInt(30),
		Items:    []Item{{ProductID: "P1", Name: "Olive Oil 1L", Quantity: 3, Price: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, stock.levels["P1"])

	require.NoError(t, svc.Remove(ctx, tx.ID))
	require.Equal(t, 10, stock.levels["P1"])
	_, err = svc.Get(ctx, tx.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReturnMovesStockAndRemoveRestoresIt(t *testing.T) {
	svc, stock := newTestService(t)
	ctx := context.Background()
	stock.levels["P1"] = 4

	tx, err := svc.Append(ctx, AppendInput{
		Type:     TypeReturn,
		Customer: customer("C1"),
		Amount:   decimal.NewFromInt(20),
		Items:    []Item{{ProductID: "P1", Name: "Olive Oil 1L", Quantity: 2, Price: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)
	require.Equal(t, 6, stock.levels["P1"])

	require.NoError(t, svc.Remove(ctx, tx.ID))
	require.Equal(t, 4, stock.levels["P1"])
}

func TestAppendValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Append(ctx, AppendInput{Type: "refund", Customer: customer("C1")})
	require.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.Append(ctx, AppendInput{Type: TypeSale})
	require.ErrorIs(t, err, ErrCustomerRequired)

	err = svc.Remove(ctx, "TRXMISSING")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStatsSplitsYears(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Append(ctx, AppendInput{Type: TypeSale, Customer: customer("C1"), Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = svc.Append(ctx, AppendInput{Type: TypePayment, Customer: customer("C1"), Amount: decimal.NewFromInt(40)})
	require.NoError(t, err)

	stats := svc.Stats(ctx, "C1")
	require.True(t, stats.CurrentYearSales.Equal(decimal.NewFromInt(100)))
	require.True(t, stats.CurrentYearPayments.Equal(decimal.NewFromInt(40)))
	require.True(t, stats.PreviousYearSales.IsZero())
	require.True(t, stats.PreviousYearPayments.IsZero())

	year := svc.All(ctx)[0].Year
	byYear := svc.ByCustomer(ctx, "C1", &year)
	require.Len(t, byYear, 2)
	other := year - 1
	require.Empty(t, svc.ByCustomer(ctx, "C1", &other))
}
