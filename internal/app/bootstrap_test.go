package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/backoffice-retail/backoffice/internal/approvals"
	"github.com/backoffice-retail/backoffice/internal/platform/statestore"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

func saleFor(productID, name string) approvals.SalePayload {
	price := decimal.NewFromInt(100)
	return approvals.SalePayload{
		Customer: shared.CustomerSnapshot{ID: "C-001", Name: "Aegean Market"},
		Items:    []approvals.SaleItem{{ProductID: productID, Name: name, Price: price, Quantity: 1}},
		Total:    price,
	}
}

func TestBootstrapWiresEverything(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{StateBackend: "memory", AppEnv: "test"}
	a, err := BootstrapWithStore(ctx, cfg, nil, statestore.NewMemory())
	require.NoError(t, err)

	require.NoError(t, a.SeedDemoData(ctx))
	products := a.Catalog.List(ctx)
	require.NotEmpty(t, products)

	// Auth defaults are usable straight away.
	u, err := a.Auth.Login(ctx, "ayse", "ayse123")
	require.NoError(t, err)
	require.Equal(t, "Ayse Demir", u.Name)

	// The port wiring holds: a sale approved through the queue reaches
	// the ledger, the catalog and the order book.
	p := products[0]
	sale, err := a.Approvals.ProposeSale(ctx, u.Username, saleFor(p.ID, p.Name))
	require.NoError(t, err)
	_, err = a.Approvals.Decide(ctx, sale.ID, true)
	require.NoError(t, err)

	require.Len(t, a.Ledger.All(ctx), 1)
	got, err := a.Catalog.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.Stock-1, got.Stock)
	require.Len(t, a.Orders.ByCustomer(ctx, "C-001"), 1)
}

func TestNewStoreRejectsUnknownBackend(t *testing.T) {
	_, err := NewStore(context.Background(), &Config{StateBackend: "tape"})
	require.Error(t, err)
}
