package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/backoffice-retail/backoffice/internal/platform/statestore"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

type fakeProposer struct {
	proposals []struct {
		user     string
		old, new Order
	}
}

func (f *fakeProposer) ProposeOrderChange(_ context.Context, user string, oldOrder, newOrder Order) error {
	f.proposals = append(f.proposals, struct {
		user     string
		old, new Order
	}{user, oldOrder, newOrder})
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeProposer) {
	t.Helper()
	repo := NewRepository(statestore.NewMemory())
	require.NoError(t, repo.Load(context.Background()))
	svc := NewService(repo, nil)
	proposer := &fakeProposer{}
	svc.SetProposer(proposer)
	return svc, proposer
}

func createOrder(t *testing.T, svc *Service) Order {
	t.Helper()
	o, err := svc.Create(context.Background(), CreateInput{
		Customer: shared.CustomerSnapshot{ID: "C1", Name: "Aegean Market"},
		Items: []Item{
			{ProductID: "P1", Name: "Olive Oil 1L", Price: decimal.NewFromInt(10), Quantity: 2},
			{ProductID: "P2", Name: "Filter Coffee 500g", Price: decimal.NewFromInt(20), Quantity: 1},
		},
		TotalAmount: decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	require.Equal(t, StatusPreparing, o.Status)
	return o
}

func toReady(t *testing.T, svc *Service, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.AdvanceStage(ctx, id, "zeynep")
	require.NoError(t, err)
	_, err = svc.AdvanceStage(ctx, id, "mert")
	require.NoError(t, err)
	_, err = svc.ConfirmLoad(ctx, id, "deniz")
	require.NoError(t, err)
}

func TestPipelineHappyPath(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	o := createOrder(t, svc)

	o2, err := svc.AdvanceStage(ctx, o.ID, "zeynep")
	require.NoError(t, err)
	require.Equal(t, StatusChecking, o2.Status)
	require.Equal(t, "zeynep", o2.PreparedBy)
	require.NotNil(t, o2.PreparationEndDate)

	o3, err := svc.AdvanceStage(ctx, o.ID, "mert")
	require.NoError(t, err)
	require.Equal(t, StatusLoading, o3.Status)
	require.Equal(t, "mert", o3.CheckedBy)

	// Loading needs the explicit gate.
	_, err = svc.AdvanceStage(ctx, o.ID, "deniz")
	require.ErrorIs(t, err, ErrLoadConfirmationRequired)

	o4, err := svc.ConfirmLoad(ctx, o.ID, "deniz")
	require.NoError(t, err)
	require.Equal(t, StatusReady, o4.Status)
	require.Equal(t, "deniz", o4.LoadedBy)

	// Ready orders can only move through RecordDelivery.
	_, err = svc.AdvanceStage(ctx, o.ID, "deniz")
	require.ErrorIs(t, err, shared.ErrInvalidTransition)

	o5, err := svc.RecordDelivery(ctx, o.ID, "deniz")
	require.NoError(t, err)
	require.Equal(t, StatusDelivered, o5.Status)
	require.NotNil(t, o5.DeliveryDate)

	_, err = svc.RecordDelivery(ctx, o.ID, "deniz")
	require.ErrorIs(t, err, ErrNotReady)
}

func TestQuantityDriftProposesInsteadOfAdvancing(t *testing.T) {
	svc, proposer := newTestService(t)
	ctx := context.Background()
	o := createOrder(t, svc)

	// Only one of two ordered units of P1 was collected.
	_, err := svc.UpdateItem(ctx, o.ID, "P1", ItemPatch{CollectedQuantity: intPtr(1)})
	require.NoError(t, err)

	frozen, err := svc.AdvanceStage(ctx, o.ID, "zeynep")
	require.NoError(t, err)
	require.Equal(t, StatusPreparing, frozen.Status, "stage must not move")
	require.True(t, frozen.PendingApproval)

	require.Len(t, proposer.proposals, 1)
	p := proposer.proposals[0]
	require.Equal(t, "zeynep", p.user)
	require.Equal(t, 2, p.old.Items[0].Quantity)
	require.Equal(t, 1, p.new.Items[0].Quantity)
	// 1×10 + 1×20
	require.True(t, p.new.TotalAmount.Equal(decimal.NewFromInt(30)))

	// Frozen order refuses further stage work until decided.
	_, err = svc.AdvanceStage(ctx, o.ID, "zeynep")
	require.ErrorIs(t, err, shared.ErrPendingApproval)

	// The approved change lands with status and route untouched.
	applied, err := svc.ApplyApprovedChange(ctx, ApprovedChange{
		OrderID:       o.ID,
		Items:         p.new.Items,
		TotalAmount:   p.new.TotalAmount,
		TransactionID: "TRXNEW",
	})
	require.NoError(t, err)
	require.Equal(t, StatusPreparing, applied.Status)
	require.False(t, applied.PendingApproval)
	require.Equal(t, "TRXNEW", applied.TransactionID)
}

func TestDriftIsToleratedAtLoading(t *testing.T) {
	svc, proposer := newTestService(t)
	ctx := context.Background()
	o := createOrder(t, svc)

	_, err := svc.AdvanceStage(ctx, o.ID, "zeynep")
	require.NoError(t, err)
	_, err = svc.AdvanceStage(ctx, o.ID, "mert")
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, o.ID, "P1", ItemPatch{CollectedQuantity: intPtr(1)})
	require.NoError(t, err)

	// The drift branch excludes the loading stage; the gate still applies.
	_, err = svc.AdvanceStage(ctx, o.ID, "deniz")
	require.ErrorIs(t, err, ErrLoadConfirmationRequired)
	require.Empty(t, proposer.proposals)
}

func TestRouteCompletionBarrier(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		o := createOrder(t, svc)
		toReady(t, svc, o.ID)
		ids = append(ids, o.ID)
	}

	routeID, err := svc.PlanRoute(ctx, PlanRouteInput{Name: "Tuesday north run", OrderIDs: ids})
	require.NoError(t, err)

	members, err := svc.RouteOrders(ctx, routeID)
	require.NoError(t, err)
	require.Len(t, members, 3)
	for i, o := range members {
		require.Equal(t, i+1, o.RouteOrder)
		require.Equal(t, "Tuesday north run", o.RouteName)
	}

	// Delivering two of three leaves the barrier closed on all of them.
	for _, id := range ids[:2] {
		_, err := svc.RecordDelivery(ctx, id, "deniz")
		require.NoError(t, err)
	}
	members, err = svc.RouteOrders(ctx, routeID)
	require.NoError(t, err)
	for _, o := range members {
		require.Nil(t, o.CompletedRouteDate)
	}

	_, err = svc.RecordDelivery(ctx, ids[2], "deniz")
	require.NoError(t, err)
	members, err = svc.RouteOrders(ctx, routeID)
	require.NoError(t, err)
	stamp := members[0].CompletedRouteDate
	require.NotNil(t, stamp)
	for _, o := range members {
		require.NotNil(t, o.CompletedRouteDate)
		require.True(t, stamp.Equal(*o.CompletedRouteDate), "one shared timestamp")
	}

	completed := svc.CompletedRoutes(ctx)
	require.Len(t, completed, 1)
	require.Equal(t, 3, completed[0].Delivered)
	require.True(t, completed[0].TotalAmount.Equal(decimal.NewFromInt(120)))
	require.Empty(t, svc.ActiveRoutes(ctx))
}

func TestRouteMembershipIsImmutable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := createOrder(t, svc)
	toReady(t, svc, first.ID)
	_, err := svc.PlanRoute(ctx, PlanRouteInput{Name: "Run A", OrderIDs: []string{first.ID}})
	require.NoError(t, err)

	_, err = svc.PlanRoute(ctx, PlanRouteInput{Name: "Run B", OrderIDs: []string{first.ID}})
	require.ErrorIs(t, err, ErrAlreadyRouted)

	notReady := createOrder(t, svc)
	_, err = svc.PlanRoute(ctx, PlanRouteInput{Name: "Run C", OrderIDs: []string{notReady.ID}})
	require.ErrorIs(t, err, ErrNotReady)

	_, err = svc.PlanRoute(ctx, PlanRouteInput{Name: "Run D", OrderIDs: []string{"ORDMISSING"}})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCountsAndQueries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := createOrder(t, svc)
	b := createOrder(t, svc)
	_, err := svc.AdvanceStage(ctx, b.ID, "zeynep")
	require.NoError(t, err)

	counts := svc.Counts(ctx)
	require.Equal(t, 1, counts[StatusPreparing])
	require.Equal(t, 1, counts[StatusChecking])
	require.Equal(t, 0, counts[StatusDelivered])

	require.Len(t, svc.ByCustomer(ctx, "C1"), 2)
	require.Len(t, svc.ByStatus(ctx, StatusPreparing), 1)

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.ByID(ctx, a.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func intPtr(v int) *int { return &v }
