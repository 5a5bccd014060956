package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/backoffice-retail/backoffice/internal/shared"
)

// ChangeProposer files an order_change approval for an order whose
// collected quantities drifted from the ordered ones. The approval queue
// implements this.
type ChangeProposer interface {
	ProposeOrderChange(ctx context.Context, user string, oldOrder, newOrder Order) error
}

// Service provides order book and fulfillment pipeline operations.
type Service struct {
	repo     *Repository
	proposer ChangeProposer
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService builds Service.
func NewService(repo *Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, validate: validator.New(), logger: logger}
}

// SetProposer sets the approval queue port used for quantity-drift
// proposals.
func (s *Service) SetProposer(p ChangeProposer) {
	s.proposer = p
}

// Create assigns an id and date and stores a new order. The status defaults
// to preparing.
func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	if err := s.validate.Struct(in); err != nil {
		return Order{}, fmt.Errorf("orders: create: %w", err)
	}
	status := in.Status
	if status == "" {
		status = StatusPreparing
	}
	if !status.IsValid() {
		return Order{}, fmt.Errorf("orders: create with status %q: %w", in.Status, shared.ErrInvalidTransition)
	}
	o := Order{
		ID:            shared.NewID("ORD"),
		Date:          time.Now().UTC(),
		Status:        status,
		Customer:      in.Customer,
		Items:         in.Items,
		TotalAmount:   in.TotalAmount,
		Note:          in.Note,
		TransactionID: in.TransactionID,
	}
	if err := s.repo.Insert(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Update patches mutable fields of an order.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if in.Items != nil {
		o.Items = *in.Items
	}
	if in.TotalAmount != nil {
		o.TotalAmount = *in.TotalAmount
	}
	if in.Note != nil {
		o.Note = *in.Note
	}
	if in.PendingApproval != nil {
		o.PendingApproval = *in.PendingApproval
	}
	if in.TransactionID != nil {
		o.TransactionID = *in.TransactionID
	}
	if err := s.repo.Put(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// UpdateItem patches one order line, keyed by product id. This is how the
// floor records collected quantities.
func (s *Service) UpdateItem(ctx context.Context, orderID, productID string, patch ItemPatch) (Order, error) {
	if err := s.validate.Struct(patch); err != nil {
		return Order{}, fmt.Errorf("orders: update item: %w", err)
	}
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	found := false
	for i := range o.Items {
		if o.Items[i].ProductID != productID {
			continue
		}
		found = true
		if patch.CollectedQuantity != nil {
			qty := *patch.CollectedQuantity
			o.Items[i].CollectedQuantity = &qty
		}
		if patch.Note != nil {
			o.Items[i].Note = *patch.Note
		}
	}
	if !found {
		return Order{}, fmt.Errorf("orders: order %s item %s: %w", orderID, productID, shared.ErrNotFound)
	}
	if err := s.repo.Put(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ApplyApprovedChange applies an accepted order_change: new items and
// total, the replacement transaction link, and the approval freeze lifted.
// Status and route fields stay exactly as they were.
func (s *Service) ApplyApprovedChange(ctx context.Context, change ApprovedChange) (Order, error) {
	o, err := s.repo.Get(ctx, change.OrderID)
	if err != nil {
		return Order{}, err
	}
	o.Items = change.Items
	o.TotalAmount = change.TotalAmount
	o.TransactionID = change.TransactionID
	o.PendingApproval = false
	if err := s.repo.Put(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// SetPendingApproval freezes or unfreezes an order.
func (s *Service) SetPendingApproval(ctx context.Context, id string, pending bool) (Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	o.PendingApproval = pending
	if err := s.repo.Put(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Delete removes an order from the book.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ByID returns a single order.
func (s *Service) ByID(ctx context.Context, id string) (Order, error) {
	return s.repo.Get(ctx, id)
}

// ByStatus returns the orders in the given stage, newest first.
func (s *Service) ByStatus(ctx context.Context, status Status) []Order {
	var out []Order
	for _, o := range s.repo.All(ctx) {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// ByCustomer returns the customer's orders, newest first.
func (s *Service) ByCustomer(ctx context.Context, customerID string) []Order {
	var out []Order
	for _, o := range s.repo.All(ctx) {
		if o.Customer.ID == customerID {
			out = append(out, o)
		}
	}
	return out
}

// Counts returns the number of orders per stage.
func (s *Service) Counts(ctx context.Context) StatusCounts {
	counts := StatusCounts{
		StatusPreparing: 0,
		StatusChecking:  0,
		StatusLoading:   0,
		StatusReady:     0,
		StatusDelivered: 0,
	}
	for _, o := range s.repo.All(ctx) {
		counts[o.Status]++
	}
	return counts
}

// AdvanceStage closes the order's current stage. When the collected
// quantities drifted from the ordered ones the stage does not move;
// instead an order_change approval is proposed and the order freezes until
// it is decided. Leaving the loading stage always goes through ConfirmLoad
// and delivery always goes through RecordDelivery.
func (s *Service) AdvanceStage(ctx context.Context, id, actor string) (Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.PendingApproval {
		return Order{}, fmt.Errorf("orders: advance %s: %w", id, shared.ErrPendingApproval)
	}
	if o.HasQuantityChanges() && o.Status != StatusLoading {
		return s.proposeChange(ctx, o, actor)
	}
	now := time.Now().UTC()
	switch o.Status {
	case StatusPreparing:
		o.Status = StatusChecking
		o.PreparedBy = actor
		o.PreparationEndDate = &now
	case StatusChecking:
		o.Status = StatusLoading
		o.CheckedBy = actor
		o.CheckEndDate = &now
	case StatusLoading:
		return Order{}, fmt.Errorf("orders: advance %s: %w", id, ErrLoadConfirmationRequired)
	default:
		return Order{}, fmt.Errorf("orders: advance %s from %s: %w", id, o.Status, shared.ErrInvalidTransition)
	}
	if err := s.repo.Put(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ConfirmLoad is the explicit gate that moves a loading order to ready,
// recording who loaded it and when.
func (s *Service) ConfirmLoad(ctx context.Context, id, actor string) (Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.PendingApproval {
		return Order{}, fmt.Errorf("orders: confirm load %s: %w", id, shared.ErrPendingApproval)
	}
	if o.Status != StatusLoading {
		return Order{}, fmt.Errorf("orders: confirm load %s from %s: %w", id, o.Status, shared.ErrInvalidTransition)
	}
	now := time.Now().UTC()
	o.Status = StatusReady
	o.LoadedBy = actor
	o.LoadingEndDate = &now
	if err := s.repo.Put(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// RecordDelivery marks a ready order delivered. Quantity drift at the door
// needs an approval like anywhere else. When the last undelivered order of
// a route is delivered, the whole route is stamped completed with one
// shared timestamp.
func (s *Service) RecordDelivery(ctx context.Context, id, actor string) (Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.PendingApproval {
		return Order{}, fmt.Errorf("orders: deliver %s: %w", id, shared.ErrPendingApproval)
	}
	if o.Status != StatusReady {
		return Order{}, fmt.Errorf("orders: deliver %s from %s: %w", id, o.Status, ErrNotReady)
	}
	if o.HasQuantityChanges() {
		return s.proposeChange(ctx, o, actor)
	}
	now := time.Now().UTC()
	o.Status = StatusDelivered
	o.DeliveredBy = actor
	o.DeliveryDate = &now
	if err := s.repo.Put(ctx, o); err != nil {
		return Order{}, err
	}
	if o.RouteID != "" {
		if err := s.completeRouteIfDone(ctx, o.RouteID); err != nil {
			return Order{}, err
		}
		o, err = s.repo.Get(ctx, id)
		if err != nil {
			return Order{}, err
		}
	}
	return o, nil
}

// proposeChange files an order_change approval carrying the order as it is
// and the order as collected, then freezes the order.
func (s *Service) proposeChange(ctx context.Context, o Order, actor string) (Order, error) {
	if s.proposer == nil {
		return Order{}, fmt.Errorf("orders: propose change for %s: %w", o.ID, ErrNoProposer)
	}
	next := o.withCollectedQuantities()
	if err := s.proposer.ProposeOrderChange(ctx, actor, o, next); err != nil {
		return Order{}, fmt.Errorf("orders: propose change for %s: %w", o.ID, err)
	}
	o.PendingApproval = true
	if err := s.repo.Put(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// completeRouteIfDone stamps completedRouteDate on every order of the route
// once none of them remains undelivered. The stamp is one shared timestamp
// written in a single fan-out update.
func (s *Service) completeRouteIfDone(ctx context.Context, routeID string) error {
	var members []Order
	for _, o := range s.repo.All(ctx) {
		if o.RouteID == routeID {
			if o.Status != StatusDelivered {
				return nil
			}
			members = append(members, o)
		}
	}
	if len(members) == 0 {
		return nil
	}
	completed := time.Now().UTC()
	for i := range members {
		members[i].CompletedRouteDate = &completed
	}
	s.logger.Info("route completed",
		slog.String("route_id", routeID),
		slog.Int("orders", len(members)))
	return s.repo.PutAll(ctx, members)
}
