package orders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/backoffice-retail/backoffice/internal/shared"
)

// PlanRouteInput selects ready orders for a delivery route in the sequence
// they should be driven.
type PlanRouteInput struct {
	Name     string   `validate:"required"`
	OrderIDs []string `validate:"required,min=1,unique"`
}

// PlanRoute assigns a fresh route id, the route name and date, and the
// delivery sequence 1..N to the selected orders. Only ready orders without
// an existing route qualify; membership is immutable once assigned.
func (s *Service) PlanRoute(ctx context.Context, in PlanRouteInput) (string, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", fmt.Errorf("orders: plan route: %w", err)
	}
	selected := make([]Order, 0, len(in.OrderIDs))
	for _, id := range in.OrderIDs {
		o, err := s.repo.Get(ctx, id)
		if err != nil {
			return "", err
		}
		if o.Status != StatusReady {
			return "", fmt.Errorf("orders: route order %s in %s: %w", id, o.Status, ErrNotReady)
		}
		if o.RouteID != "" {
			return "", fmt.Errorf("orders: route order %s: %w", id, ErrAlreadyRouted)
		}
		selected = append(selected, o)
	}
	routeID := shared.NewID("ROUTE")
	routeDate := time.Now().UTC()
	for i := range selected {
		selected[i].RouteID = routeID
		selected[i].RouteName = in.Name
		selected[i].RouteDate = &routeDate
		selected[i].RouteOrder = i + 1
	}
	if err := s.repo.PutAll(ctx, selected); err != nil {
		return "", err
	}
	return routeID, nil
}

// RouteOrders returns the orders of a route in delivery sequence.
func (s *Service) RouteOrders(ctx context.Context, routeID string) ([]Order, error) {
	var out []Order
	for _, o := range s.repo.All(ctx) {
		if o.RouteID == routeID {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("orders: route %s: %w", routeID, shared.ErrNotFound)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RouteOrder < out[j].RouteOrder })
	return out, nil
}

// ActiveRoutes summarises routes that still have undelivered orders.
func (s *Service) ActiveRoutes(ctx context.Context) []RouteSummary {
	return s.routeSummaries(ctx, false)
}

// CompletedRoutes summarises routes whose orders were all delivered.
func (s *Service) CompletedRoutes(ctx context.Context) []RouteSummary {
	return s.routeSummaries(ctx, true)
}

func (s *Service) routeSummaries(ctx context.Context, completed bool) []RouteSummary {
	byID := make(map[string]*RouteSummary)
	var ids []string
	for _, o := range s.repo.All(ctx) {
		if o.RouteID == "" {
			continue
		}
		if (o.CompletedRouteDate != nil) != completed {
			continue
		}
		sum, ok := byID[o.RouteID]
		if !ok {
			sum = &RouteSummary{
				ID:          o.RouteID,
				Name:        o.RouteName,
				Date:        o.RouteDate,
				CompletedAt: o.CompletedRouteDate,
			}
			byID[o.RouteID] = sum
			ids = append(ids, o.RouteID)
		}
		sum.Orders++
		if o.Status == StatusDelivered {
			sum.Delivered++
		}
		sum.TotalAmount = sum.TotalAmount.Add(o.TotalAmount)
	}
	out := make([]RouteSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byID[id])
	}
	return out
}
