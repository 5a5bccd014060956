// Package orders provides the order book and the fulfillment pipeline:
// preparing → checking → loading → ready → delivered, plus delivery route
// grouping. Quantity drift found while working an order is not applied
// directly; it is routed through an approval proposal that freezes the
// order until decided.
package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice-retail/backoffice/internal/shared"
)

// Status represents the fulfillment stage of an order.
type Status string

const (
	StatusPreparing Status = "preparing"
	StatusChecking  Status = "checking"
	StatusLoading   Status = "loading"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
)

// IsValid checks if the status is known.
func (s Status) IsValid() bool {
	switch s {
	case StatusPreparing, StatusChecking, StatusLoading, StatusReady, StatusDelivered:
		return true
	default:
		return false
	}
}

// Next returns the following stage. The pipeline is strictly linear; there
// is no skipping and no way back.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusPreparing:
		return StatusChecking, true
	case StatusChecking:
		return StatusLoading, true
	case StatusLoading:
		return StatusReady, true
	case StatusReady:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// Item is one product line of an order. CollectedQuantity records what was
// actually gathered during preparation; nil means nothing was recorded yet.
type Item struct {
	ProductID         string          `json:"productId"`
	Name              string          `json:"name"`
	Image             string          `json:"image,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	CollectedQuantity *int            `json:"collectedQuantity,omitempty"`
	Note              string          `json:"note,omitempty"`
}

// Order is a customer order moving through the fulfillment pipeline.
type Order struct {
	ID            string                  `json:"id"`
	Date          time.Time               `json:"date"`
	Status        Status                  `json:"status"`
	Customer      shared.CustomerSnapshot `json:"customer"`
	Items         []Item                  `json:"items"`
	TotalAmount   decimal.Decimal         `json:"totalAmount"`
	Note          string                  `json:"note,omitempty"`
	TransactionID string                  `json:"transactionId,omitempty"`

	PreparedBy         string     `json:"preparedBy,omitempty"`
	PreparationEndDate *time.Time `json:"preparationEndDate,omitempty"`
	CheckedBy          string     `json:"checkedBy,omitempty"`
	CheckEndDate       *time.Time `json:"checkEndDate,omitempty"`
	LoadedBy           string     `json:"loadedBy,omitempty"`
	LoadingEndDate     *time.Time `json:"loadingEndDate,omitempty"`
	DeliveredBy        string     `json:"deliveredBy,omitempty"`
	DeliveryDate       *time.Time `json:"deliveryDate,omitempty"`

	PendingApproval bool `json:"pendingApproval,omitempty"`

	RouteID            string     `json:"routeId,omitempty"`
	RouteName          string     `json:"routeName,omitempty"`
	RouteDate          *time.Time `json:"routeDate,omitempty"`
	RouteOrder         int        `json:"routeOrder,omitempty"`
	CompletedRouteDate *time.Time `json:"completedRouteDate,omitempty"`
}

// HasQuantityChanges reports whether any item was collected in a quantity
// different from the ordered one.
func (o Order) HasQuantityChanges() bool {
	for _, item := range o.Items {
		if item.CollectedQuantity != nil && *item.CollectedQuantity != item.Quantity {
			return true
		}
	}
	return false
}

// withCollectedQuantities returns a copy of the order where the collected
// quantities became the ordered ones and the total was recomputed. This is
// the newData payload of an order_change proposal.
func (o Order) withCollectedQuantities() Order {
	next := o
	next.Items = make([]Item, len(o.Items))
	total := decimal.Zero
	for i, item := range o.Items {
		if item.CollectedQuantity != nil {
			item.Quantity = *item.CollectedQuantity
		}
		next.Items[i] = item
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	next.TotalAmount = total
	next.PendingApproval = true
	return next
}

// CreateInput carries a new order. The id and date are assigned at create
// time; the status defaults to preparing.
type CreateInput struct {
	Status        Status                  ``
	Customer      shared.CustomerSnapshot `validate:"required"`
	Items         []Item                  `validate:"required,min=1,dive"`
	TotalAmount   decimal.Decimal         ``
	Note          string                  ``
	TransactionID string                  ``
}

// UpdateInput patches mutable order fields. Status is deliberately absent:
// stage transitions only happen through the pipeline operations.
type UpdateInput struct {
	Items           *[]Item          ``
	TotalAmount     *decimal.Decimal ``
	Note            *string          ``
	PendingApproval *bool            ``
	TransactionID   *string          ``
}

// ItemPatch updates one order line, keyed by product id.
type ItemPatch struct {
	CollectedQuantity *int    `validate:"omitempty,gte=0"`
	Note              *string ``
}

// ApprovedChange is the order mutation applied when an order_change
// approval is accepted. Status and route fields are intentionally not part
// of it; they stay as they were before the proposal.
type ApprovedChange struct {
	OrderID       string
	Items         []Item
	TotalAmount   decimal.Decimal
	TransactionID string
}

// StatusCounts maps each stage to the number of orders in it.
type StatusCounts map[Status]int

// RouteSummary aggregates the orders sharing a route id.
type RouteSummary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Date        *time.Time      `json:"date,omitempty"`
	Orders      int             `json:"orders"`
	Delivered   int             `json:"delivered"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}
