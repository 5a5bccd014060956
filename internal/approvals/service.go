package approvals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/backoffice-retail/backoffice/internal/catalog"
	"github.com/backoffice-retail/backoffice/internal/ledger"
	"github.com/backoffice-retail/backoffice/internal/orders"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

// Ledger is the slice of the transaction ledger the queue dispatches into.
type Ledger interface {
	Append(ctx context.Context, in ledger.AppendInput) (ledger.Transaction, error)
	Remove(ctx context.Context, id string) error
}

// OrderBook is the slice of the order book the queue dispatches into.
type OrderBook interface {
	Create(ctx context.Context, in orders.CreateInput) (orders.Order, error)
	ApplyApprovedChange(ctx context.Context, change orders.ApprovedChange) (orders.Order, error)
	SetPendingApproval(ctx context.Context, id string, pending bool) (orders.Order, error)
}

// Catalog is the slice of the product catalog the queue dispatches into.
type Catalog interface {
	Update(ctx context.Context, id string, in catalog.UpdateInput) (catalog.Product, error)
}

// Service is the approval queue. Proposals enter pending and touch nothing;
// Decide runs the type-specific side effects exactly once.
type Service struct {
	repo     *Repository
	ledger   Ledger
	orders   OrderBook
	catalog  Catalog
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService builds Service. The downstream ports are wired afterwards via
// the Set methods.
func NewService(repo *Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, validate: validator.New(), logger: logger}
}

// SetLedger sets the transaction ledger port.
func (s *Service) SetLedger(l Ledger) { s.ledger = l }

// SetOrderBook sets the order book port.
func (s *Service) SetOrderBook(o OrderBook) { s.orders = o }

// SetCatalog sets the product catalog port.
func (s *Service) SetCatalog(c Catalog) { s.catalog = c }

// ProposeInput carries a raw proposal. The typed Propose helpers are the
// usual way in; this is the escape hatch they all funnel through.
type ProposeInput struct {
	Type        Type            `validate:"required"`
	User        string          `validate:"required"`
	OldData     json.RawMessage ``
	NewData     json.RawMessage `validate:"required"`
	Description string          ``
	Amount      decimal.Decimal ``
	Customer    *shared.CustomerRef
}

// Propose appends a pending approval. No side effects run until Decide.
func (s *Service) Propose(ctx context.Context, in ProposeInput) (Approval, error) {
	if !in.Type.IsValid() {
		return Approval{}, fmt.Errorf("approvals: propose %q: %w", in.Type, ErrInvalidType)
	}
	if err := s.validate.Struct(in); err != nil {
		return Approval{}, fmt.Errorf("approvals: propose: %w", err)
	}
	a := Approval{
		ID:          shared.NewID("APR"),
		Type:        in.Type,
		Date:        time.Now().UTC(),
		User:        in.User,
		OldData:     in.OldData,
		NewData:     in.NewData,
		Status:      StatusPending,
		Description: in.Description,
		Amount:      in.Amount,
		Customer:    in.Customer,
	}
	if err := s.repo.Insert(ctx, a); err != nil {
		return Approval{}, err
	}
	s.logger.Info("approval proposed",
		slog.String("approval_id", a.ID),
		slog.String("type", string(a.Type)),
		slog.String("user", a.User))
	return a, nil
}

// ProposeSale files a sale proposal.
func (s *Service) ProposeSale(ctx context.Context, user string, p SalePayload) (Approval, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return Approval{}, fmt.Errorf("approvals: propose sale: %w", err)
	}
	ref := p.Customer.Ref()
	return s.Propose(ctx, ProposeInput{
		Type:        TypeSale,
		User:        user,
		NewData:     data,
		Description: p.Note,
		Amount:      p.Total,
		Customer:    &ref,
	})
}

// ProposeReturn files a return proposal.
func (s *Service) ProposeReturn(ctx context.Context, user string, p SalePayload) (Approval, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return Approval{}, fmt.Errorf("approvals: propose return: %w", err)
	}
	ref := p.Customer.Ref()
	return s.Propose(ctx, ProposeInput{
		Type:        TypeReturn,
		User:        user,
		NewData:     data,
		Description: p.Note,
		Amount:      p.Total,
		Customer:    &ref,
	})
}

// ProposePayment files a payment receipt proposal.
func (s *Service) ProposePayment(ctx context.Context, user string, p ReceiptPayload) (Approval, error) {
	return s.proposeReceipt(ctx, TypePayment, user, p)
}

// ProposeExpense files an expense receipt proposal.
func (s *Service) ProposeExpense(ctx context.Context, user string, p ReceiptPayload) (Approval, error) {
	return s.proposeReceipt(ctx, TypeExpense, user, p)
}

func (s *Service) proposeReceipt(ctx context.Context, t Type, user string, p ReceiptPayload) (Approval, error) {
	if p.Total.IsZero() {
		p.Total = LegsTotal(p.Legs)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return Approval{}, fmt.Errorf("approvals: propose %s: %w", t, err)
	}
	ref := p.Customer.Ref()
	return s.Propose(ctx, ProposeInput{
		Type:        t,
		User:        user,
		NewData:     data,
		Description: SummarizeLegs(p.Legs),
		Amount:      p.Total,
		Customer:    &ref,
	})
}

// ProposeProductUpdate files a product edit proposal carrying the product
// as it is and as it should become.
func (s *Service) ProposeProductUpdate(ctx context.Context, user string, old catalog.Product, next ProductPayload) (Approval, error) {
	oldData, err := json.Marshal(old)
	if err != nil {
		return Approval{}, fmt.Errorf("approvals: propose product: %w", err)
	}
	newData, err := json.Marshal(next)
	if err != nil {
		return Approval{}, fmt.Errorf("approvals: propose product: %w", err)
	}
	return s.Propose(ctx, ProposeInput{
		Type:        TypeProduct,
		User:        user,
		OldData:     oldData,
		NewData:     newData,
		Description: next.Name,
	})
}

// ProposeOrderChange files an order_change proposal. It implements the
// order book's ChangeProposer port; oldOrder is the order as stored and
// newOrder the order as collected.
func (s *Service) ProposeOrderChange(ctx context.Context, user string, oldOrder, newOrder orders.Order) error {
	oldData, err := json.Marshal(oldOrder)
	if err != nil {
		return fmt.Errorf("approvals: propose order change: %w", err)
	}
	newData, err := json.Marshal(newOrder)
	if err != nil {
		return fmt.Errorf("approvals: propose order change: %w", err)
	}
	ref := newOrder.Customer.Ref()
	_, err = s.Propose(ctx, ProposeInput{
		Type:        TypeOrderChange,
		User:        user,
		OldData:     oldData,
		NewData:     newData,
		Description: "collected quantities differ from order",
		Amount:      newOrder.TotalAmount,
		Customer:    &ref,
	})
	return err
}

// Decide settles a pending approval. Approving dispatches the side effects
// for the approval's type; rejecting only releases whatever the proposal
// froze. Either way the approval leaves pending for good, and deciding it
// again is refused without re-running anything.
func (s *Service) Decide(ctx context.Context, id string, approve bool) (Approval, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return Approval{}, err
	}
	if a.Status != StatusPending {
		return Approval{}, fmt.Errorf("approvals: decide %s in %s: %w", id, a.Status, shared.ErrAlreadyProcessed)
	}
	if !approve {
		if a.Type == TypeOrderChange {
			if err := s.releaseOrder(ctx, a); err != nil {
				return Approval{}, err
			}
		}
		a.Status = StatusRejected
		a.Processed = true
		if err := s.repo.Put(ctx, a); err != nil {
			return Approval{}, err
		}
		s.logger.Info("approval rejected", slog.String("approval_id", a.ID), slog.String("type", string(a.Type)))
		return a, nil
	}
	if err := s.apply(ctx, a); err != nil {
		return Approval{}, err
	}
	a.Status = StatusApproved
	a.Processed = true
	if err := s.repo.Put(ctx, a); err != nil {
		return Approval{}, err
	}
	s.logger.Info("approval approved", slog.String("approval_id", a.ID), slog.String("type", string(a.Type)))
	return a, nil
}

// apply runs the side effects of an approved proposal. Failures leave the
// approval pending so the decision can be retried.
func (s *Service) apply(ctx context.Context, a Approval) error {
	switch a.Type {
	case TypeSale:
		return s.applySale(ctx, a)
	case TypeReturn:
		return s.applyReturn(ctx, a)
	case TypePayment:
		return s.applyReceipt(ctx, a, ledger.TypePayment)
	case TypeExpense:
		return s.applyReceipt(ctx, a, ledger.TypeExpense)
	case TypeOrderChange:
		return s.applyOrderChange(ctx, a)
	case TypeProduct:
		return s.applyProduct(ctx, a)
	default:
		return fmt.Errorf("approvals: apply %s type %q: %w", a.ID, a.Type, ErrInvalidType)
	}
}

// applySale books the sale and opens a preparing order that remembers the
// ledger record it came from.
func (s *Service) applySale(ctx context.Context, a Approval) error {
	var p SalePayload
	if err := json.Unmarshal(a.NewData, &p); err != nil {
		return fmt.Errorf("approvals: apply %s: %w: %v", a.ID, ErrBadPayload, err)
	}
	tx, err := s.ledger.Append(ctx, ledger.AppendInput{
		Type:     ledger.TypeSale,
		Customer: p.Customer,
		Amount:   p.Total,
		Items:    ledgerItems(p.Items),
		Note:     p.Note,
		Discount: p.Discount,
	})
	if err != nil {
		return fmt.Errorf("approvals: apply %s: %w", a.ID, err)
	}
	_, err = s.orders.Create(ctx, orders.CreateInput{
		Customer:      p.Customer,
		Items:         orderItems(p.Items),
		TotalAmount:   p.Total,
		Note:          p.Note,
		TransactionID: tx.ID,
	})
	if err != nil {
		return fmt.Errorf("approvals: apply %s: %w", a.ID, err)
	}
	return nil
}

// applyReturn books the return; the ledger moves the stock back in.
func (s *Service) applyReturn(ctx context.Context, a Approval) error {
	var p SalePayload
	if err := json.Unmarshal(a.NewData, &p); err != nil {
		return fmt.Errorf("approvals: apply %s: %w: %v", a.ID, ErrBadPayload, err)
	}
	_, err := s.ledger.Append(ctx, ledger.AppendInput{
		Type:     ledger.TypeReturn,
		Customer: p.Customer,
		Amount:   p.Total,
		Items:    ledgerItems(p.Items),
		Note:     p.Note,
	})
	if err != nil {
		return fmt.Errorf("approvals: apply %s: %w", a.ID, err)
	}
	return nil
}

// applyReceipt books a payment or expense. Expenses are stored negated so
// the ledger's balance arithmetic treats them as money out.
func (s *Service) applyReceipt(ctx context.Context, a Approval, t ledger.Type) error {
	var p ReceiptPayload
	if err := json.Unmarshal(a.NewData, &p); err != nil {
		return fmt.Errorf("approvals: apply %s: %w: %v", a.ID, ErrBadPayload, err)
	}
	amount := p.Total
	if amount.IsZero() {
		amount = LegsTotal(p.Legs)
	}
	if t == ledger.TypeExpense {
		amount = amount.Neg()
	}
	_, err := s.ledger.Append(ctx, ledger.AppendInput{
		Type:          t,
		Customer:      p.Customer,
		Amount:        amount,
		PaymentMethod: SummarizeLegs(p.Legs),
		Note:          p.Note,
	})
	if err != nil {
		return fmt.Errorf("approvals: apply %s: %w", a.ID, err)
	}
	return nil
}

// applyOrderChange re-books the sale at the collected quantities and puts
// the new items on the order. The order's status and route stay whatever
// they were; removing the prior record and appending the new one leaves the
// catalog holding the net stock difference.
func (s *Service) applyOrderChange(ctx context.Context, a Approval) error {
	var oldOrder, newOrder orders.Order
	if err := json.Unmarshal(a.NewData, &newOrder); err != nil {
		return fmt.Errorf("approvals: apply %s: %w: %v", a.ID, ErrBadPayload, err)
	}
	if len(a.OldData) > 0 {
		if err := json.Unmarshal(a.OldData, &oldOrder); err != nil {
			return fmt.Errorf("approvals: apply %s: %w: %v", a.ID, ErrBadPayload, err)
		}
	}
	if oldOrder.TransactionID != "" {
		if err := s.ledger.Remove(ctx, oldOrder.TransactionID); err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("approvals: apply %s: %w", a.ID, err)
			}
			s.logger.Warn("linked transaction already gone",
				slog.String("approval_id", a.ID),
				slog.String("transaction_id", oldOrder.TransactionID))
		}
	}
	tx, err := s.ledger.Append(ctx, ledger.AppendInput{
		Type:        ledger.TypeSale,
		Description: "sale (updated)",
		Customer:    newOrder.Customer,
		Amount:      newOrder.TotalAmount,
		Items:       orderLedgerItems(newOrder.Items),
		Note:        newOrder.Note,
	})
	if err != nil {
		return fmt.Errorf("approvals: apply %s: %w", a.ID, err)
	}
	_, err = s.orders.ApplyApprovedChange(ctx, orders.ApprovedChange{
		OrderID:       newOrder.ID,
		Items:         newOrder.Items,
		TotalAmount:   newOrder.TotalAmount,
		TransactionID: tx.ID,
	})
	if err != nil {
		return fmt.Errorf("approvals: apply %s: %w", a.ID, err)
	}
	return nil
}

// applyProduct writes the proposed product state over the catalog entry.
func (s *Service) applyProduct(ctx context.Context, a Approval) error {
	var p ProductPayload
	if err := json.Unmarshal(a.NewData, &p); err != nil {
		return fmt.Errorf("approvals: apply %s: %w: %v", a.ID, ErrBadPayload, err)
	}
	_, err := s.catalog.Update(ctx, p.ID, catalog.UpdateInput{
		Name:        &p.Name,
		Description: &p.Description,
		Price:       &p.Price,
		Stock:       &p.Stock,
		Image:       &p.Image,
		Brand:       &p.Brand,
		Category:    &p.Category,
		Barcode:     &p.Barcode,
		Shelf:       &p.Shelf,
		Packaging:   &p.Packaging,
	})
	if err != nil {
		return fmt.Errorf("approvals: apply %s: %w", a.ID, err)
	}
	return nil
}

// releaseOrder lifts the approval freeze from the order a rejected
// order_change proposal targeted. A deleted order is not an error here.
func (s *Service) releaseOrder(ctx context.Context, a Approval) error {
	var o orders.Order
	if err := json.Unmarshal(a.NewData, &o); err != nil {
		return fmt.Errorf("approvals: release %s: %w: %v", a.ID, ErrBadPayload, err)
	}
	if _, err := s.orders.SetPendingApproval(ctx, o.ID, false); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("approvals: release %s: %w", a.ID, err)
	}
	return nil
}

// ByID returns one approval.
func (s *Service) ByID(ctx context.Context, id string) (Approval, error) {
	return s.repo.Get(ctx, id)
}

// All returns the queue, newest first.
func (s *Service) All(ctx context.Context) []Approval {
	return s.repo.All(ctx)
}

// ByStatus returns the approvals in the given decision state, newest first.
func (s *Service) ByStatus(ctx context.Context, status Status) []Approval {
	var out []Approval
	for _, a := range s.repo.All(ctx) {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

// ByType returns the approvals of one type, newest first.
func (s *Service) ByType(ctx context.Context, t Type) []Approval {
	var out []Approval
	for _, a := range s.repo.All(ctx) {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}
