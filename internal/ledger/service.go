package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice-retail/backoffice/internal/shared"
)

// StockAdjuster is the slice of the product catalog the ledger needs to
// move stock when a sale or return carries items.
type StockAdjuster interface {
	IncreaseStock(ctx context.Context, id string, qty int) error
	DecreaseStock(ctx context.Context, id string, qty int) error
}

// Service provides ledger operations.
type Service struct {
	repo   *Repository
	stock  StockAdjuster
	logger *slog.Logger
}

// NewService builds Service.
func NewService(repo *Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// SetStock sets the catalog port used for stock side effects.
func (s *Service) SetStock(stock StockAdjuster) {
	s.stock = stock
}

// Append assigns an id, date and year to the record, applies the stock side
// effect of sale/return items and stores it. Exactly one stock mutation is
// made per item; Remove reverses them.
func (s *Service) Append(ctx context.Context, in AppendInput) (Transaction, error) {
	if !in.Type.IsValid() {
		return Transaction{}, fmt.Errorf("ledger: append: %w", ErrInvalidType)
	}
	if in.Customer.ID == "" {
		return Transaction{}, fmt.Errorf("ledger: append: %w", ErrCustomerRequired)
	}
	now := time.Now().UTC()
	tx := Transaction{
		ID:            shared.NewID("TRX"),
		Date:          now,
		Year:          now.Year(),
		Type:          in.Type,
		Description:   in.Description,
		Customer:      in.Customer,
		Amount:        in.Amount,
		Items:         in.Items,
		PaymentMethod: in.PaymentMethod,
		Note:          in.Note,
		Discount:      in.Discount,
	}
	if err := s.applyStock(ctx, tx, false); err != nil {
		return Transaction{}, err
	}
	if err := s.repo.Append(ctx, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Remove reverses the record's stock effect and deletes it. Balances need
// no correction because they are always recomputed from the remaining set.
func (s *Service) Remove(ctx context.Context, id string) error {
	tx, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.applyStock(ctx, tx, true); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// applyStock moves catalog stock for sale/return items; reverse undoes the
// original movement.
func (s *Service) applyStock(ctx context.Context, tx Transaction, reverse bool) error {
	if s.stock == nil || len(tx.Items) == 0 {
		return nil
	}
	decrease := tx.Type == TypeSale
	if tx.Type != TypeSale && tx.Type != TypeReturn {
		return nil
	}
	if reverse {
		decrease = !decrease
	}
	for _, item := range tx.Items {
		var err error
		if decrease {
			err = s.stock.DecreaseStock(ctx, item.ProductID, item.Quantity)
		} else {
			err = s.stock.IncreaseStock(ctx, item.ProductID, item.Quantity)
		}
		if err != nil {
			return fmt.Errorf("ledger: stock for %s: %w", item.ProductID, err)
		}
	}
	return nil
}

// ByCustomer returns the customer's records, optionally limited to a year.
func (s *Service) ByCustomer(ctx context.Context, customerID string, year *int) []Transaction {
	var out []Transaction
	for _, tx := range s.repo.All(ctx) {
		if tx.Customer.ID != customerID {
			continue
		}
		if year != nil && tx.Year != *year {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Get returns a single record by id.
func (s *Service) Get(ctx context.Context, id string) (Transaction, error) {
	return s.repo.Get(ctx, id)
}

// All returns the full history.
func (s *Service) All(ctx context.Context) []Transaction {
	return s.repo.All(ctx)
}

// Balance recomputes the customer's balance from the full history on every
// call. Payments and returns add, sales subtract, expenses subtract their
// magnitude (they are stored negated).
func (s *Service) Balance(ctx context.Context, customerID string) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range s.repo.All(ctx) {
		if tx.Customer.ID != customerID {
			continue
		}
		switch tx.Type {
		case TypePayment, TypeReturn:
			balance = balance.Add(tx.Amount)
		case TypeSale:
			balance = balance.Sub(tx.Amount)
		case TypeExpense:
			balance = balance.Sub(tx.Amount.Abs())
		}
	}
	return balance
}

// Stats aggregates the customer's sales and payments for the current and
// prior calendar year.
func (s *Service) Stats(ctx context.Context, customerID string) Stats {
	current := time.Now().UTC().Year()
	stats := Stats{
		CurrentYearSales:     decimal.Zero,
		PreviousYearSales:    decimal.Zero,
		CurrentYearPayments:  decimal.Zero,
		PreviousYearPayments: decimal.Zero,
	}
	for _, tx := range s.repo.All(ctx) {
		if tx.Customer.ID != customerID {
			continue
		}
		switch {
		case tx.Type == TypeSale && tx.Year == current:
			stats.CurrentYearSales = stats.CurrentYearSales.Add(tx.Amount)
		case tx.Type == TypeSale && tx.Year == current-1:
			stats.PreviousYearSales = stats.PreviousYearSales.Add(tx.Amount)
		case tx.Type == TypePayment && tx.Year == current:
			stats.CurrentYearPayments = stats.CurrentYearPayments.Add(tx.Amount)
		case tx.Type == TypePayment && tx.Year == current-1:
			stats.PreviousYearPayments = stats.PreviousYearPayments.Add(tx.Amount)
		}
	}
	return stats
}
