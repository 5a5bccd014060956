// Package ledger keeps the append-only record of monetary movements per
// customer and derives balances from it. A sale or return with items also
// moves catalog stock, and removing such a record reverses that movement.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice-retail/backoffice/internal/shared"
)

// Type classifies a monetary movement.
type Type string

const (
	TypeSale    Type = "sale"
	TypePayment Type = "payment"
	TypeExpense Type = "expense"
	TypeReturn  Type = "return"
)

// IsValid checks if the type is known.
func (t Type) IsValid() bool {
	switch t {
	case TypeSale, TypePayment, TypeExpense, TypeReturn:
		return true
	default:
		return false
	}
}

// Item is one product line of a sale or return.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Note      string          `json:"note,omitempty"`
}

// Transaction is a single immutable ledger record. Records are created and
// deleted, never updated in place.
type Transaction struct {
	ID            string                  `json:"id"`
	Date          time.Time               `json:"date"`
	Year          int                     `json:"year"`
	Type          Type                    `json:"type"`
	Description   string                  `json:"description"`
	Customer      shared.CustomerSnapshot `json:"customer"`
	Amount        decimal.Decimal         `json:"amount"`
	Items         []Item                  `json:"items,omitempty"`
	PaymentMethod string                  `json:"paymentMethod,omitempty"`
	Note          string                  `json:"note,omitempty"`
	Discount      decimal.Decimal         `json:"discount,omitempty"`
}

// Stats aggregates a customer's sales and payments for the current and the
// prior calendar year.
type Stats struct {
	CurrentYearSales     decimal.Decimal `json:"currentYearSales"`
	PreviousYearSales    decimal.Decimal `json:"previousYearSales"`
	CurrentYearPayments  decimal.Decimal `json:"currentYearPayments"`
	PreviousYearPayments decimal.Decimal `json:"previousYearPayments"`
}

// AppendInput carries a new record. The id, date and year are assigned at
// append time. The amount is stored as given; the sign convention per type
// is the caller's responsibility.
type AppendInput struct {
	Type          Type                    `validate:"required"`
	Description   string                  ``
	Customer      shared.CustomerSnapshot `validate:"required"`
	Amount        decimal.Decimal         ``
	Items         []Item                  `validate:"omitempty,dive"`
	PaymentMethod string                  ``
	Note          string                  ``
	Discount      decimal.Decimal         ``
}
