// Package approvals is the mediator between proposed business changes and
// the components they affect. A proposal is appended as pending and touches
// nothing; approving it dispatches the type-specific side effects into the
// ledger, the order book or the catalog, exactly once.
package approvals

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/backoffice-retail/backoffice/internal/ledger"
	"github.com/backoffice-retail/backoffice/internal/orders"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

// Status is the decision state of an approval. It is terminal once it
// leaves pending; there is no way back.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValid checks if the status is known.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Type names the business change an approval proposes.
type Type string

const (
	TypeProduct     Type = "product"
	TypeSale        Type = "sale"
	TypePayment     Type = "payment"
	TypeExpense     Type = "expense"
	TypeReturn      Type = "return"
	TypeOrderChange Type = "order_change"
)

// IsValid checks if the type is known.
func (t Type) IsValid() bool {
	switch t {
	case TypeProduct, TypeSale, TypePayment, TypeExpense, TypeReturn, TypeOrderChange:
		return true
	default:
		return false
	}
}

// Approval is a proposed change awaiting a decision. OldData is null for
// brand-new proposals and carries the prior state for edits; NewData is the
// proposed resulting state, shaped per Type. Description, amount and
// customer are denormalised for list display only.
type Approval struct {
	ID          string              `json:"id"`
	Type        Type                `json:"type"`
	Date        time.Time           `json:"date"`
	User        string              `json:"user"`
	OldData     json.RawMessage     `json:"oldData,omitempty"`
	NewData     json.RawMessage     `json:"newData"`
	Status      Status              `json:"status"`
	Description string              `json:"description,omitempty"`
	Amount      decimal.Decimal     `json:"amount,omitempty"`
	Customer    *shared.CustomerRef `json:"customer,omitempty"`
	Processed   bool                `json:"processed,omitempty"`
}

// SaleItem is one product line inside a sale or return payload. Unlike a
// ledger item it keeps the image so the created order can display it.
type SaleItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
}

// SalePayload is the newData of sale and return proposals.
type SalePayload struct {
	Customer shared.CustomerSnapshot `json:"customer"`
	Items    []SaleItem              `json:"items"`
	Total    decimal.Decimal         `json:"total"`
	Discount decimal.Decimal         `json:"discount,omitempty"`
	Note     string                  `json:"note,omitempty"`
}

// ReceiptPayload is the newData of payment and expense proposals: one or
// more payment legs collected from or paid to a customer.
type ReceiptPayload struct {
	Customer shared.CustomerSnapshot `json:"customer"`
	Legs     []PaymentLeg            `json:"payments"`
	Total    decimal.Decimal         `json:"total"`
	Note     string                  `json:"note,omitempty"`
}

// ProductPayload is the newData of product edit proposals; oldData carries
// the product as it currently is.
type ProductPayload struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Category    string          `json:"category,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
	Shelf       string          `json:"shelf,omitempty"`
	Packaging   string          `json:"packaging,omitempty"`
}

// ledgerItems converts sale items to ledger lines, dropping the image.
func ledgerItems(items []SaleItem) []ledger.Item {
	out := make([]ledger.Item, len(items))
	for i, item := range items {
		out[i] = ledger.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Note:      item.Note,
		}
	}
	return out
}

// orderItems converts sale items to order lines, keeping the image.
func orderItems(items []SaleItem) []orders.Item {
	out := make([]orders.Item, len(items))
	for i, item := range items {
		out[i] = orders.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Note:      item.Note,
		}
	}
	return out
}

// orderLedgerItems converts order lines to ledger lines, used when an
// approved order change re-books the sale.
func orderLedgerItems(items []orders.Item) []ledger.Item {
	out := make([]ledger.Item, len(items))
	for i, item := range items {
		out[i] = ledger.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Note:      item.Note,
		}
	}
	return out
}
