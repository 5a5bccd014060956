// Package counting implements stocktake lists: ad-hoc counts of what is
// physically on the shelves, kept separate from the catalog's book stock.
// A list collects count entries keyed by product and location; once
// completed it is frozen.
package counting

import (
	"time"

	"github.com/shopspring/decimal"
)

// Count is one counted line of a stocktake list. Location is where the
// product was found and, together with the product id, identifies the
// entry within its list. The same product found somewhere else is a new
// entry, never a silent overwrite.
type Count struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode,omitempty"`
	Image        string          `json:"image,omitempty"`
	Location     string          `json:"location"`
	CurrentStock int             `json:"currentStock"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	CountedBy    string          `json:"countedBy,omitempty"`
	Date         time.Time       `json:"date"`
}

// List is a stocktake session. Totals are derived from the entries and
// recomputed on every mutation. ProductIDs, when set, limits which
// products may be counted on this list.
type List struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"createdBy,omitempty"`
	ProductIDs    []string        `json:"productIds,omitempty"`
	Counts        []Count         `json:"counts"`
	TotalItems    int             `json:"totalItems"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	CompletedBy   string          `json:"completedBy,omitempty"`
	Note          string          `json:"note,omitempty"`
}

// Completed reports whether the list has been frozen.
func (l List) Completed() bool {
	return l.CompletedAt != nil
}

// Departments returns the distinct locations counted so far, in first-seen
// order.
func (l List) Departments() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range l.Counts {
		if !seen[c.Location] {
			seen[c.Location] = true
			out = append(out, c.Location)
		}
	}
	return out
}

// inScope reports whether the product may be counted on this list.
func (l List) inScope(productID string) bool {
	if len(l.ProductIDs) == 0 {
		return true
	}
	for _, id := range l.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// entryKey identifies a count within its list.
type entryKey struct {
	productID string
	location  string
}

func (c Count) key() entryKey {
	return entryKey{productID: c.ProductID, location: c.Location}
}

// recomputeTotals rebuilds the derived totals from the entries.
func (l *List) recomputeTotals() {
	l.TotalItems = len(l.Counts)
	total := 0
	value := decimal.Zero
	for _, c := range l.Counts {
		total += c.Quantity
		value = value.Add(c.Price.Mul(decimal.NewFromInt(int64(c.Quantity))))
	}
	l.TotalQuantity = total
	l.TotalValue = value
}

// find returns the index of the entry with the same key, or -1.
func (l List) find(key entryKey) int {
	for i, c := range l.Counts {
		if c.key() == key {
			return i
		}
	}
	return -1
}
