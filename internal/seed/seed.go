// Package seed holds the demo catalog and customers loaded into an empty
// installation.
package seed

import (
	"github.com/shopspring/decimal"

	"github.com/backoffice-retail/backoffice/internal/catalog"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

// Products returns the demo catalog.
func Products() []catalog.Product {
	return []catalog.Product{
		{ID: "P-1001", Name: "Olive Oil 1L", Price: decimal.RequireFromString("185.50"), Stock: 48, Brand: "Taris", Category: "Oils", Barcode: "8690000010011", Shelf: "A1", Packaging: "12 per case"},
		{ID: "P-1002", Name: "Filter Coffee 500g", Price: decimal.RequireFromString("240.00"), Stock: 30, Brand: "Kurukahveci", Category: "Beverages", Barcode: "8690000010028", Shelf: "B2", Packaging: "10 per case"},
		{ID: "P-1003", Name: "Honey 850g", Price: decimal.RequireFromString("320.00"), Stock: 18, Brand: "Balparmak", Category: "Breakfast", Barcode: "8690000010035", Shelf: "B4", Packaging: "6 per case"},
		{ID: "P-1004", Name: "Dried Apricots 1kg", Price: decimal.RequireFromString("155.00"), Stock: 25, Brand: "Malatya", Category: "Dried Fruit", Barcode: "8690000010042", Shelf: "C1", Packaging: "8 per case"},
		{ID: "P-1005", Name: "Black Tea 1kg", Price: decimal.RequireFromString("210.00"), Stock: 60, Brand: "Caykur", Category: "Beverages", Barcode: "8690000010059", Shelf: "B1", Packaging: "10 per case"},
		{ID: "P-1006", Name: "Tomato Paste 830g", Price: decimal.RequireFromString("95.00"), Stock: 72, Brand: "Tat", Category: "Canned", Barcode: "8690000010066", Shelf: "D3", Packaging: "12 per case"},
	}
}

// Customers returns the demo customer book.
func Customers() []shared.CustomerSnapshot {
	return []shared.CustomerSnapshot{
		{ID: "C-001", Name: "Aegean Market", TaxNumber: "1234567801", Address: "Kordon Cad. 14, Izmir", Phone: "+90 232 555 0101"},
		{ID: "C-002", Name: "Harbor Cafe", TaxNumber: "1234567802", Address: "Liman Sok. 3, Cesme", Phone: "+90 232 555 0102"},
		{ID: "C-003", Name: "Hilltop Grocery", TaxNumber: "1234567803", Address: "Tepe Mah. 27, Urla", Phone: "+90 232 555 0103"},
	}
}
