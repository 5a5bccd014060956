// Package catalog holds the mutable product registry and its saturating
// stock operations.
package catalog

import "github.com/shopspring/decimal"

// Product represents a sellable item. The ID is a stable product code;
// every other component references products by this id only.
type Product struct {
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

// UpdateInput patches a product. Nil fields are left untouched.
type UpdateInput struct {
	Name        *string          `validate:"omitempty,min=1"`
	Description *string          ``
	Price       *decimal.Decimal ``
	Stock       *int             `validate:"omitempty,gte=0"`
	Image       *string          ``
	Brand       *string          ``
	Category    *string          ``
	Barcode     *string          ``
	Shelf       *string          ``
	Packaging   *string          ``
}
