package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

// Service provides product registry operations.
type Service struct {
	repo     *Repository
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

// Get returns a product by id.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	return s.repo.Get(ctx, id)
}

// List returns all products.
func (s *Service) List(ctx context.Context) []Product {
	return s.repo.List(ctx)
}

// Seed replaces the registry when it is empty, typically at first startup.
func (s *Service) Seed(ctx context.Context, products []Product) error {
	if !s.repo.Empty() {
		return nil
	}
	for _, p := range products {
		if p.Price.IsNegative() {
			return fmt.Errorf("catalog: seed %s: %w", p.ID, ErrNegativePrice)
		}
	}
	return s.repo.Replace(ctx, products)
}

// Update patches the product, leaving nil fields untouched.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return Product{}, fmt.Errorf("catalog: update %s: %w", id, err)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return Product{}, fmt.Errorf("catalog: update %s: %w", id, ErrNegativePrice)
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Barcode != nil {
		p.Barcode = *in.Barcode
	}
	if in.Shelf != nil {
		p.Shelf = *in.Shelf
	}
	if in.Packaging != nil {
		p.Packaging = *in.Packaging
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// IncreaseStock adds qty to the product's stock.
func (s *Service) IncreaseStock(ctx context.Context, id string, qty int) (Product, error) {
	if qty <= 0 {
		return Product{}, fmt.Errorf("catalog: increase %s by %d: %w", id, qty, ErrInvalidQuantity)
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	p.Stock += qty
	if err := s.repo.Put(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// DecreaseStock subtracts qty from the product's stock, flooring at zero.
// Overselling is permitted on the retail floor; the clamp is reported
// through the returned flag and a warning log instead of an error.
func (s *Service) DecreaseStock(ctx context.Context, id string, qty int) (Product, bool, error) {
	if qty <= 0 {
		return Product{}, false, fmt.Errorf("catalog: decrease %s by %d: %w", id, qty, ErrInvalidQuantity)
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, false, err
	}
	clamped := false
	p.Stock -= qty
	if p.Stock < 0 {
		clamped = true
		s.logger.Warn("stock clamped at zero",
			slog.String("product_id", id),
			slog.Int("requested", qty),
			slog.Int("short_by", -p.Stock))
		p.Stock = 0
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return Product{}, false, err
	}
	return p, clamped, nil
}
