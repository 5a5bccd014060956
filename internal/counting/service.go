package counting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/backoffice-retail/backoffice/internal/shared"
)

// Service provides stocktake list operations.
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

// CreateListInput carries a new stocktake session. ProductIDs, when given,
// limits the list to those products.
type CreateListInput struct {
	Name        string   `validate:"required"`
	Description string   ``
	User        string   `validate:"required"`
	ProductIDs  []string `validate:"omitempty,unique"`
}

// CreateList opens a new stocktake list.
func (s *Service) CreateList(ctx context.Context, in CreateListInput) (List, error) {
	if err := s.validate.Struct(in); err != nil {
		return List{}, fmt.Errorf("counting: create list: %w", err)
	}
	l := List{
		ID:          shared.NewID("LIST"),
		Name:        in.Name,
		Description: in.Description,
		Date:        time.Now().UTC(),
		CreatedBy:   in.User,
		ProductIDs:  in.ProductIDs,
		Counts:      []Count{},
		TotalValue:  decimal.Zero,
	}
	if err := s.repo.Insert(ctx, l); err != nil {
		return List{}, err
	}
	return l, nil
}

// CountInput carries one counted line. CurrentStock is the book stock at
// count time, kept as a snapshot for the variance report.
type CountInput struct {
	ProductID    string `validate:"required"`
	Name         string ``
	Barcode      string ``
	Image        string ``
	Location     string `validate:"required"`
	CurrentStock int    ``
	Quantity     int    `validate:"gte=0"`
	Price        decimal.Decimal
	CountedBy    string ``
}

func (in CountInput) count() Count {
	return Count{
		ProductID:    in.ProductID,
		Name:         in.Name,
		Barcode:      in.Barcode,
		Image:        in.Image,
		Location:     in.Location,
		CurrentStock: in.CurrentStock,
		Quantity:     in.Quantity,
		Price:        in.Price,
		CountedBy:    in.CountedBy,
		Date:         time.Now().UTC(),
	}
}

// editableList fetches the list and refuses frozen or out-of-scope edits.
func (s *Service) editableList(ctx context.Context, listID, productID string) (List, error) {
	l, err := s.repo.Get(ctx, listID)
	if err != nil {
		return List{}, err
	}
	if l.Completed() {
		return List{}, fmt.Errorf("counting: edit %s: %w", listID, ErrListCompleted)
	}
	if !l.inScope(productID) {
		return List{}, fmt.Errorf("counting: %s on %s: %w", productID, listID, ErrNotInScope)
	}
	return l, nil
}

// AddCount appends a count to the list. A second count of the same product
// at the same location is refused; the caller decides whether to merge.
func (s *Service) AddCount(ctx context.Context, listID string, in CountInput) (List, error) {
	if err := s.validate.Struct(in); err != nil {
		return List{}, fmt.Errorf("counting: add count: %w", err)
	}
	l, err := s.editableList(ctx, listID, in.ProductID)
	if err != nil {
		return List{}, err
	}
	c := in.count()
	if l.find(c.key()) >= 0 {
		return List{}, fmt.Errorf("counting: add %s at %q to %s: %w", c.ProductID, c.Location, listID, ErrDuplicateCount)
	}
	l.Counts = append(l.Counts, c)
	l.recomputeTotals()
	if err := s.repo.Put(ctx, l); err != nil {
		return List{}, err
	}
	return l, nil
}

// MergeCount writes the count over an existing entry with the same product
// and location. The new quantity replaces the old one, it is not added to
// it. A missing entry is simply appended.
func (s *Service) MergeCount(ctx context.Context, listID string, in CountInput) (List, error) {
	if err := s.validate.Struct(in); err != nil {
		return List{}, fmt.Errorf("counting: merge count: %w", err)
	}
	l, err := s.editableList(ctx, listID, in.ProductID)
	if err != nil {
		return List{}, err
	}
	c := in.count()
	if i := l.find(c.key()); i >= 0 {
		s.logger.Info("count replaced",
			slog.String("list_id", listID),
			slog.String("product_id", c.ProductID),
			slog.Int("old_quantity", l.Counts[i].Quantity),
			slog.Int("new_quantity", c.Quantity))
		l.Counts[i] = c
	} else {
		l.Counts = append(l.Counts, c)
	}
	l.recomputeTotals()
	if err := s.repo.Put(ctx, l); err != nil {
		return List{}, err
	}
	return l, nil
}

// RemoveCount deletes one entry from an open list.
func (s *Service) RemoveCount(ctx context.Context, listID, productID, location string) (List, error) {
	l, err := s.repo.Get(ctx, listID)
	if err != nil {
		return List{}, err
	}
	if l.Completed() {
		return List{}, fmt.Errorf("counting: remove from %s: %w", listID, ErrListCompleted)
	}
	i := l.find(entryKey{productID: productID, location: location})
	if i < 0 {
		return List{}, fmt.Errorf("counting: count %s at %q in %s: %w", productID, location, listID, shared.ErrNotFound)
	}
	l.Counts = append(l.Counts[:i], l.Counts[i+1:]...)
	l.recomputeTotals()
	if err := s.repo.Put(ctx, l); err != nil {
		return List{}, err
	}
	return l, nil
}

// CompleteList freezes the list, recording who closed it and an optional
// note. Completion is terminal.
func (s *Service) CompleteList(ctx context.Context, listID, user, note string) (List, error) {
	l, err := s.repo.Get(ctx, listID)
	if err != nil {
		return List{}, err
	}
	if l.Completed() {
		return List{}, fmt.Errorf("counting: complete %s: %w", listID, ErrListCompleted)
	}
	now := time.Now().UTC()
	l.CompletedAt = &now
	l.CompletedBy = user
	l.Note = note
	if err := s.repo.Put(ctx, l); err != nil {
		return List{}, err
	}
	s.logger.Info("count list completed",
		slog.String("list_id", listID),
		slog.Int("items", l.TotalItems),
		slog.Int("quantity", l.TotalQuantity))
	return l, nil
}

// DeleteList removes a list entirely, completed or not.
func (s *Service) DeleteList(ctx context.Context, listID string) error {
	return s.repo.Delete(ctx, listID)
}

// List returns one list by id.
func (s *Service) List(ctx context.Context, id string) (List, error) {
	return s.repo.Get(ctx, id)
}

// Lists returns every list, newest first.
func (s *Service) Lists(ctx context.Context) []List {
	return s.repo.All(ctx)
}

// ActiveList returns the most recently opened list that is not completed.
func (s *Service) ActiveList(ctx context.Context) (List, error) {
	for _, l := range s.repo.All(ctx) {
		if !l.Completed() {
			return l, nil
		}
	}
	return List{}, fmt.Errorf("counting: %w", ErrNoActiveList)
}
