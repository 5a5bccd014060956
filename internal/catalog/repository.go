package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/backoffice-retail/backoffice/internal/platform/statestore"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

const storeName = "products-storage"

// Repository keeps products in memory and writes the whole registry through
// to the statestore after every mutation.
type Repository struct {
	mu    sync.RWMutex
	store statestore.Store

	products []Product
	index    map[string]int
}

// NewRepository wires a repository to its persistence collaborator.
func NewRepository(store statestore.Store) *Repository {
	return &Repository{store: store, index: make(map[string]int)}
}

// Load restores the registry from the statestore. Missing state leaves the
// registry empty so a caller can seed it.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok, err := r.store.Load(ctx, storeName)
	if err != nil {
		return fmt.Errorf("catalog: load: %w", err)
	}
	if !ok {
		return nil
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("catalog: decode state: %w", err)
	}
	r.products = products
	r.reindex()
	return nil
}

func (r *Repository) reindex() {
	r.index = make(map[string]int, len(r.products))
	for i, p := range r.products {
		r.index[p.ID] = i
	}
}

func (r *Repository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.products)
	if err != nil {
		return fmt.Errorf("catalog: encode state: %w", err)
	}
	if err := r.store.Save(ctx, storeName, data); err != nil {
		return fmt.Errorf("catalog: save: %w", err)
	}
	return nil
}

// Get returns the product with the given id.
func (r *Repository) Get(_ context.Context, id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return Product{}, fmt.Errorf("catalog: product %s: %w", id, shared.ErrNotFound)
	}
	return r.products[i], nil
}

// List returns all products in registry order.
func (r *Repository) List(_ context.Context) []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, len(r.products))
	copy(out, r.products)
	return out
}

// Put inserts or replaces a product and writes the registry through.
func (r *Repository) Put(ctx context.Context, p Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[p.ID]; ok {
		r.products[i] = p
	} else {
		r.products = append(r.products, p)
		r.index[p.ID] = len(r.products) - 1
	}
	return r.persist(ctx)
}

// Replace swaps the whole registry, used for seeding.
func (r *Repository) Replace(ctx context.Context, products []Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = make([]Product, len(products))
	copy(r.products, products)
	r.reindex()
	return r.persist(ctx)
}

// Empty reports whether the registry holds no products.
func (r *Repository) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products) == 0
}
