package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/backoffice-retail/backoffice/internal/platform/statestore"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

const storeName = "orders-storage"

// Repository keeps the order book in memory, newest first, and writes it
// through to the statestore after every mutation.
type Repository struct {
	mu    sync.RWMutex
	store statestore.Store

	orders []Order
}

// NewRepository wires a repository to its persistence collaborator.
func NewRepository(store statestore.Store) *Repository {
	return &Repository{store: store}
}

// Load restores the order book from the statestore.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok, err := r.store.Load(ctx, storeName)
	if err != nil {
		return fmt.Errorf("orders: load: %w", err)
	}
	if !ok {
		return nil
	}
	var orders []Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return fmt.Errorf("orders: decode state: %w", err)
	}
	r.orders = orders
	return nil
}

func (r *Repository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.orders)
	if err != nil {
		return fmt.Errorf("orders: encode state: %w", err)
	}
	if err := r.store.Save(ctx, storeName, data); err != nil {
		return fmt.Errorf("orders: save: %w", err)
	}
	return nil
}

// Insert prepends a new order.
func (r *Repository) Insert(ctx context.Context, o Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append([]Order{o}, r.orders...)
	return r.persist(ctx)
}

// Get returns the order with the given id.
func (r *Repository) Get(_ context.Context, id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, fmt.Errorf("orders: order %s: %w", id, shared.ErrNotFound)
}

// Put replaces the stored order with the same id.
func (r *Repository) Put(ctx context.Context, o Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == o.ID {
			r.orders[i] = o
			return r.persist(ctx)
		}
	}
	return fmt.Errorf("orders: order %s: %w", o.ID, shared.ErrNotFound)
}

// PutAll replaces several orders in one write, used for route fan-outs.
func (r *Repository) PutAll(ctx context.Context, updated []Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byID := make(map[string]Order, len(updated))
	for _, o := range updated {
		byID[o.ID] = o
	}
	for i := range r.orders {
		if o, ok := byID[r.orders[i].ID]; ok {
			r.orders[i] = o
			delete(byID, o.ID)
		}
	}
	if len(byID) > 0 {
		for id := range byID {
			return fmt.Errorf("orders: order %s: %w", id, shared.ErrNotFound)
		}
	}
	return r.persist(ctx)
}

// Delete removes the order with the given id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return r.persist(ctx)
		}
	}
	return fmt.Errorf("orders: order %s: %w", id, shared.ErrNotFound)
}

// All returns the order book, newest first.
func (r *Repository) All(_ context.Context) []Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, len(r.orders))
	copy(out, r.orders)
	return out
}
