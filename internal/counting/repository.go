package counting

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/backoffice-retail/backoffice/internal/platform/statestore"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

const storeName = "inventory-count-storage"

// Repository keeps the stocktake lists in memory, newest first, writing
// through to the state store on every mutation.
type Repository struct {
	mu    sync.RWMutex
	store statestore.Store
	items []List
	index map[string]int
}

// NewRepository builds Repository.
func NewRepository(store statestore.Store) *Repository {
	return &Repository{store: store, index: make(map[string]int)}
}

// Load hydrates the lists from the state store.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok, err := r.store.Load(ctx, storeName)
	if err != nil {
		return fmt.Errorf("counting: load: %w", err)
	}
	r.items = nil
	if ok {
		if err := json.Unmarshal(data, &r.items); err != nil {
			return fmt.Errorf("counting: load: %w", err)
		}
	}
	r.reindex()
	return nil
}

func (r *Repository) reindex() {
	r.index = make(map[string]int, len(r.items))
	for i, l := range r.items {
		r.index[l.ID] = i
	}
}

func (r *Repository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.items)
	if err != nil {
		return fmt.Errorf("counting: persist: %w", err)
	}
	if err := r.store.Save(ctx, storeName, data); err != nil {
		return fmt.Errorf("counting: persist: %w", err)
	}
	return nil
}

// Insert prepends a new list.
func (r *Repository) Insert(ctx context.Context, l List) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]List{l}, r.items...)
	r.reindex()
	return r.persist(ctx)
}

// Put replaces an existing list.
func (r *Repository) Put(ctx context.Context, l List) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[l.ID]
	if !ok {
		return fmt.Errorf("counting: list %s: %w", l.ID, shared.ErrNotFound)
	}
	r.items[i] = l
	return r.persist(ctx)
}

// Delete removes a list.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("counting: list %s: %w", id, shared.ErrNotFound)
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	r.reindex()
	return r.persist(ctx)
}

// Get returns one list by id.
func (r *Repository) Get(ctx context.Context, id string) (List, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return List{}, fmt.Errorf("counting: list %s: %w", id, shared.ErrNotFound)
	}
	return r.items[i], nil
}

// All returns the lists, newest first.
func (r *Repository) All(ctx context.Context) []List {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]List, len(r.items))
	copy(out, r.items)
	return out
}
