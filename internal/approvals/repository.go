package approvals

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/backoffice-retail/backoffice/internal/platform/statestore"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

const storeName = "approvals-storage"

// Repository keeps the approval queue in memory, newest first, writing
// through to the state store on every mutation.
type Repository struct {
	mu    sync.RWMutex
	store statestore.Store
	items []Approval
	index map[string]int
}

// NewRepository builds Repository.
func NewRepository(store statestore.Store) *Repository {
	return &Repository{store: store, index: make(map[string]int)}
}

// Load hydrates the queue from the state store.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok, err := r.store.Load(ctx, storeName)
	if err != nil {
		return fmt.Errorf("approvals: load: %w", err)
	}
	r.items = nil
	if ok {
		if err := json.Unmarshal(data, &r.items); err != nil {
			return fmt.Errorf("approvals: load: %w", err)
		}
	}
	r.reindex()
	return nil
}

func (r *Repository) reindex() {
	r.index = make(map[string]int, len(r.items))
	for i, a := range r.items {
		r.index[a.ID] = i
	}
}

func (r *Repository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.items)
	if err != nil {
		return fmt.Errorf("approvals: persist: %w", err)
	}
	if err := r.store.Save(ctx, storeName, data); err != nil {
		return fmt.Errorf("approvals: persist: %w", err)
	}
	return nil
}

// Insert prepends a new approval.
func (r *Repository) Insert(ctx context.Context, a Approval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]Approval{a}, r.items...)
	r.reindex()
	return r.persist(ctx)
}

// Put replaces an existing approval.
func (r *Repository) Put(ctx context.Context, a Approval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[a.ID]
	if !ok {
		return fmt.Errorf("approvals: approval %s: %w", a.ID, shared.ErrNotFound)
	}
	r.items[i] = a
	return r.persist(ctx)
}

// Get returns one approval by id.
func (r *Repository) Get(ctx context.Context, id string) (Approval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return Approval{}, fmt.Errorf("approvals: approval %s: %w", id, shared.ErrNotFound)
	}
	return r.items[i], nil
}

// All returns the queue, newest first.
func (r *Repository) All(ctx context.Context) []Approval {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Approval, len(r.items))
	copy(out, r.items)
	return out
}
