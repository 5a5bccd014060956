package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/backoffice-retail/backoffice/internal/platform/statestore"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

const storeName = "transactions-storage"

// Repository keeps the transaction history in memory and writes it through
// to the statestore after every mutation.
type Repository struct {
	mu    sync.RWMutex
	store statestore.Store

	transactions []Transaction
}

// NewRepository wires a repository to its persistence collaborator.
func NewRepository(store statestore.Store) *Repository {
	return &Repository{store: store}
}

// Load restores the history from the statestore.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok, err := r.store.Load(ctx, storeName)
	if err != nil {
		return fmt.Errorf("ledger: load: %w", err)
	}
	if !ok {
		return nil
	}
	var transactions []Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return fmt.Errorf("ledger: decode state: %w", err)
	}
	r.transactions = transactions
	return nil
}

func (r *Repository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.transactions)
	if err != nil {
		return fmt.Errorf("ledger: encode state: %w", err)
	}
	if err := r.store.Save(ctx, storeName, data); err != nil {
		return fmt.Errorf("ledger: save: %w", err)
	}
	return nil
}

// Append adds a record to the history.
func (r *Repository) Append(ctx context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, tx)
	return r.persist(ctx)
}

// Get returns the record with the given id.
func (r *Repository) Get(_ context.Context, id string) (Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, tx := range r.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return Transaction{}, fmt.Errorf("ledger: transaction %s: %w", id, shared.ErrNotFound)
}

// Delete removes the record with the given id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, tx := range r.transactions {
		if tx.ID == id {
			r.transactions = append(r.transactions[:i], r.transactions[i+1:]...)
			return r.persist(ctx)
		}
	}
	return fmt.Errorf("ledger: transaction %s: %w", id, shared.ErrNotFound)
}

// All returns the full history in append order.
func (r *Repository) All(_ context.Context) []Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Transaction, len(r.transactions))
	copy(out, r.transactions)
	return out
}
