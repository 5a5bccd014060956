// Package statestore provides the opaque persistence collaborator used by
// every repository: a named blob per store, loaded once at startup and
// written through on every mutation.
package statestore

import "context"

// Store persists one opaque state blob per store name.
type Store interface {
	// Load returns the blob for name. The second result is false when the
	// store has never been saved.
	Load(ctx context.Context, name string) ([]byte, bool, error)
	// Save replaces the blob for name.
	Save(ctx context.Context, name string, data []byte) error
}
