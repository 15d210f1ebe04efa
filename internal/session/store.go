package session

import "context"

// Store persists session state by key. Implementations return ErrNotFound from
// Get when the key is unknown or expired.
type Store interface {
	Get(ctx context.Context, key string) (*State, error)
	Put(ctx context.Context, key string, state *State) error
	Delete(ctx context.Context, key string) error
}
