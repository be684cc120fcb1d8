package quote

import "context"

// Store is the remote record store behind the saved-quotes list.
type Store interface {
	// ListSummaries returns saved quotes, newest first.
	ListSummaries(ctx context.Context) ([]Summary, error)
	// Fetch returns ErrNotFound when no record has the id.
	Fetch(ctx context.Context, id string) (*Record, error)
	// Insert assigns ID and CreatedAt.
	Insert(ctx context.Context, d Draft) (*Record, error)
}
