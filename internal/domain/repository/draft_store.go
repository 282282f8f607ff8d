package repository

import (
	"context"

	"github.com/pahanaedu/pos-api/internal/domain/billing"
)

// DraftStore persists bill drafts as an ordered, index-addressed list,
// matching the original client-local draft list: Save appends, Delete
// removes at an index and shifts the ones after it. Callers re-list
// after a delete rather than holding on to indices. This is acceptable
// because drafts are a single-counter convenience, not shared state.
type DraftStore interface {
	Save(ctx context.Context, draft billing.Draft) error
	List(ctx context.Context) ([]billing.Draft, error)
	Get(ctx context.Context, index int) (*billing.Draft, error)
	Delete(ctx context.Context, index int) error
}
