package cards

import (
	"context"

	"github.com/dmitrijs2005/herocards/internal/client/models"
)

// Pending is a locally written card not yet confirmed remotely.
type Pending struct {
	Card     *models.Card
	Revision int64
}

// Change is the outcome of an in-place edit. Revision is the new pending
// revision, 0 when the row does not exist. Previous is the pending value the
// edit replaced, 0 when the row was confirmed.
type Change struct {
	Revision int64
	Previous int64
}

// Repository describes the card collection of the local cache.
type Repository interface {
	// Get returns the card as stored (possibly legacy), or nil when absent.
	Get(ctx context.Context, id string) (*models.Card, error)
	GetAll(ctx context.Context) ([]*models.Card, error)
	// GetByOwner lists every card of owner, active or not, newest first.
	GetByOwner(ctx context.Context, owner string) ([]*models.Card, error)

	// Put inserts or replaces the card and flags it pending.
	Put(ctx context.Context, c *models.Card) (int64, error)
	// Refresh stores a remote copy unless the local row is pending or
	// identical. It reports whether the row changed.
	Refresh(ctx context.Context, c *models.Card) (bool, error)
	MarkSynced(ctx context.Context, id string, revision int64) error
	GetAllPending(ctx context.Context) ([]Pending, error)

	// SetVisibility changes is_public of an existing row and flags it pending.
	SetVisibility(ctx context.Context, id string, public bool) (Change, error)
	// Deactivate soft-deletes an existing row and flags it pending.
	Deactivate(ctx context.Context, id string) (Change, error)
	// DeactivateMissing soft-deletes the owner's confirmed active cards whose
	// ids are not in keep. It returns the number of rows changed.
	DeactivateMissing(ctx context.Context, owner string, keep []string) (int64, error)

	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
