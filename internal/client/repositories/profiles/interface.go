package profiles

import (
	"context"

	"github.com/dmitrijs2005/herocards/internal/client/models"
)

// Pending is a locally written profile not yet confirmed remotely.
type Pending struct {
	User     *models.User
	Revision int64
}

// Repository describes the profile collection of the local cache.
type Repository interface {
	// Get returns the profile for identity, or nil when absent.
	Get(ctx context.Context, identity string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)

	// Put inserts or replaces the profile and flags it pending. The returned
	// revision is passed back to MarkSynced once the remote write succeeds.
	Put(ctx context.Context, u *models.User) (int64, error)

	// Refresh stores a remote copy unless the local row is pending or already
	// identical. It reports whether the row changed.
	Refresh(ctx context.Context, u *models.User) (bool, error)

	// MarkSynced clears the pending flag if revision is still the latest write.
	MarkSynced(ctx context.Context, identity string, revision int64) error

	GetAllPending(ctx context.Context) ([]Pending, error)
	Delete(ctx context.Context, identity string) error
	Clear(ctx context.Context) error
}
