package client

import (
	"context"

	"github.com/dmitrijs2005/herocards/internal/client/models"
)

// Client is the remote CardStore contract. Getters return nil, nil when the
// remote side has no such record.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	GetUser(ctx context.Context, identity string) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error

	// GetCards lists the active cards of owner.
	GetCards(ctx context.Context, owner string) ([]*models.Card, error)
	GetCard(ctx context.Context, id, viewer string) (*models.Card, error)
	SaveCard(ctx context.Context, c *models.Card) error
	DeleteCard(ctx context.Context, owner, id string) error
	SetCardVisibility(ctx context.Context, owner, id string, public bool) error

	SaveToCollection(ctx context.Context, identity, cardID string) error
	RemoveFromCollection(ctx context.Context, identity, cardID string) error
	IsCardSaved(ctx context.Context, identity, cardID string) (bool, error)
	GetSavedCards(ctx context.Context, identity string) ([]*models.Card, error)

	GetStats(ctx context.Context, identity string) (*models.Stats, error)
}

// TokenSource yields the bearer token for outbound calls. An empty token
// means the call goes out unauthenticated.
type TokenSource interface {
	Token() (string, error)
}
