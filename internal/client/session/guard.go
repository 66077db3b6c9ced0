package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/herocards/internal/common"
	"github.com/dmitrijs2005/herocards/internal/logging"
)

// State of the Guard.
type State int

const (
	NoSession State = iota
	SessionActive
)

func (s State) String() string {
	if s == SessionActive {
		return "active"
	}
	return "none"
}

// Purger empties the local cache after stopping any work that could refill
// it.
type Purger interface {
	Purge(ctx context.Context) error
}

// Guard runs the identity-switch checks. SignIn must return before any read
// of the local cache.
type Guard struct {
	slot   Slot
	purger Purger
	log    logging.Logger

	mu       sync.Mutex
	state    State
	identity string
}

func NewGuard(slot Slot, purger Purger, log logging.Logger) *Guard {
	return &Guard{slot: slot, purger: purger, log: log.With("module", "session")}
}

// SignIn makes identity the active session. When the slot does not hold the
// same identity the cache is purged first. On a purge failure the identity
// is not recorded and the session stays inactive.
func (g *Guard) SignIn(ctx context.Context, identity string) error {
	if identity == "" {
		return common.ErrNoIdentity
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	digest := Digest(identity)
	last, err := g.slot.Load()
	if err != nil {
		g.log.Warn(ctx, "session slot unreadable", "error", err)
		last = nil
	}

	if !sameDigest(last, digest) {
		if err := g.purger.Purge(ctx); err != nil {
			g.state, g.identity = NoSession, ""
			return fmt.Errorf("sign in: %w", err)
		}
		g.log.Info(ctx, "identity changed, local cache purged")
	}

	if err := g.slot.Store(digest); err != nil {
		g.log.Warn(ctx, "session slot not written", "error", err)
	}
	g.state, g.identity = SessionActive, identity
	return nil
}

// SignOut purges the cache and forgets the identity.
func (g *Guard) SignOut(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state, g.identity = NoSession, ""
	if err := g.slot.Clear(); err != nil {
		g.log.Warn(ctx, "session slot not cleared", "error", err)
	}
	if err := g.purger.Purge(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Identity returns the active identity, or "" without a session.
func (g *Guard) Identity() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.identity
}
