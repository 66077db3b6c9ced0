package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/herocards/internal/client/models"
	"github.com/dmitrijs2005/herocards/internal/client/repositories/cards"
	"github.com/dmitrijs2005/herocards/internal/common"
)

// GetCards returns the identity's active cached cards, newest first, and
// reconciles them with the remote store in the background.
func (s *syncEngine) GetCards(ctx context.Context, identity string) ([]*models.Card, error) {
	if identity == "" {
		return nil, common.ErrNoIdentity
	}

	local, err := s.cards.GetByOwner(ctx, identity)
	if err != nil {
		s.report(ctx, OpGetCards, identity, err)
		local = nil
	}

	result := make([]*models.Card, 0, len(local))
	for _, c := range local {
		s.migrate(ctx, c)
		if c.IsActive {
			result = append(result, c)
		}
	}

	s.background(OpRefreshCards, identity, func(ctx context.Context, gen uint64) error {
		return s.refreshCards(ctx, gen, identity)
	})
	return result, nil
}

// migrate upgrades a legacy card in place and writes it back best-effort.
func (s *syncEngine) migrate(ctx context.Context, c *models.Card) {
	if !c.Migrate() {
		return
	}
	if _, err := s.cards.Refresh(ctx, c); err != nil {
		s.report(ctx, OpMigrate, c.ID, err)
	}
}

// refreshCards stores every remote active card of identity and deactivates
// confirmed local cards the remote store no longer lists.
func (s *syncEngine) refreshCards(ctx context.Context, gen uint64, identity string) error {
	_, err, _ := s.flight.Do(flightKey(gen, "cards", identity), func() (any, error) {
		remote, err := s.remote.GetCards(ctx, identity)
		if err != nil {
			return nil, err
		}
		return nil, s.commit(gen, func() error {
			ids := make([]string, 0, len(remote))
			for _, c := range remote {
				if !c.OwnedBy(identity) {
					continue
				}
				ids = append(ids, c.ID)
				if _, err := s.cards.Refresh(ctx, c); err != nil {
					return err
				}
			}
			n, err := s.cards.DeactivateMissing(ctx, identity, ids)
			if err != nil {
				return err
			}
			if n > 0 {
				s.log.Info(ctx, "deactivated cards missing remotely", "owner", identity, "count", n)
			}
			return nil
		})
	})
	return err
}

// ownsCurrent reports whether the cached copy can decide visibility for
// viewer on its own: current schema and owned by viewer.
func ownsCurrent(c *models.Card, viewer string) bool {
	return c != nil && !c.Legacy() && c.OwnedBy(viewer)
}

// GetCardByID serves the owner from cache and everyone else from the remote
// store. When the remote store fails only the confirmed owner falls back to
// the cache.
func (s *syncEngine) GetCardByID(ctx context.Context, cardID, viewer string) (*models.Card, error) {
	if cardID == "" {
		return nil, nil
	}
	gen := s.generation()

	var local *models.Card
	if viewer != "" {
		c, err := s.cards.Get(ctx, cardID)
		if err != nil {
			s.report(ctx, OpGetCard, cardID, err)
		}
		local = c
		if ownsCurrent(local, viewer) {
			if !local.IsActive {
				return nil, nil
			}
			return local, nil
		}
	}

	remote, err := s.fetchCard(ctx, gen, cardID, viewer)
	if err == nil {
		return remote, nil
	}
	s.report(ctx, OpGetCard, cardID, err)

	if local == nil {
		return nil, nil
	}
	s.migrate(ctx, local)
	if !ownsCurrent(local, viewer) || !local.IsActive {
		return nil, nil
	}
	return local, nil
}

func (s *syncEngine) fetchCard(ctx context.Context, gen uint64, cardID, viewer string) (*models.Card, error) {
	v, err, _ := s.flight.Do(flightKey(gen, "card", cardID, viewer), func() (any, error) {
		c, err := s.remote.GetCard(ctx, cardID, viewer)
		if err != nil || c == nil {
			return c, err
		}
		err = s.commit(gen, func() error {
			_, err := s.cards.Refresh(ctx, c)
			return err
		})
		if err != nil && !errors.Is(err, errStale) {
			s.report(ctx, OpGetCard, cardID, err)
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	c := v.(*models.Card)
	if c == nil || !c.VisibleTo(viewer) {
		return nil, nil
	}
	return c.Clone(), nil
}

// SaveCard writes a new card locally and sends it in the background.
func (s *syncEngine) SaveCard(ctx context.Context, identity string, card *models.Card) error {
	if identity == "" {
		return common.ErrNoIdentity
	}
	if err := card.Validate(); err != nil {
		return err
	}
	if !card.OwnedBy(identity) {
		return common.ErrNotOwner
	}
	c := card.Clone()
	c.SchemaVersion = models.CurrentSchemaVersion

	rev, err := s.cards.Put(ctx, c)
	if err != nil {
		s.report(ctx, OpSaveCard, c.ID, err)
	}

	s.background(OpSaveCard, c.ID, func(ctx context.Context, gen uint64) error {
		if err := s.remote.SaveCard(ctx, c); err != nil {
			return err
		}
		if rev == 0 {
			return nil
		}
		return s.commit(gen, func() error {
			return s.cards.MarkSynced(ctx, c.ID, rev)
		})
	})
	return nil
}

// checkOwner rejects a mutation of a cached card owned by someone else.
// An uncached card is left to the remote store to judge.
func (s *syncEngine) checkOwner(ctx context.Context, op Op, identity, cardID string) error {
	if identity == "" {
		return common.ErrNoIdentity
	}
	c, err := s.cards.Get(ctx, cardID)
	if err != nil {
		s.report(ctx, op, cardID, err)
		return nil
	}
	if c != nil && !c.OwnedBy(identity) {
		return common.ErrNotOwner
	}
	return nil
}

// DeleteCard soft-deletes the card locally and waits for the remote store.
// A remote failure is returned; RestoreCard undoes the local half.
func (s *syncEngine) DeleteCard(ctx context.Context, identity, cardID string) error {
	if err := s.checkOwner(ctx, OpDeleteCard, identity, cardID); err != nil {
		return err
	}

	ch, err := s.cards.Deactivate(ctx, cardID)
	if err != nil {
		s.report(ctx, OpDeleteCard, cardID, err)
	}

	if err := s.remote.DeleteCard(ctx, identity, cardID); err != nil {
		s.remember(cardID, ch)
		return fmt.Errorf("delete card %s: %w", cardID, err)
	}
	s.markCardSynced(ctx, OpDeleteCard, cardID, ch)
	return nil
}

// ToggleCardVisibility changes is_public locally, then waits for the remote
// store. The local change is not rolled back on failure; see
// RevertCardVisibility.
func (s *syncEngine) ToggleCardVisibility(ctx context.Context, identity, cardID string, public bool) error {
	if err := s.checkOwner(ctx, OpVisibility, identity, cardID); err != nil {
		return err
	}

	ch, err := s.cards.SetVisibility(ctx, cardID, public)
	if err != nil {
		s.report(ctx, OpVisibility, cardID, err)
	}

	if err := s.remote.SetCardVisibility(ctx, identity, cardID, public); err != nil {
		s.remember(cardID, ch)
		return fmt.Errorf("set visibility of card %s: %w", cardID, err)
	}
	s.markCardSynced(ctx, OpVisibility, cardID, ch)
	return nil
}

// markCardSynced confirms an edit the remote store accepted. A row that
// already carried an unconfirmed write stays pending for FlushPending.
func (s *syncEngine) markCardSynced(ctx context.Context, op Op, cardID string, ch cards.Change) {
	if ch.Revision == 0 || ch.Previous != 0 {
		return
	}
	if err := s.cards.MarkSynced(ctx, cardID, ch.Revision); err != nil {
		s.report(ctx, op, cardID, err)
	}
}

// remember records the pending state a failed mutation replaced. A failure
// stacked on an earlier unsettled one keeps the older state.
func (s *syncEngine) remember(cardID string, ch cards.Change) {
	if ch.Revision == 0 {
		return
	}
	s.undoMu.Lock()
	defer s.undoMu.Unlock()
	if u, ok := s.undo[cardID]; ok && u.revision == ch.Previous {
		s.undo[cardID] = undoEntry{revision: ch.Revision, previous: u.previous}
		return
	}
	s.undo[cardID] = undoEntry{revision: ch.Revision, previous: ch.Previous}
}

// settle finishes a compensating write of revision rev. The row is confirmed
// only if it was confirmed before the failed mutation; otherwise, or when
// that is unknown, it stays pending and FlushPending resends it.
func (s *syncEngine) settle(ctx context.Context, cardID string, rev int64) error {
	s.undoMu.Lock()
	u, ok := s.undo[cardID]
	delete(s.undo, cardID)
	s.undoMu.Unlock()

	if !ok || u.previous != 0 {
		return nil
	}
	return s.cards.MarkSynced(ctx, cardID, rev)
}

// RevertCardVisibility restores the cached is_public flag after a failed
// ToggleCardVisibility. It does not call the remote store.
func (s *syncEngine) RevertCardVisibility(ctx context.Context, identity, cardID string, previous bool) error {
	if err := s.checkOwner(ctx, OpVisibility, identity, cardID); err != nil {
		return err
	}
	ch, err := s.cards.SetVisibility(ctx, cardID, previous)
	if err != nil {
		return err
	}
	if ch.Revision == 0 {
		return fmt.Errorf("card %s: %w", cardID, common.ErrNotFound)
	}
	return s.settle(ctx, cardID, ch.Revision)
}

// RestoreCard puts back the cached copy of a card after a failed DeleteCard.
// It does not call the remote store.
func (s *syncEngine) RestoreCard(ctx context.Context, identity string, card *models.Card) error {
	if identity == "" {
		return common.ErrNoIdentity
	}
	if err := card.Validate(); err != nil {
		return err
	}
	if !card.OwnedBy(identity) {
		return common.ErrNotOwner
	}
	c := card.Clone()
	c.SchemaVersion = models.CurrentSchemaVersion

	rev, err := s.cards.Put(ctx, c)
	if err != nil {
		return err
	}
	return s.settle(ctx, c.ID, rev)
}
