package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/herocards/internal/client/client"
	"github.com/dmitrijs2005/herocards/internal/client/models"
	"github.com/dmitrijs2005/herocards/internal/common"
)

// CheckCardSaved asks the remote store; any failure reads as false.
func (s *syncEngine) CheckCardSaved(ctx context.Context, identity, cardID string) bool {
	if identity == "" || cardID == "" {
		return false
	}
	saved, err := s.remote.IsCardSaved(ctx, identity, cardID)
	if err != nil {
		s.report(ctx, OpCheckSaved, cardID, err)
		return false
	}
	return saved
}

// GetSavedCards asks the remote store; any failure reads as an empty list.
func (s *syncEngine) GetSavedCards(ctx context.Context, identity string) []*models.Card {
	if identity == "" {
		return []*models.Card{}
	}
	list, err := s.remote.GetSavedCards(ctx, identity)
	if err != nil {
		s.report(ctx, OpGetSaved, identity, err)
		return []*models.Card{}
	}
	if list == nil {
		list = []*models.Card{}
	}
	return list
}

func (s *syncEngine) SaveCardToCollection(ctx context.Context, identity, cardID string) error {
	if identity == "" {
		return common.ErrNoIdentity
	}
	if err := s.remote.SaveToCollection(ctx, identity, cardID); err != nil {
		return fmt.Errorf("save card %s to collection: %w", cardID, err)
	}
	return nil
}

func (s *syncEngine) RemoveCardFromCollection(ctx context.Context, identity, cardID string) error {
	if identity == "" {
		return common.ErrNoIdentity
	}
	if err := s.remote.RemoveFromCollection(ctx, identity, cardID); err != nil {
		return fmt.Errorf("remove card %s from collection: %w", cardID, err)
	}
	return nil
}

func (s *syncEngine) GetStats(ctx context.Context, identity string) (*models.Stats, error) {
	if identity == "" {
		return nil, common.ErrNoIdentity
	}
	st, err := s.remote.GetStats(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return st, nil
}

// FlushPending re-sends every unconfirmed local write: profiles, then cards.
// A soft-deleted card is re-sent as a delete. It stops at the first
// unavailable error and otherwise returns every failure joined.
func (s *syncEngine) FlushPending(ctx context.Context) error {
	gen := s.generation()
	var errs []error

	users, err := s.profiles.GetAllPending(ctx)
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	for _, p := range users {
		err := s.remote.SaveUser(ctx, p.User)
		if err == nil {
			err = s.commit(gen, func() error { return s.profiles.MarkSynced(ctx, p.User.Identity, p.Revision) })
		}
		if err != nil {
			if errors.Is(err, errStale) {
				return nil
			}
			s.report(ctx, OpFlush, p.User.Identity, err)
			if errors.Is(err, client.ErrUnavailable) {
				return fmt.Errorf("flush: %w", err)
			}
			errs = append(errs, err)
		}
	}

	pending, err := s.cards.GetAllPending(ctx)
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	flushed := 0
	for _, p := range pending {
		c := p.Card
		if c.IsActive {
			err = s.remote.SaveCard(ctx, c)
		} else {
			err = s.remote.DeleteCard(ctx, c.OwnerIdentity, c.ID)
		}
		if err == nil {
			err = s.commit(gen, func() error { return s.cards.MarkSynced(ctx, c.ID, p.Revision) })
		}
		if err != nil {
			if errors.Is(err, errStale) {
				return nil
			}
			s.report(ctx, OpFlush, c.ID, err)
			if errors.Is(err, client.ErrUnavailable) {
				return fmt.Errorf("flush: %w", err)
			}
			errs = append(errs, err)
			continue
		}
		flushed++
	}

	if len(users)+len(pending) > 0 {
		s.log.Info(ctx, "pending writes flushed", "profiles", len(users), "cards", flushed, "failed", len(errs))
	}
	return errors.Join(errs...)
}
