package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/herocards/internal/client/models"
	"github.com/dmitrijs2005/herocards/internal/common"
)

func flightKey(gen uint64, kind string, parts ...string) string {
	key := fmt.Sprintf("%d/%s", gen, kind)
	for _, p := range parts {
		key += "/" + p
	}
	return key
}

// GetUser serves the cached profile and refreshes it in the background. On a
// cache miss it asks the remote store; a remote failure then reads as absent.
func (s *syncEngine) GetUser(ctx context.Context, identity string) (*models.User, error) {
	if identity == "" {
		return nil, common.ErrNoIdentity
	}
	gen := s.generation()

	local, err := s.profiles.Get(ctx, identity)
	if err != nil {
		s.report(ctx, OpGetUser, identity, err)
		local = nil
	}
	if local != nil {
		s.background(OpRefreshUser, identity, func(ctx context.Context, gen uint64) error {
			_, err := s.fetchUser(ctx, gen, identity)
			return err
		})
		return local, nil
	}

	u, err := s.fetchUser(ctx, gen, identity)
	if err != nil {
		s.report(ctx, OpGetUser, identity, err)
		return nil, nil
	}
	return u, nil
}

// fetchUser loads the remote profile and stores it unless a local edit is
// pending. A cache write failure is reported, not returned.
func (s *syncEngine) fetchUser(ctx context.Context, gen uint64, identity string) (*models.User, error) {
	v, err, _ := s.flight.Do(flightKey(gen, "user", identity), func() (any, error) {
		u, err := s.remote.GetUser(ctx, identity)
		if err != nil || u == nil {
			return u, err
		}
		err = s.commit(gen, func() error {
			changed, err := s.profiles.Refresh(ctx, u)
			if changed {
				s.log.Debug(ctx, "profile refreshed", "identity", identity)
			}
			return err
		})
		if err != nil && !errors.Is(err, errStale) {
			s.report(ctx, OpRefreshUser, identity, err)
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.User), nil
}

// SaveUser writes the profile locally and sends it in the background.
// Only an invalid profile is an error.
func (s *syncEngine) SaveUser(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	u := *user
	u.Strengths = append([]string(nil), user.Strengths...)
	u.SchemaVersion = models.CurrentSchemaVersion

	rev, err := s.profiles.Put(ctx, &u)
	if err != nil {
		s.report(ctx, OpSaveUser, u.Identity, err)
	}

	s.background(OpSaveUser, u.Identity, func(ctx context.Context, gen uint64) error {
		if err := s.remote.SaveUser(ctx, &u); err != nil {
			return err
		}
		if rev == 0 {
			return nil
		}
		return s.commit(gen, func() error {
			return s.profiles.MarkSynced(ctx, u.Identity, rev)
		})
	})
	return nil
}
