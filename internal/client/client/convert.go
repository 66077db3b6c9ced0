package client

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/herocards/internal/client/models"
	"github.com/dmitrijs2005/herocards/internal/common"
	"github.com/dmitrijs2005/herocards/internal/rpc"
)

func toWireUser(u *models.User) *rpc.User {
	return &rpc.User{
		Identity:          u.Identity,
		DisplayName:       u.DisplayName,
		PortraitReference: u.PortraitReference,
		Strengths:         append([]string(nil), u.Strengths...),
		Story:             u.Story,
	}
}

func fromWireUser(u *rpc.User) *models.User {
	return &models.User{
		Identity:          u.Identity,
		DisplayName:       u.DisplayName,
		PortraitReference: u.PortraitReference,
		Strengths:         append([]string(nil), u.Strengths...),
		Story:             u.Story,
		SchemaVersion:     models.CurrentSchemaVersion,
	}
}

func toWireCard(c *models.Card) *rpc.Card {
	return &rpc.Card{
		Id:             c.ID,
		OwnerIdentity:  c.OwnerIdentity,
		CreatedAt:      c.CreatedAt.UTC().Format(time.RFC3339Nano),
		ImageReference: c.ImageReference,
		Theme:          string(c.Theme),
		Alignment:      string(c.Alignment),
		DisplayName:    c.DisplayName,
		IsPublic:       c.IsPublic,
		IsActive:       c.IsActive,
		SaveCount:      c.SaveCount,
	}
}

func fromWireCard(c *rpc.Card) (*models.Card, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: card %s created_at: %w", common.ErrInvalidRecord, c.Id, err)
	}
	return &models.Card{
		ID:             c.Id,
		OwnerIdentity:  c.OwnerIdentity,
		CreatedAt:      createdAt.UTC(),
		ImageReference: c.ImageReference,
		Theme:          models.Theme(c.Theme),
		Alignment:      models.Alignment(c.Alignment),
		DisplayName:    c.DisplayName,
		IsPublic:       c.IsPublic,
		IsActive:       c.IsActive,
		SaveCount:      c.SaveCount,
		SchemaVersion:  models.CurrentSchemaVersion,
	}, nil
}

func fromWireCards(in []*rpc.Card) ([]*models.Card, error) {
	out := make([]*models.Card, 0, len(in))
	for _, c := range in {
		mc, err := fromWireCard(c)
		if err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, nil
}

func fromWireStats(s *rpc.Stats) *models.Stats {
	if s == nil {
		return &models.Stats{}
	}
	return &models.Stats{
		TotalCards:  s.TotalCards,
		PublicCards: s.PublicCards,
		Heroes:      s.Heroes,
		Villains:    s.Villains,
		TotalSaves:  s.TotalSaves,
		SavedByMe:   s.SavedByMe,
	}
}
