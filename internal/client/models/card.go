package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/herocards/internal/common"
	"github.com/google/uuid"
)

// Theme is the visual theme of a card.
type Theme string

const (
	ThemeCosmic    Theme = "cosmic"
	ThemeCyber     Theme = "cyber"
	ThemeElemental Theme = "elemental"
	ThemeMystic    Theme = "mystic"
	ThemeNature    Theme = "nature"
	ThemeOcean     Theme = "ocean"
	ThemeInferno   Theme = "inferno"
	ThemeShadow    Theme = "shadow"
	ThemeSteel     Theme = "steel"
	ThemeStorm     Theme = "storm"
	ThemeFrost     Theme = "frost"
	ThemeDesert    Theme = "desert"
)

// Themes lists every valid theme.
var Themes = []Theme{
	ThemeCosmic, ThemeCyber, ThemeElemental, ThemeMystic, ThemeNature, ThemeOcean,
	ThemeInferno, ThemeShadow, ThemeSteel, ThemeStorm, ThemeFrost, ThemeDesert,
}

func (t Theme) Valid() bool {
	for _, v := range Themes {
		if v == t {
			return true
		}
	}
	return false
}

// Alignment says which side a card is on.
type Alignment string

const (
	AlignmentHero    Alignment = "hero"
	AlignmentVillain Alignment = "villain"
)

func (a Alignment) Valid() bool {
	return a == AlignmentHero || a == AlignmentVillain
}

// Card is a generated trading card. Only IsPublic and IsActive change after
// creation (by the owner); SaveCount is maintained by the remote side.
type Card struct {
	ID             string    `json:"id"`
	OwnerIdentity  string    `json:"owner_identity"`
	CreatedAt      time.Time `json:"created_at"`
	ImageReference string    `json:"image_reference"`
	Theme          Theme     `json:"theme"`
	Alignment      Alignment `json:"alignment"`
	DisplayName    string    `json:"display_name"`
	IsPublic       bool      `json:"is_public"`
	IsActive       bool      `json:"is_active"`
	SaveCount      int64     `json:"save_count"`

	SchemaVersion int `json:"-"`
}

// NewCard builds a fresh private, active card. The id is a UUIDv7, so it is
// ordered by creation time.
func NewCard(owner, displayName, imageRef string, theme Theme, alignment Alignment, now time.Time) (*Card, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("card id: %w", err)
	}
	c := &Card{
		ID:             id.String(),
		OwnerIdentity:  owner,
		CreatedAt:      now.UTC(),
		ImageReference: imageRef,
		Theme:          theme,
		Alignment:      alignment,
		DisplayName:    displayName,
		IsActive:       true,
		SchemaVersion:  CurrentSchemaVersion,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the fields a card must carry before it is stored.
func (c *Card) Validate() error {
	switch {
	case c == nil:
		return fmt.Errorf("%w: nil card", common.ErrInvalidRecord)
	case c.ID == "":
		return fmt.Errorf("%w: card id is required", common.ErrInvalidRecord)
	case c.OwnerIdentity == "":
		return common.ErrNoIdentity
	case !c.Theme.Valid():
		return fmt.Errorf("%w: unknown theme %q", common.ErrInvalidRecord, c.Theme)
	case !c.Alignment.Valid():
		return fmt.Errorf("%w: unknown alignment %q", common.ErrInvalidRecord, c.Alignment)
	case c.SaveCount < 0:
		return fmt.Errorf("%w: negative save count", common.ErrInvalidRecord)
	}
	return nil
}

// OwnedBy reports whether identity owns the card.
func (c *Card) OwnedBy(identity string) bool {
	return c != nil && identity != "" && c.OwnerIdentity == identity
}

// VisibleTo applies the visibility rule: a soft-deleted card is visible to
// nobody, a private one only to its owner.
func (c *Card) VisibleTo(viewer string) bool {
	if c == nil || !c.IsActive {
		return false
	}
	return c.IsPublic || c.OwnedBy(viewer)
}

// Legacy reports whether the record predates the current schema.
func (c *Card) Legacy() bool {
	return c.SchemaVersion < CurrentSchemaVersion
}

// Migrate upgrades a legacy record in place and reports whether anything
// changed. IsActive is kept: the store already reads a missing flag as
// active, and a legacy row deactivated since then stays deleted.
func (c *Card) Migrate() bool {
	if !c.Legacy() {
		return false
	}
	c.SchemaVersion = CurrentSchemaVersion
	return true
}

// Clone returns a copy safe to mutate.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
