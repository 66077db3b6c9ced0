package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/herocards/internal/client/models"
)

func (a *App) Cards(ctx context.Context, args []string) error {
	id, err := a.identity()
	if err != nil {
		return err
	}
	cards, err := a.engine.GetCards(ctx, id)
	if err != nil {
		return err
	}
	a.printCards(cards, "You have no cards yet. Run 'newcard' to create one.")
	return nil
}

func themeNames() []string {
	out := make([]string, len(models.Themes))
	for i, t := range models.Themes {
		out[i] = string(t)
	}
	return out
}

// NewCard prompts for the card fields and saves a new private card.
func (a *App) NewCard(ctx context.Context, args []string) error {
	id, err := a.identity()
	if err != nil {
		return err
	}

	name, err := GetSimpleText(a.reader, "Card name", a.out)
	if err != nil {
		return err
	}
	theme, err := GetChoice(a.reader, "Theme", themeNames(), string(models.ThemeCosmic), a.out)
	if err != nil {
		return err
	}
	side, err := GetChoice(a.reader, "Side", []string{string(models.AlignmentHero), string(models.AlignmentVillain)}, string(models.AlignmentHero), a.out)
	if err != nil {
		return err
	}
	image, err := a.readImage(ctx, "Card image")
	if err != nil {
		return err
	}

	card, err := models.NewCard(id, name, image, models.Theme(theme), models.Alignment(side), a.now())
	if err != nil {
		return err
	}
	if err := a.engine.SaveCard(ctx, id, card); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created card %s (private; 'publish %s' to share it)\n", card.ID, card.ID)
	return nil
}

// Show prints one card as the signed-in user sees it.
func (a *App) Show(ctx context.Context, args []string) error {
	cardID, err := cardArg(args, "show")
	if err != nil {
		return err
	}
	viewer, _ := a.identity()

	c, err := a.engine.GetCardByID(ctx, cardID, viewer)
	if err != nil {
		return err
	}
	if c == nil {
		fmt.Fprintln(a.out, "Card not found.")
		return nil
	}

	fmt.Fprintf(a.out, "%s  [%s %s]\n", c.DisplayName, c.Theme, c.Alignment)
	fmt.Fprintf(a.out, "id:       %s\n", c.ID)
	fmt.Fprintf(a.out, "created:  %s\n", c.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.out, "status:   %s, saved %d times\n", visibilityLabel(c.IsPublic), c.SaveCount)
	if c.ImageReference != "" {
		fmt.Fprintf(a.out, "image:    %s\n", c.ImageReference)
	}
	if viewer != "" && !c.OwnedBy(viewer) {
		saved := "no"
		if a.engine.CheckCardSaved(ctx, viewer, c.ID) {
			saved = "yes"
		}
		fmt.Fprintf(a.out, "in your collection: %s\n", saved)
	}
	return nil
}

// ownCard loads a card the signed-in user owns.
func (a *App) ownCard(ctx context.Context, cardID string) (string, *models.Card, error) {
	id, err := a.identity()
	if err != nil {
		return "", nil, err
	}
	c, err := a.engine.GetCardByID(ctx, cardID, id)
	if err != nil {
		return "", nil, err
	}
	if c == nil || !c.OwnedBy(id) {
		return "", nil, fmt.Errorf("card %s not found among your cards", cardID)
	}
	return id, c, nil
}

// Delete soft-deletes a card. When the remote store refuses, the cached copy
// is put back.
func (a *App) Delete(ctx context.Context, args []string) error {
	cardID, err := cardArg(args, "delete")
	if err != nil {
		return err
	}
	id, card, err := a.ownCard(ctx, cardID)
	if err != nil {
		return err
	}

	if err := a.engine.DeleteCard(ctx, id, cardID); err != nil {
		if rerr := a.engine.RestoreCard(ctx, id, card); rerr != nil {
			a.log.Error(ctx, "restore card after failed delete", "card_id", cardID, "error", rerr)
		}
		return err
	}
	fmt.Fprintln(a.out, "Card deleted.")
	return nil
}

// visibility returns the publish / unpublish handler. A remote failure
// reverts the cached flag.
func (a *App) visibility(public bool) func(ctx context.Context, args []string) error {
	name := "unpublish"
	if public {
		name = "publish"
	}
	return func(ctx context.Context, args []string) error {
		cardID, err := cardArg(args, name)
		if err != nil {
			return err
		}
		id, card, err := a.ownCard(ctx, cardID)
		if err != nil {
			return err
		}
		if card.IsPublic == public {
			fmt.Fprintf(a.out, "Card is already %s.\n", visibilityLabel(public))
			return nil
		}

		if err := a.engine.ToggleCardVisibility(ctx, id, cardID, public); err != nil {
			if rerr := a.engine.RevertCardVisibility(ctx, id, cardID, card.IsPublic); rerr != nil {
				a.log.Error(ctx, "revert card visibility", "card_id", cardID, "error", rerr)
			}
			return err
		}
		fmt.Fprintf(a.out, "Card is now %s.\n", visibilityLabel(public))
		return nil
	}
}
