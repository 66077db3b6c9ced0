package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/herocards/internal/client/models"
)

// Profile prints the signed-in user's profile.
func (a *App) Profile(ctx context.Context, args []string) error {
	id, err := a.identity()
	if err != nil {
		return err
	}
	u, err := a.engine.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		fmt.Fprintln(a.out, "No profile yet. Run 'onboard' to create one.")
		return nil
	}

	fmt.Fprintf(a.out, "Name:      %s\n", u.DisplayName)
	if u.PortraitReference != "" {
		fmt.Fprintf(a.out, "Portrait:  %s\n", u.PortraitReference)
	}
	if len(u.Strengths) > 0 {
		fmt.Fprintf(a.out, "Strengths: %s\n", strings.Join(u.Strengths, ", "))
	}
	if u.Story != "" {
		fmt.Fprintf(a.out, "Story:\n%s\n", u.Story)
	}
	return nil
}

// Onboard collects the profile fields and saves them. It works offline; the
// profile is sent once the remote store is reachable.
func (a *App) Onboard(ctx context.Context, args []string) error {
	id, err := a.identity()
	if err != nil {
		return err
	}

	name, err := GetSimpleText(a.reader, "Display name", a.out)
	if err != nil {
		return err
	}
	portrait, err := a.readImage(ctx, "Portrait")
	if err != nil {
		return err
	}
	strengths, err := GetList(a.reader, "Strengths", models.MaxStrengths, a.out)
	if err != nil {
		return err
	}
	story, err := GetMultiline(a.reader, "Origin story", a.out)
	if err != nil {
		return err
	}

	u := &models.User{
		Identity:          id,
		DisplayName:       name,
		PortraitReference: portrait,
		Strengths:         strengths,
		Story:             story,
	}
	if err := a.engine.SaveUser(ctx, u); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile saved.")
	return nil
}
