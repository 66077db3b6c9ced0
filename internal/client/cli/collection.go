package cli

import (
	"context"
	"fmt"
)

func (a *App) Collect(ctx context.Context, args []string) error {
	cardID, err := cardArg(args, "collect")
	if err != nil {
		return err
	}
	id, err := a.identity()
	if err != nil {
		return err
	}
	if err := a.engine.SaveCardToCollection(ctx, id, cardID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Card added to your collection.")
	return nil
}

func (a *App) Uncollect(ctx context.Context, args []string) error {
	cardID, err := cardArg(args, "uncollect")
	if err != nil {
		return err
	}
	id, err := a.identity()
	if err != nil {
		return err
	}
	if err := a.engine.RemoveCardFromCollection(ctx, id, cardID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Card removed from your collection.")
	return nil
}

// Saved lists the collection. It is only available online; offline it reads
// as empty.
func (a *App) Saved(ctx context.Context, args []string) error {
	id, err := a.identity()
	if err != nil {
		return err
	}
	a.printCards(a.engine.GetSavedCards(ctx, id), "Your collection is empty.")
	return nil
}

func (a *App) Stats(ctx context.Context, args []string) error {
	id, err := a.identity()
	if err != nil {
		return err
	}
	st, err := a.engine.GetStats(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "cards:        %d (%d public)\n", st.TotalCards, st.PublicCards)
	fmt.Fprintf(a.out, "heroes:       %d\n", st.Heroes)
	fmt.Fprintf(a.out, "villains:     %d\n", st.Villains)
	fmt.Fprintf(a.out, "times saved:  %d\n", st.TotalSaves)
	fmt.Fprintf(a.out, "collected:    %d\n", st.SavedByMe)
	return nil
}

// Sync sends every unsynced local change now instead of waiting for the
// connectivity watcher.
func (a *App) Sync(ctx context.Context, args []string) error {
	if _, err := a.identity(); err != nil {
		return err
	}
	if err := a.engine.FlushPending(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "All local changes are synced.")
	return nil
}

// Logout wipes the local cache and ends the REPL.
func (a *App) Logout(ctx context.Context, args []string) error {
	if err := a.guard.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return errExit
}
