package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/herocards/internal/client/models"
)

var errUsage = errors.New("usage")

func (a *App) commands() map[string]command {
	return map[string]command{
		"profile":   {usage: "show your profile", run: a.Profile},
		"onboard":   {usage: "create or replace your profile", run: a.Onboard},
		"cards":     {usage: "list your cards", run: a.Cards},
		"newcard":   {usage: "create a card", run: a.NewCard},
		"show":      {usage: "show <card-id>", run: a.Show},
		"delete":    {usage: "delete <card-id>", run: a.Delete},
		"publish":   {usage: "publish <card-id>", run: a.visibility(true)},
		"unpublish": {usage: "unpublish <card-id>", run: a.visibility(false)},
		"collect":   {usage: "collect <card-id>: save someone's public card", run: a.Collect},
		"uncollect": {usage: "uncollect <card-id>", run: a.Uncollect},
		"saved":     {usage: "list cards in your collection", run: a.Saved},
		"stats":     {usage: "show your statistics", run: a.Stats},
		"sync":      {usage: "send unsynced local changes now", run: a.Sync},
		"logout":    {usage: "sign out and wipe the local cache", run: a.Logout},
	}
}

func cardArg(args []string, name string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: %s <card-id>", errUsage, name)
	}
	return args[0], nil
}

// readImage asks for an image and returns its reference. URLs are kept as
// they are; a file path is uploaded when an uploader is configured.
func (a *App) readImage(ctx context.Context, prompt string) (string, error) {
	in, err := GetSimpleText(a.reader, prompt+" (file path or URL, empty for none)", a.out)
	if err != nil || in == "" {
		return "", err
	}
	if strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://") {
		return in, nil
	}
	if a.uploader == nil {
		return "", errors.New("image upload is not configured, give a URL instead")
	}

	body, err := os.ReadFile(in)
	if err != nil {
		return "", err
	}
	ref, err := a.uploader.Upload(ctx, http.DetectContentType(body), body)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return ref, nil
}

func (a *App) printCards(cards []*models.Card, empty string) {
	if len(cards) == 0 {
		fmt.Fprintln(a.out, empty)
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTHEME\tSIDE\tVISIBILITY\tSAVES\tCREATED")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			c.ID, c.DisplayName, c.Theme, c.Alignment, visibilityLabel(c.IsPublic), c.SaveCount,
			c.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func visibilityLabel(public bool) string {
	if public {
		return "public"
	}
	return "private"
}
