package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/herocards/internal/client/client"
	"github.com/dmitrijs2005/herocards/internal/client/migrations"
	"github.com/dmitrijs2005/herocards/internal/client/models"
	"github.com/dmitrijs2005/herocards/internal/logging"
	"github.com/dmitrijs2005/herocards/internal/rpc"
	"github.com/dmitrijs2005/herocards/internal/rpc/rpctest"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type harness struct {
	engine *syncEngine
	repos  *client.Repositories
	db     *sql.DB
	srv    *rpctest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, migrations.Up(ctx, db))

	return newHarnessWithDB(t, db)
}

func newHarnessWithDB(t *testing.T, db *sql.DB) *harness {
	t.Helper()

	srv := rpctest.Start(t)
	remote, err := client.NewCardStoreClient(srv.Addr, "test", nil)
	require.NoError(t, err)

	repos := client.NewRepositories(db)
	e := newSyncEngine(remote, repos.Profiles, repos.Cards, repos, logging.Nop(), 16)

	t.Cleanup(func() {
		e.Close()
		_ = remote.Close()
		_ = db.Close()
	})
	return &harness{engine: e, repos: repos, db: db, srv: srv}
}

var epoch = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newCard(t *testing.T, owner string, public bool) *models.Card {
	t.Helper()
	c, err := models.NewCard(owner, "Ada", "https://img/"+owner, models.ThemeCosmic, models.AlignmentHero, epoch)
	require.NoError(t, err)
	c.IsPublic = public
	return c
}

func wireCard(c *models.Card) *rpc.Card {
	return &rpc.Card{
		Id:             c.ID,
		OwnerIdentity:  c.OwnerIdentity,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339Nano),
		ImageReference: c.ImageReference,
		Theme:          string(c.Theme),
		Alignment:      string(c.Alignment),
		DisplayName:    c.DisplayName,
		IsPublic:       c.IsPublic,
		IsActive:       c.IsActive,
		SaveCount:      c.SaveCount,
	}
}

// seedBoth stores c as a confirmed record locally and remotely.
func (h *harness) seedBoth(t *testing.T, c *models.Card) {
	t.Helper()
	h.srv.PutCard(wireCard(c))
	_, err := h.repos.Cards.Refresh(context.Background(), c)
	require.NoError(t, err)
}

func (h *harness) localCard(t *testing.T, id string) *models.Card {
	t.Helper()
	c, err := h.repos.Cards.Get(context.Background(), id)
	require.NoError(t, err)
	return c
}

func (h *harness) insertLegacy(t *testing.T, c *models.Card) {
	t.Helper()
	_, err := h.db.Exec(`INSERT INTO cards (id, owner_identity, created_at, image_reference, theme, alignment,
		display_name, is_public, is_active, save_count, schema_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, 0, 0)`,
		c.ID, c.OwnerIdentity, c.CreatedAt.Format("2006-01-02T15:04:05.000000000Z07:00"), c.ImageReference,
		string(c.Theme), string(c.Alignment), c.DisplayName, c.IsPublic)
	require.NoError(t, err)
}

// drain returns the events published so far.
func (h *harness) drain() []SyncEvent {
	var out []SyncEvent
	for {
		select {
		case ev := <-h.engine.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func hasEvent(events []SyncEvent, op Op) bool {
	for _, ev := range events {
		if ev.Op == op {
			return true
		}
	}
	return false
}

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)
