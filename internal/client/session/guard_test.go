package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/herocards/internal/client/client"
	"github.com/dmitrijs2005/herocards/internal/client/models"
	"github.com/dmitrijs2005/herocards/internal/client/services"
	"github.com/dmitrijs2005/herocards/internal/common"
	"github.com/dmitrijs2005/herocards/internal/logging"
	"github.com/dmitrijs2005/herocards/internal/rpc/rpctest"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type fakePurger struct {
	calls int
	err   error
}

func (f *fakePurger) Purge(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestSignIn_FirstIdentityPurges(t *testing.T) {
	p := &fakePurger{}
	g := NewGuard(&MemorySlot{}, p, logging.Nop())

	require.Equal(t, NoSession, g.State())
	require.NoError(t, g.SignIn(context.Background(), "A"))
	require.Equal(t, 1, p.calls, "unknown last identity is treated as a switch")
	require.Equal(t, SessionActive, g.State())
	require.Equal(t, "A", g.Identity())
}

func TestSignIn_SameIdentityKeepsCache(t *testing.T) {
	slot := &MemorySlot{}
	require.NoError(t, slot.Store(Digest("A")))
	p := &fakePurger{}
	g := NewGuard(slot, p, logging.Nop())

	require.NoError(t, g.SignIn(context.Background(), "A"))
	require.Zero(t, p.calls)
}

func TestSignIn_DifferentIdentityPurges(t *testing.T) {
	slot := &MemorySlot{}
	require.NoError(t, slot.Store(Digest("A")))
	p := &fakePurger{}
	g := NewGuard(slot, p, logging.Nop())

	require.NoError(t, g.SignIn(context.Background(), "B"))
	require.Equal(t, 1, p.calls)

	d, err := slot.Load()
	require.NoError(t, err)
	require.Equal(t, Digest("B"), d)
}

func TestSignIn_PurgeFailureKeepsSessionClosed(t *testing.T) {
	slot := &MemorySlot{}
	require.NoError(t, slot.Store(Digest("A")))
	boom := errors.New("disk full")
	g := NewGuard(slot, &fakePurger{err: boom}, logging.Nop())

	require.ErrorIs(t, g.SignIn(context.Background(), "B"), boom)
	require.Equal(t, NoSession, g.State())

	d, err := slot.Load()
	require.NoError(t, err)
	require.Equal(t, Digest("A"), d, "new identity is not recorded")
}

func TestSignIn_RequiresIdentity(t *testing.T) {
	g := NewGuard(&MemorySlot{}, &fakePurger{}, logging.Nop())
	require.ErrorIs(t, g.SignIn(context.Background(), ""), common.ErrNoIdentity)
}

func TestSignOut_PurgesAndClears(t *testing.T) {
	slot := &MemorySlot{}
	p := &fakePurger{}
	g := NewGuard(slot, p, logging.Nop())

	require.NoError(t, g.SignIn(context.Background(), "A"))
	require.NoError(t, g.SignOut(context.Background()))
	require.Equal(t, 2, p.calls)
	require.Equal(t, NoSession, g.State())
	require.Empty(t, g.Identity())

	d, err := slot.Load()
	require.NoError(t, err)
	require.Empty(t, d)
}

func TestIdentitySwitch_IsolatesCachedCards(t *testing.T) {
	ctx := context.Background()
	srv := rpctest.Start(t)

	remote, err := client.NewCardStoreClient(srv.Addr, "test", nil)
	require.NoError(t, err)
	defer remote.Close()

	repos, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer repos.Close()

	engine := services.NewSyncEngine(remote, repos, logging.Nop(), 8)
	defer engine.Close()

	slot := NewFileSlot(t.TempDir(), "test")
	g := NewGuard(slot, engine, logging.Nop())

	require.NoError(t, g.SignIn(ctx, "A"))
	for i := 0; i < 3; i++ {
		c, err := models.NewCard("A", "Ada", "", models.ThemeShadow, models.AlignmentVillain, time.Now())
		require.NoError(t, err)
		require.NoError(t, engine.SaveCard(ctx, "A", c))
	}
	engine.Wait()

	// A reload of the app builds a new guard over the same slot.
	g = NewGuard(slot, engine, logging.Nop())
	require.NoError(t, g.SignIn(ctx, "B"))

	cards, err := engine.GetCards(ctx, "B")
	require.NoError(t, err)
	require.Empty(t, cards)

	all, err := repos.Cards.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all, "nothing of A's session is left in the cache")
}
