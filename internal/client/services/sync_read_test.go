package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/herocards/internal/client/models"
	"github.com/dmitrijs2005/herocards/internal/common"
	"github.com/dmitrijs2005/herocards/internal/rpc"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestGetUser_RequiresIdentity(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.GetUser(context.Background(), "")
	require.ErrorIs(t, err, common.ErrNoIdentity)
}

func TestGetUser_OnboardingScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u, err := h.engine.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, u, "new identity has no profile")

	release := h.srv.Hold(rpc.MethodSaveUser)
	defer release()

	ada := &models.User{Identity: "u1", DisplayName: "Ada", Strengths: []string{"wit"}}
	require.NoError(t, h.engine.SaveUser(ctx, ada))

	got, err := h.engine.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ada.Equal(got), "served before the remote store confirms")
	require.Nil(t, h.srv.User("u1"))

	release()
	h.engine.Wait()

	require.NotNil(t, h.srv.User("u1"))
	pending, err := h.repos.Profiles.GetAllPending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestGetUser_ColdPathStoresRemoteCopy(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.srv.PutUser(&rpc.User{Identity: "u1", DisplayName: "Ada"})

	got, err := h.engine.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Ada", got.DisplayName)

	local, err := h.repos.Profiles.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, local)
}

func TestGetUser_ColdPathRemoteFailureReadsAsAbsent(t *testing.T) {
	h := newHarness(t)
	h.srv.PutUser(&rpc.User{Identity: "u1", DisplayName: "Ada"})
	h.srv.SetDown(true)

	got, err := h.engine.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Nil(t, got)
	require.True(t, hasEvent(h.drain(), OpGetUser), "the outage is observable")
}

func TestGetUser_BackgroundRefreshReplacesCachedCopy(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.repos.Profiles.Refresh(ctx, &models.User{Identity: "u1", DisplayName: "Ada"})
	require.NoError(t, err)
	h.srv.PutUser(&rpc.User{Identity: "u1", DisplayName: "Countess Ada", Strengths: []string{"math"}})

	got, err := h.engine.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Ada", got.DisplayName, "cache answers first")

	h.engine.Wait()

	got, err = h.engine.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Countess Ada", got.DisplayName)
	require.Equal(t, []string{"math"}, got.Strengths)
}

func TestGetUser_RefreshKeepsPendingEdit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.srv.Fail(rpc.MethodSaveUser, codes.Unavailable)
	h.srv.PutUser(&rpc.User{Identity: "u1", DisplayName: "Old"})

	require.NoError(t, h.engine.SaveUser(ctx, &models.User{Identity: "u1", DisplayName: "New"}))
	h.engine.Wait()
	require.True(t, hasEvent(h.drain(), OpSaveUser))

	_, err := h.engine.GetUser(ctx, "u1")
	require.NoError(t, err)
	h.engine.Wait()

	got, err := h.engine.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "New", got.DisplayName)
}

func TestGetCards_ReturnsOwnActiveCardsAndReconciles(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	kept := newCard(t, "A", true)
	goneRemotely := newCard(t, "A", false)
	foreign := newCard(t, "B", true)
	h.seedBoth(t, kept)
	h.seedBoth(t, foreign)
	_, err := h.repos.Cards.Refresh(ctx, goneRemotely)
	require.NoError(t, err)

	fresh := newCard(t, "A", false)
	h.srv.PutCard(wireCard(fresh))

	got, err := h.engine.GetCards(ctx, "A")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{kept.ID, goneRemotely.ID}, ids(got))

	h.engine.Wait()

	got, err = h.engine.GetCards(ctx, "A")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{kept.ID, fresh.ID}, ids(got))
	require.False(t, h.localCard(t, goneRemotely.ID).IsActive)
}

func TestGetCards_KeepsUnsyncedLocalCard(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.srv.Fail(rpc.MethodSaveCard, codes.Unavailable)

	c := newCard(t, "A", false)
	require.NoError(t, h.engine.SaveCard(ctx, "A", c))
	h.engine.Wait()

	_, err := h.engine.GetCards(ctx, "A")
	require.NoError(t, err)
	h.engine.Wait()

	got, err := h.engine.GetCards(ctx, "A")
	require.NoError(t, err)
	require.Equal(t, []string{c.ID}, ids(got))
}

func TestGetCards_MigratesLegacyRows(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c := newCard(t, "A", true)
	h.insertLegacy(t, c)
	h.srv.PutCard(wireCard(c))

	got, err := h.engine.GetCards(ctx, "A")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].IsActive)
	require.Equal(t, models.CurrentSchemaVersion, got[0].SchemaVersion)

	h.engine.Wait()
	require.False(t, h.localCard(t, c.ID).Legacy())
}

func TestGetCardByID_OwnerFastPathSkipsRemote(t *testing.T) {
	h := newHarness(t)
	c := newCard(t, "A", false)
	h.seedBoth(t, c)
	h.srv.ResetCalls()

	got, err := h.engine.GetCardByID(context.Background(), c.ID, "A")
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(c, got))
	require.Zero(t, h.srv.Calls(rpc.MethodGetCard))
}

func TestGetCardByID_NonOwnerAlwaysAsksRemote(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c := newCard(t, "A", true)
	h.seedBoth(t, c)

	private := c.Clone()
	private.IsPublic = false
	h.srv.PutCard(wireCard(private))
	h.srv.ResetCalls()

	got, err := h.engine.GetCardByID(ctx, c.ID, "B")
	require.NoError(t, err)
	require.Nil(t, got, "a card made private remotely is not served from a stale cache")
	require.Equal(t, 1, h.srv.Calls(rpc.MethodGetCard))

	got, err = h.engine.GetCardByID(ctx, c.ID, "")
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, 2, h.srv.Calls(rpc.MethodGetCard))
}

func TestGetCardByID_RemoteCopyIsCached(t *testing.T) {
	h := newHarness(t)
	c := newCard(t, "A", true)
	c.SaveCount = 9
	h.srv.PutCard(wireCard(c))

	got, err := h.engine.GetCardByID(context.Background(), c.ID, "B")
	require.NoError(t, err)
	require.EqualValues(t, 9, got.SaveCount)
	require.NotNil(t, h.localCard(t, c.ID))
}

func TestGetCardByID_InactiveIsAbsentForEveryone(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c := newCard(t, "A", true)
	c.IsActive = false
	h.seedBoth(t, c)

	for _, viewer := range []string{"A", "B", ""} {
		got, err := h.engine.GetCardByID(ctx, c.ID, viewer)
		require.NoError(t, err)
		assert.Nil(t, got, "viewer %q", viewer)
	}
}

func TestGetCardByID_LegacyCopyIsNotTrusted(t *testing.T) {
	h := newHarness(t)
	c := newCard(t, "A", false)
	h.insertLegacy(t, c)
	h.srv.PutCard(wireCard(c))

	got, err := h.engine.GetCardByID(context.Background(), c.ID, "A")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 1, h.srv.Calls(rpc.MethodGetCard))
	require.False(t, h.localCard(t, c.ID).Legacy(), "the remote copy replaced the legacy row")
}

func TestGetCardByID_RemoteFailureFallsBackForOwnerOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c := newCard(t, "A", true)
	h.insertLegacy(t, c)
	h.srv.SetDown(true)

	got, err := h.engine.GetCardByID(ctx, c.ID, "B")
	require.NoError(t, err)
	require.Nil(t, got, "non-owner never degrades to the cache")

	got, err = h.engine.GetCardByID(ctx, c.ID, "A")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.IsActive)

	got, err = h.engine.GetCardByID(ctx, c.ID, "")
	require.NoError(t, err)
	require.Nil(t, got)

	require.True(t, hasEvent(h.drain(), OpGetCard))
}

func TestGetCardByID_RemoteFailureKeepsDeactivatedLegacyRowHidden(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c := newCard(t, "A", true)
	h.insertLegacy(t, c)
	_, err := h.db.Exec(`UPDATE cards SET is_active = 0 WHERE id = ?`, c.ID)
	require.NoError(t, err)
	h.srv.SetDown(true)

	got, err := h.engine.GetCardByID(ctx, c.ID, "A")
	require.NoError(t, err)
	require.Nil(t, got)

	cards, err := h.engine.GetCards(ctx, "A")
	require.NoError(t, err)
	require.Empty(t, cards)
}

func TestCheckCardSavedAndGetSavedCards_FailClosed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c := newCard(t, "A", true)
	h.srv.PutCard(wireCard(c))
	require.NoError(t, h.engine.SaveCardToCollection(ctx, "B", c.ID))
	require.True(t, h.engine.CheckCardSaved(ctx, "B", c.ID))
	require.Len(t, h.engine.GetSavedCards(ctx, "B"), 1)

	h.srv.SetDown(true)
	require.False(t, h.engine.CheckCardSaved(ctx, "B", c.ID))
	saved := h.engine.GetSavedCards(ctx, "B")
	require.NotNil(t, saved)
	require.Empty(t, saved)

	events := h.drain()
	require.True(t, hasEvent(events, OpCheckSaved))
	require.True(t, hasEvent(events, OpGetSaved))
}

func ids(cards []*models.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}
