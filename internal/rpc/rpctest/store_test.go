package rpctest

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/herocards/internal/rpc"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

func dial(t *testing.T, srv *Server) rpc.CardStoreClient {
	t.Helper()
	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return rpc.NewCardStoreClient(conn)
}

func publicCard(id, owner string) *rpc.Card {
	return &rpc.Card{
		Id: id, OwnerIdentity: owner, CreatedAt: "2026-01-01T00:00:00Z",
		Theme: "storm", Alignment: "hero", DisplayName: "Ada",
		IsPublic: true, IsActive: true,
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	srv := Start(t)
	c := dial(t, srv)
	ctx := context.Background()

	_, err := c.SaveCard(ctx, &rpc.SaveCardRequest{Card: publicCard("c1", "u1")})
	require.NoError(t, err)

	_, err = c.SaveToCollection(ctx, &rpc.CollectionRequest{Identity: "u2", CardId: "c1"})
	require.NoError(t, err)
	require.EqualValues(t, 1, srv.Card("c1").SaveCount)

	_, err = c.SaveToCollection(ctx, &rpc.CollectionRequest{Identity: "u2", CardId: "c1"})
	require.Equal(t, codes.AlreadyExists, status.Code(err))

	saved, err := c.IsCardSaved(ctx, &rpc.CollectionRequest{Identity: "u2", CardId: "c1"})
	require.NoError(t, err)
	require.True(t, saved.Saved)

	for i := 0; i < 2; i++ {
		_, err = c.RemoveFromCollection(ctx, &rpc.CollectionRequest{Identity: "u2", CardId: "c1"})
		require.NoError(t, err)
	}
	require.Zero(t, srv.Card("c1").SaveCount)

	saved, err = c.IsCardSaved(ctx, &rpc.CollectionRequest{Identity: "u2", CardId: "c1"})
	require.NoError(t, err)
	require.False(t, saved.Saved)
}

func TestGetCard_HidesPrivateAndInactive(t *testing.T) {
	srv := Start(t)
	c := dial(t, srv)
	ctx := context.Background()

	private := publicCard("c1", "u1")
	private.IsPublic = false
	srv.PutCard(private)

	_, err := c.GetCard(ctx, &rpc.GetCardRequest{Id: "c1", ViewerIdentity: "u2"})
	require.Equal(t, codes.NotFound, status.Code(err))

	got, err := c.GetCard(ctx, &rpc.GetCardRequest{Id: "c1", ViewerIdentity: "u1"})
	require.NoError(t, err)
	require.Equal(t, "c1", got.Card.Id)

	_, err = c.DeleteCard(ctx, &rpc.DeleteCardRequest{OwnerIdentity: "u1", Id: "c1"})
	require.NoError(t, err)
	_, err = c.GetCard(ctx, &rpc.GetCardRequest{Id: "c1", ViewerIdentity: "u1"})
	require.Equal(t, codes.NotFound, status.Code(err))
}

func TestOwnerChecks(t *testing.T) {
	srv := Start(t)
	c := dial(t, srv)
	ctx := context.Background()
	srv.PutCard(publicCard("c1", "u1"))

	_, err := c.SetCardVisibility(ctx, &rpc.SetCardVisibilityRequest{OwnerIdentity: "u2", Id: "c1"})
	require.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = c.SaveCard(ctx, &rpc.SaveCardRequest{Card: publicCard("c1", "u2")})
	require.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestFailureInjectionAndStats(t *testing.T) {
	srv := Start(t)
	c := dial(t, srv)
	ctx := context.Background()

	srv.PutCard(publicCard("c1", "u1"))
	villain := publicCard("c2", "u1")
	villain.Alignment = "villain"
	villain.IsPublic = false
	srv.PutCard(villain)

	srv.Fail(rpc.MethodGetStats, codes.Internal)
	_, err := c.GetStats(ctx, &rpc.GetStatsRequest{Identity: "u1"})
	require.Equal(t, codes.Internal, status.Code(err))

	srv.Recover(rpc.MethodGetStats)
	resp, err := c.GetStats(ctx, &rpc.GetStatsRequest{Identity: "u1"})
	require.NoError(t, err)
	require.Equal(t, &rpc.Stats{TotalCards: 2, PublicCards: 1, Heroes: 1, Villains: 1}, resp.Stats)
	require.Equal(t, 2, srv.Calls(rpc.MethodGetStats))

	srv.SetDown(true)
	_, err = c.GetCards(ctx, &rpc.GetCardsRequest{OwnerIdentity: "u1"})
	require.Equal(t, codes.Unavailable, status.Code(err))
}
