package rpctest

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/herocards/internal/rpc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func sign(t *testing.T, secret []byte, sub string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)
	return tok
}

func TestStartWithAuth(t *testing.T) {
	secret := []byte("s3cr3t")
	srv := StartWithAuth(t, secret)
	c := dial(t, srv)
	req := &rpc.GetStatsRequest{Identity: "u1"}

	_, err := c.GetStats(context.Background(), req)
	require.Equal(t, codes.Unauthenticated, status.Code(err))

	bad := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+sign(t, []byte("other"), "u1"))
	_, err = c.GetStats(bad, req)
	require.Equal(t, codes.Unauthenticated, status.Code(err))

	good := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+sign(t, secret, "u1"))
	_, err = c.GetStats(good, req)
	require.NoError(t, err)
}

func TestSubject_Empty(t *testing.T) {
	require.Empty(t, Subject(context.Background()))
}
