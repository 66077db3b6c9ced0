package rpctest

import (
	"net"
	"testing"

	"github.com/dmitrijs2005/herocards/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server is a running gRPC server backed by a Store.
type Server struct {
	*Store
	Addr   string
	health *health.Server
}

// Start serves a fresh Store on 127.0.0.1:0 and stops it when the test ends.
func Start(t testing.TB) *Server {
	t.Helper()
	return start(t)
}

// StartWithAuth is Start with every CardStore call requiring a bearer token
// signed with secret.
func StartWithAuth(t testing.TB, secret []byte) *Server {
	t.Helper()
	return start(t, grpc.UnaryInterceptor(bearerInterceptor(secret)))
}

func start(t testing.TB, opts ...grpc.ServerOption) *Server {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	gs := grpc.NewServer(opts...)
	store := NewStore()
	rpc.RegisterCardStoreServer(gs, store)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	return &Server{Store: store, Addr: lis.Addr().String(), health: hs}
}

// SetDown flips both the health status and the Store availability.
func (s *Server) SetDown(down bool) {
	s.Store.SetDown(down)
	st := healthpb.HealthCheckResponse_SERVING
	if down {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(rpc.ServiceName, st)
}
