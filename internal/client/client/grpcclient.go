package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/herocards/internal/client/models"
	"github.com/dmitrijs2005/herocards/internal/common"
	"github.com/dmitrijs2005/herocards/internal/rpc"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	version     string
	tokens      TokenSource
	conn        *grpc.ClientConn
	client      rpc.CardStoreClient
	health      healthpb.HealthClient
}

// NewCardStoreClient dials endpointURL lazily. tokens may be nil.
func NewCardStoreClient(endpointURL, version string, tokens TokenSource) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, version: version, tokens: tokens}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.metadataInterceptor),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewCardStoreClient(conn)
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

func withHeader(ctx context.Context, key, value string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(key, value)
	return metadata.NewOutgoingContext(ctx, md)
}

// metadataInterceptor stamps the client version and the bearer token on
// every outbound call. A token source failure fails the call as
// Unauthenticated without reaching the network.
func (s *GRPCClient) metadataInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.version != "" {
		ctx = withHeader(ctx, common.ClientVersionHeaderName, s.version)
	}
	if s.tokens != nil {
		token, err := s.tokens.Token()
		if err != nil {
			return status.Error(codes.Unauthenticated, err.Error())
		}
		if token != "" {
			ctx = withHeader(ctx, common.AuthorizationHeaderName, "Bearer "+token)
		}
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: rpc.ServiceName})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) GetUser(ctx context.Context, identity string) (*models.User, error) {
	resp, err := s.client.GetUser(ctx, &rpc.GetUserRequest{Identity: identity})
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.User == nil {
		return nil, nil
	}
	return fromWireUser(resp.User), nil
}

func (s *GRPCClient) SaveUser(ctx context.Context, u *models.User) error {
	_, err := s.client.SaveUser(ctx, &rpc.SaveUserRequest{User: toWireUser(u)})
	return s.mapError(err)
}

func (s *GRPCClient) GetCards(ctx context.Context, owner string) ([]*models.Card, error) {
	resp, err := s.client.GetCards(ctx, &rpc.GetCardsRequest{OwnerIdentity: owner})
	if err != nil {
		return nil, s.mapError(err)
	}
	return fromWireCards(resp.Cards)
}

func (s *GRPCClient) GetCard(ctx context.Context, id, viewer string) (*models.Card, error) {
	resp, err := s.client.GetCard(ctx, &rpc.GetCardRequest{Id: id, ViewerIdentity: viewer})
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.Card == nil {
		return nil, nil
	}
	return fromWireCard(resp.Card)
}

func (s *GRPCClient) SaveCard(ctx context.Context, c *models.Card) error {
	_, err := s.client.SaveCard(ctx, &rpc.SaveCardRequest{Card: toWireCard(c)})
	return s.mapError(err)
}

func (s *GRPCClient) DeleteCard(ctx context.Context, owner, id string) error {
	_, err := s.client.DeleteCard(ctx, &rpc.DeleteCardRequest{OwnerIdentity: owner, Id: id})
	return s.mapError(err)
}

func (s *GRPCClient) SetCardVisibility(ctx context.Context, owner, id string, public bool) error {
	_, err := s.client.SetCardVisibility(ctx, &rpc.SetCardVisibilityRequest{OwnerIdentity: owner, Id: id, IsPublic: public})
	return s.mapError(err)
}

func (s *GRPCClient) SaveToCollection(ctx context.Context, identity, cardID string) error {
	_, err := s.client.SaveToCollection(ctx, &rpc.CollectionRequest{Identity: identity, CardId: cardID})
	return s.mapError(err)
}

func (s *GRPCClient) RemoveFromCollection(ctx context.Context, identity, cardID string) error {
	_, err := s.client.RemoveFromCollection(ctx, &rpc.CollectionRequest{Identity: identity, CardId: cardID})
	return s.mapError(err)
}

func (s *GRPCClient) IsCardSaved(ctx context.Context, identity, cardID string) (bool, error) {
	resp, err := s.client.IsCardSaved(ctx, &rpc.CollectionRequest{Identity: identity, CardId: cardID})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.Saved, nil
}

func (s *GRPCClient) GetSavedCards(ctx context.Context, identity string) ([]*models.Card, error) {
	resp, err := s.client.GetSavedCards(ctx, &rpc.GetSavedCardsRequest{Identity: identity})
	if err != nil {
		return nil, s.mapError(err)
	}
	return fromWireCards(resp.Cards)
}

func (s *GRPCClient) GetStats(ctx context.Context, identity string) (*models.Stats, error) {
	resp, err := s.client.GetStats(ctx, &rpc.GetStatsRequest{Identity: identity})
	if err != nil {
		return nil, s.mapError(err)
	}
	return fromWireStats(resp.Stats), nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	return &RemoteError{Status: httpStatus(st.Code()), Message: st.Message()}
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.Canceled:
		return 499
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.FailedPrecondition:
		return http.StatusPreconditionFailed
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
