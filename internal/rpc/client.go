package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// CardStoreClient is the client API for the CardStore service.
type CardStoreClient interface {
	GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error)
	SaveUser(ctx context.Context, in *SaveUserRequest, opts ...grpc.CallOption) (*Empty, error)
	GetCards(ctx context.Context, in *GetCardsRequest, opts ...grpc.CallOption) (*CardsResponse, error)
	GetCard(ctx context.Context, in *GetCardRequest, opts ...grpc.CallOption) (*GetCardResponse, error)
	SaveCard(ctx context.Context, in *SaveCardRequest, opts ...grpc.CallOption) (*Empty, error)
	DeleteCard(ctx context.Context, in *DeleteCardRequest, opts ...grpc.CallOption) (*Empty, error)
	SetCardVisibility(ctx context.Context, in *SetCardVisibilityRequest, opts ...grpc.CallOption) (*Empty, error)
	SaveToCollection(ctx context.Context, in *CollectionRequest, opts ...grpc.CallOption) (*Empty, error)
	RemoveFromCollection(ctx context.Context, in *CollectionRequest, opts ...grpc.CallOption) (*Empty, error)
	IsCardSaved(ctx context.Context, in *CollectionRequest, opts ...grpc.CallOption) (*IsCardSavedResponse, error)
	GetSavedCards(ctx context.Context, in *GetSavedCardsRequest, opts ...grpc.CallOption) (*CardsResponse, error)
	GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*GetStatsResponse, error)
}

type cardStoreClient struct {
	cc grpc.ClientConnInterface
}

func NewCardStoreClient(cc grpc.ClientConnInterface) CardStoreClient {
	return &cardStoreClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	req, err := Encode(in)
	if err != nil {
		return nil, err
	}
	reply := new(structpb.Struct)
	if err := cc.Invoke(ctx, FullMethod(method), req, reply, opts...); err != nil {
		return nil, err
	}
	out := new(Resp)
	if err := Decode(reply, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cardStoreClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error) {
	return invoke[GetUserRequest, GetUserResponse](ctx, c.cc, MethodGetUser, in, opts)
}

func (c *cardStoreClient) SaveUser(ctx context.Context, in *SaveUserRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[SaveUserRequest, Empty](ctx, c.cc, MethodSaveUser, in, opts)
}

func (c *cardStoreClient) GetCards(ctx context.Context, in *GetCardsRequest, opts ...grpc.CallOption) (*CardsResponse, error) {
	return invoke[GetCardsRequest, CardsResponse](ctx, c.cc, MethodGetCards, in, opts)
}

func (c *cardStoreClient) GetCard(ctx context.Context, in *GetCardRequest, opts ...grpc.CallOption) (*GetCardResponse, error) {
	return invoke[GetCardRequest, GetCardResponse](ctx, c.cc, MethodGetCard, in, opts)
}

func (c *cardStoreClient) SaveCard(ctx context.Context, in *SaveCardRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[SaveCardRequest, Empty](ctx, c.cc, MethodSaveCard, in, opts)
}

func (c *cardStoreClient) DeleteCard(ctx context.Context, in *DeleteCardRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[DeleteCardRequest, Empty](ctx, c.cc, MethodDeleteCard, in, opts)
}

func (c *cardStoreClient) SetCardVisibility(ctx context.Context, in *SetCardVisibilityRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[SetCardVisibilityRequest, Empty](ctx, c.cc, MethodSetCardVisibility, in, opts)
}

func (c *cardStoreClient) SaveToCollection(ctx context.Context, in *CollectionRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[CollectionRequest, Empty](ctx, c.cc, MethodSaveToCollection, in, opts)
}

func (c *cardStoreClient) RemoveFromCollection(ctx context.Context, in *CollectionRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[CollectionRequest, Empty](ctx, c.cc, MethodRemoveFromCollection, in, opts)
}

func (c *cardStoreClient) IsCardSaved(ctx context.Context, in *CollectionRequest, opts ...grpc.CallOption) (*IsCardSavedResponse, error) {
	return invoke[CollectionRequest, IsCardSavedResponse](ctx, c.cc, MethodIsCardSaved, in, opts)
}

func (c *cardStoreClient) GetSavedCards(ctx context.Context, in *GetSavedCardsRequest, opts ...grpc.CallOption) (*CardsResponse, error) {
	return invoke[GetSavedCardsRequest, CardsResponse](ctx, c.cc, MethodGetSavedCards, in, opts)
}

func (c *cardStoreClient) GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*GetStatsResponse, error) {
	return invoke[GetStatsRequest, GetStatsResponse](ctx, c.cc, MethodGetStats, in, opts)
}
