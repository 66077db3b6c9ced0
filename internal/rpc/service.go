package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "herocards.v1.CardStore"

const (
	MethodGetUser              = "GetUser"
	MethodSaveUser             = "SaveUser"
	MethodGetCards             = "GetCards"
	MethodGetCard              = "GetCard"
	MethodSaveCard             = "SaveCard"
	MethodDeleteCard           = "DeleteCard"
	MethodSetCardVisibility    = "SetCardVisibility"
	MethodSaveToCollection     = "SaveToCollection"
	MethodRemoveFromCollection = "RemoveFromCollection"
	MethodIsCardSaved          = "IsCardSaved"
	MethodGetSavedCards        = "GetSavedCards"
	MethodGetStats             = "GetStats"
)

// FullMethod returns "/herocards.v1.CardStore/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// CardStoreServer is the server API for the CardStore service.
type CardStoreServer interface {
	GetUser(context.Context, *GetUserRequest) (*GetUserResponse, error)
	SaveUser(context.Context, *SaveUserRequest) (*Empty, error)
	GetCards(context.Context, *GetCardsRequest) (*CardsResponse, error)
	GetCard(context.Context, *GetCardRequest) (*GetCardResponse, error)
	SaveCard(context.Context, *SaveCardRequest) (*Empty, error)
	DeleteCard(context.Context, *DeleteCardRequest) (*Empty, error)
	SetCardVisibility(context.Context, *SetCardVisibilityRequest) (*Empty, error)
	SaveToCollection(context.Context, *CollectionRequest) (*Empty, error)
	RemoveFromCollection(context.Context, *CollectionRequest) (*Empty, error)
	IsCardSaved(context.Context, *CollectionRequest) (*IsCardSavedResponse, error)
	GetSavedCards(context.Context, *GetSavedCardsRequest) (*CardsResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error)
}

// UnimplementedCardStoreServer answers every method with codes.Unimplemented.
// Embed it to stay forward compatible.
type UnimplementedCardStoreServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedCardStoreServer) GetUser(context.Context, *GetUserRequest) (*GetUserResponse, error) {
	return nil, unimplemented(MethodGetUser)
}
func (UnimplementedCardStoreServer) SaveUser(context.Context, *SaveUserRequest) (*Empty, error) {
	return nil, unimplemented(MethodSaveUser)
}
func (UnimplementedCardStoreServer) GetCards(context.Context, *GetCardsRequest) (*CardsResponse, error) {
	return nil, unimplemented(MethodGetCards)
}
func (UnimplementedCardStoreServer) GetCard(context.Context, *GetCardRequest) (*GetCardResponse, error) {
	return nil, unimplemented(MethodGetCard)
}
func (UnimplementedCardStoreServer) SaveCard(context.Context, *SaveCardRequest) (*Empty, error) {
	return nil, unimplemented(MethodSaveCard)
}
func (UnimplementedCardStoreServer) DeleteCard(context.Context, *DeleteCardRequest) (*Empty, error) {
	return nil, unimplemented(MethodDeleteCard)
}
func (UnimplementedCardStoreServer) SetCardVisibility(context.Context, *SetCardVisibilityRequest) (*Empty, error) {
	return nil, unimplemented(MethodSetCardVisibility)
}
func (UnimplementedCardStoreServer) SaveToCollection(context.Context, *CollectionRequest) (*Empty, error) {
	return nil, unimplemented(MethodSaveToCollection)
}
func (UnimplementedCardStoreServer) RemoveFromCollection(context.Context, *CollectionRequest) (*Empty, error) {
	return nil, unimplemented(MethodRemoveFromCollection)
}
func (UnimplementedCardStoreServer) IsCardSaved(context.Context, *CollectionRequest) (*IsCardSavedResponse, error) {
	return nil, unimplemented(MethodIsCardSaved)
}
func (UnimplementedCardStoreServer) GetSavedCards(context.Context, *GetSavedCardsRequest) (*CardsResponse, error) {
	return nil, unimplemented(MethodGetSavedCards)
}
func (UnimplementedCardStoreServer) GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, unimplemented(MethodGetStats)
}

// RegisterCardStoreServer registers srv on s.
func RegisterCardStoreServer(s grpc.ServiceRegistrar, srv CardStoreServer) {
	s.RegisterService(&CardStoreServiceDesc, srv)
}

// unary builds a method descriptor that decodes the Struct payload into Req,
// calls the server and encodes Resp back.
func unary[Req, Resp any](method string, call func(CardStoreServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				r := new(Req)
				if err := Decode(req.(*structpb.Struct), r); err != nil {
					return nil, status.Error(codes.InvalidArgument, err.Error())
				}
				resp, err := call(srv.(CardStoreServer), ctx, r)
				if err != nil {
					return nil, err
				}
				out, err := Encode(resp)
				if err != nil {
					return nil, status.Error(codes.Internal, err.Error())
				}
				return out, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// CardStoreServiceDesc is the grpc.ServiceDesc for the CardStore service.
var CardStoreServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CardStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodGetUser, CardStoreServer.GetUser),
		unary(MethodSaveUser, CardStoreServer.SaveUser),
		unary(MethodGetCards, CardStoreServer.GetCards),
		unary(MethodGetCard, CardStoreServer.GetCard),
		unary(MethodSaveCard, CardStoreServer.SaveCard),
		unary(MethodDeleteCard, CardStoreServer.DeleteCard),
		unary(MethodSetCardVisibility, CardStoreServer.SetCardVisibility),
		unary(MethodSaveToCollection, CardStoreServer.SaveToCollection),
		unary(MethodRemoveFromCollection, CardStoreServer.RemoveFromCollection),
		unary(MethodIsCardSaved, CardStoreServer.IsCardSaved),
		unary(MethodGetSavedCards, CardStoreServer.GetSavedCards),
		unary(MethodGetStats, CardStoreServer.GetStats),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "herocards/v1/cardstore.proto",
}
