// Package rpc exposes the tone controllers over gRPC. Messages are
// google.protobuf.Struct values, so no generated code is needed on either
// side.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "dactone.v1.ToneService"

// Method names of ToneService.
const (
	MethodSetTone        = "SetTone"
	MethodStop           = "Stop"
	MethodSetVolume      = "SetVolume"
	MethodSetOffset      = "SetOffset"
	MethodSetShape       = "SetShape"
	MethodSetFrequency   = "SetFrequency"
	MethodQueryFrequency = "QueryFrequency"
	MethodGetState       = "GetState"
)

// ToneServiceServer is the server API for ToneService. Every request
// carries a "channel" number; the remaining fields depend on the method.
type ToneServiceServer interface {
	SetTone(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Stop(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetVolume(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetOffset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetShape(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetFrequency(context.Context, *structpb.Struct) (*structpb.Struct, error)
	QueryFrequency(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryFunc func(ToneServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryFunc) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ToneServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ToneServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes ToneService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ToneServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodSetTone, ToneServiceServer.SetTone),
		unary(MethodStop, ToneServiceServer.Stop),
		unary(MethodSetVolume, ToneServiceServer.SetVolume),
		unary(MethodSetOffset, ToneServiceServer.SetOffset),
		unary(MethodSetShape, ToneServiceServer.SetShape),
		unary(MethodSetFrequency, ToneServiceServer.SetFrequency),
		unary(MethodQueryFrequency, ToneServiceServer.QueryFrequency),
		unary(MethodGetState, ToneServiceServer.GetState),
	},
	Metadata: "dactone/v1/tone.proto",
}

// RegisterToneServiceServer registers srv with s.
func RegisterToneServiceServer(s grpc.ServiceRegistrar, srv ToneServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
