package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// TransferService is registered without generated stubs: every request and
// response is a google.protobuf.Struct, so any gRPC client that speaks the
// well-known types can call it.
const TransferServiceName = "transfer.v1.TransferService"

const (
	TransferServiceTransferMethod       = "/" + TransferServiceName + "/Transfer"
	TransferServiceGetAccountMethod     = "/" + TransferServiceName + "/GetAccount"
	TransferServiceGetTransactionMethod = "/" + TransferServiceName + "/GetTransaction"
)

type TransferServiceServer interface {
	Transfer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var TransferServiceDesc = grpc.ServiceDesc{
	ServiceName: TransferServiceName,
	HandlerType: (*TransferServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Transfer",
			Handler: unaryHandler(TransferServiceTransferMethod, func(srv TransferServiceServer) unaryCall {
				return srv.Transfer
			}),
		},
		{
			MethodName: "GetAccount",
			Handler: unaryHandler(TransferServiceGetAccountMethod, func(srv TransferServiceServer) unaryCall {
				return srv.GetAccount
			}),
		},
		{
			MethodName: "GetTransaction",
			Handler: unaryHandler(TransferServiceGetTransactionMethod, func(srv TransferServiceServer) unaryCall {
				return srv.GetTransaction
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "transfer/v1/transfer_service.proto",
}

func RegisterTransferServiceServer(s grpc.ServiceRegistrar, srv TransferServiceServer) {
	s.RegisterService(&TransferServiceDesc, srv)
}

type unaryCall func(context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, pick func(TransferServiceServer) unaryCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		call := pick(srv.(TransferServiceServer))
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TransferServiceClient is the client side of TransferService.
type TransferServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTransferServiceClient(cc grpc.ClientConnInterface) *TransferServiceClient {
	return &TransferServiceClient{cc: cc}
}

func (c *TransferServiceClient) Transfer(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TransferServiceTransferMethod, in, opts...)
}

func (c *TransferServiceClient) GetAccount(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TransferServiceGetAccountMethod, in, opts...)
}

func (c *TransferServiceClient) GetTransaction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, TransferServiceGetTransactionMethod, in, opts...)
}

func (c *TransferServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
