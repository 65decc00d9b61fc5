package myservicev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "myservice.MyService"

// MyServiceClient is the client API for MyService.
type MyServiceClient interface {
	HandleRequest(ctx context.Context, in *Request, opts ...grpc.CallOption) (*Response, error)
}

type myServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewMyServiceClient creates a client stub for MyService over cc.
func NewMyServiceClient(cc grpc.ClientConnInterface) MyServiceClient {
	return &myServiceClient{cc: cc}
}

func (c *myServiceClient) HandleRequest(ctx context.Context, in *Request, opts ...grpc.CallOption) (*Response, error) {
	out := new(Response)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/HandleRequest", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// MyServiceServer is the server API for MyService.
type MyServiceServer interface {
	HandleRequest(context.Context, *Request) (*Response, error)
	mustEmbedUnimplementedMyServiceServer()
}

// UnimplementedMyServiceServer must be embedded in implementations for
// forward-compatible server interfaces.
type UnimplementedMyServiceServer struct{}

func (UnimplementedMyServiceServer) HandleRequest(context.Context, *Request) (*Response, error) {
	return nil, status.Error(codes.Unimplemented, "method HandleRequest not implemented")
}

func (UnimplementedMyServiceServer) mustEmbedUnimplementedMyServiceServer() {}

// RegisterMyServiceServer registers srv with s.
func RegisterMyServiceServer(s grpc.ServiceRegistrar, srv MyServiceServer) {
	s.RegisterService(&MyServiceServiceDesc, srv)
}

func handleRequestHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Request)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MyServiceServer).HandleRequest(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/HandleRequest",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MyServiceServer).HandleRequest(ctx, req.(*Request))
	}
	return interceptor(ctx, in, info, handler)
}

// MyServiceServiceDesc is the grpc.ServiceDesc for MyService.
var MyServiceServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*MyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "HandleRequest",
			Handler:    handleRequestHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "myservice/v1/myservice.proto",
}
