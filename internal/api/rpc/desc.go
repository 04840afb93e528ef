package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	IdentityServiceName = "storefront.identity.v1.IdentityService"
	AccountServiceName  = "storefront.account.v1.AccountService"
)

// FullMethod returns the "/service/method" path gRPC uses on the wire and in
// UnaryServerInfo.FullMethod.
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

const detailsMalformed = "malformed request"

// decodeError is a request that did not decode. The caller sees
// INVALID_ARGUMENT with generic details; Error keeps the decoder message for
// the server log.
type decodeError struct {
	cause error
}

func (e *decodeError) Error() string { return "decode request: " + e.cause.Error() }

func (e *decodeError) Unwrap() error { return e.cause }

func (e *decodeError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, detailsMalformed)
}

// unary builds the MethodDesc for a handler of the form
// func(*Server, context.Context, *Req) (*Resp, error).
func unary[S any, Req any, Resp any](service, method string, fn func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := FullMethod(service, method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(S), ctx, req.(*Req))
			}
			if err := dec(in); err != nil {
				// Still run the chain so the failure is logged and counted.
				decErr := &decodeError{cause: err}
				handler = func(context.Context, any) (any, error) { return nil, decErr }
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, handler)
		},
	}
}
