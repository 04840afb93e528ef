package rpc

import (
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewServer builds a gRPC server with observation and recovery interceptors
// in front of extra, and with the standard health service registered. The
// caller registers its service and marks it serving on the returned health
// server.
func NewServer(service string, log zerolog.Logger, extra ...grpc.UnaryServerInterceptor) (*grpc.Server, *health.Server) {
	interceptors := append([]grpc.UnaryServerInterceptor{
		Observe(service, log),
		Recovery(log),
	}, extra...)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}
