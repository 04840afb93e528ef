package rpc

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cloudmart/accounts/internal/api/metrics"
)

// Recovery turns a panic in a handler into an INTERNAL status.
func Recovery(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("method", info.FullMethod).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("rpc handler panicked")
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

// Observe logs one line per RPC and records request count and latency under
// the given service label.
func Observe(service string, log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)

		method := methodName(info.FullMethod)
		code := status.Code(err)

		metrics.RPCRequestsTotal.WithLabelValues(service, method, code.String()).Inc()
		metrics.RPCDuration.WithLabelValues(service, method).Observe(elapsed.Seconds())

		ev := log.Info()
		switch code {
		case codes.Internal, codes.Unknown:
			ev = log.Warn()
		case codes.InvalidArgument:
			ev = log.Warn().Err(err)
		}
		ev.Str("method", method).
			Str("code", code.String()).
			Dur("latency", elapsed).
			Msg("rpc")

		return resp, err
	}
}

func methodName(fullMethod string) string {
	if i := strings.LastIndexByte(fullMethod, '/'); i >= 0 {
		return fullMethod[i+1:]
	}
	return fullMethod
}
