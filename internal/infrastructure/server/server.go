// Package server runs a service's gRPC server and its ops HTTP server as one
// unit and stops both when the context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

const defaultShutdownTimeout = 10 * time.Second

type Config struct {
	GRPCAddr        string
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// Server pairs a gRPC server with its echo ops router.
type Server struct {
	cfg    Config
	grpc   *grpc.Server
	health *health.Server
	ops    *echo.Echo
	log    zerolog.Logger
}

func New(cfg Config, grpcServer *grpc.Server, hs *health.Server, ops *echo.Echo, log zerolog.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	return &Server{cfg: cfg, grpc: grpcServer, health: hs, ops: ops, log: log}
}

// Run listens on both addresses and serves until ctx is cancelled or either
// server fails. It returns nil after a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	grpcLis, err := net.Listen("tcp", s.cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("grpc listen %s: %w", s.cfg.GRPCAddr, err)
	}
	httpLis, err := net.Listen("tcp", s.cfg.HTTPAddr)
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("http listen %s: %w", s.cfg.HTTPAddr, err)
	}
	s.ops.Listener = httpLis

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", grpcLis.Addr().String()).Msg("grpc server listening")
		if err := s.grpc.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.log.Info().Str("addr", httpLis.Addr().String()).Msg("ops server listening")
		if err := s.ops.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ops serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.shutdown()
		return nil
	})

	return g.Wait()
}

func (s *Server) shutdown() {
	s.log.Info().Msg("shutting down")
	if s.health != nil {
		s.health.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.log.Warn().Msg("grpc graceful stop timed out, forcing")
		s.grpc.Stop()
	}

	if err := s.ops.Shutdown(ctx); err != nil {
		s.log.Warn().Err(err).Msg("ops server shutdown")
	}
}
