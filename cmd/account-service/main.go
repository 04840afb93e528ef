package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cloudmart/accounts/internal/api"
	"github.com/cloudmart/accounts/internal/api/middleware"
	"github.com/cloudmart/accounts/internal/api/rpc"
	"github.com/cloudmart/accounts/internal/bootstrap"
	"github.com/cloudmart/accounts/internal/core/service"
	"github.com/cloudmart/accounts/internal/infrastructure/db/redis"
	"github.com/cloudmart/accounts/internal/infrastructure/server"
	"github.com/cloudmart/accounts/internal/pkg/config"
	"github.com/cloudmart/accounts/internal/validation"
	"github.com/cloudmart/accounts/pkg/logger"
	"github.com/cloudmart/accounts/pkg/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "account-service:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Service: "account-service", Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	var interceptors []grpc.UnaryServerInterceptor
	if cfg.Account.RequireAuth {
		if err := cfg.RequireSecret(); err != nil {
			return err
		}
		verifier, err := token.NewVerifier(cfg.Token.Secret, token.WithIssuer(cfg.Token.Issuer))
		if err != nil {
			return err
		}
		interceptors = append(interceptors, middleware.Auth(verifier, rpc.AccountPolicy()))
	} else {
		log.Warn().Msg("REQUIRE_AUTH is off; account RPCs accept unauthenticated calls")
	}

	deps, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close(context.Background(), log)

	opts := []service.AccountOption{service.WithBcryptCost(cfg.Account.BcryptCost)}
	if deps.Redis != nil {
		opts = append(opts, service.WithNameCache(redis.NewNameCache(deps.Redis, cfg.Account.NameCacheTTL)))
	}
	svc := service.NewAccountService(deps.Users, validation.New(), log, opts...)

	grpcServer, hs := rpc.NewServer("account", log, interceptors...)
	rpc.RegisterAccountServer(grpcServer, rpc.NewAccountServer(svc, log))
	hs.SetServingStatus(rpc.AccountServiceName, healthpb.HealthCheckResponse_SERVING)

	srv := server.New(server.Config{
		GRPCAddr:        cfg.Account.GRPCAddr,
		HTTPAddr:        ":" + cfg.Account.HTTPPort,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, grpcServer, hs, api.NewOpsRouter("account-service", log, deps.Ready...), log)

	log.Info().Str("env", cfg.Env).Str("store", cfg.StoreDriver).Bool("require_auth", cfg.Account.RequireAuth).Msg("account service starting")
	return srv.Run(ctx)
}
