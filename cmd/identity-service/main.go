package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cloudmart/accounts/internal/api"
	"github.com/cloudmart/accounts/internal/api/rpc"
	"github.com/cloudmart/accounts/internal/bootstrap"
	"github.com/cloudmart/accounts/internal/core/service"
	"github.com/cloudmart/accounts/internal/infrastructure/db/redis"
	"github.com/cloudmart/accounts/internal/infrastructure/server"
	"github.com/cloudmart/accounts/internal/pkg/config"
	"github.com/cloudmart/accounts/pkg/logger"
	"github.com/cloudmart/accounts/pkg/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "identity-service:", err)
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
	log := logger.Init(logger.Options{Service: "identity-service", Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if err := cfg.RequireSecret(); err != nil {
		return err
	}
	issuer, err := token.NewIssuer(cfg.Token.Secret, cfg.Token.TTL, token.WithIssuer(cfg.Token.Issuer))
	if err != nil {
		return err
	}

	deps, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close(context.Background(), log)

	var throttle service.LoginThrottle
	if deps.Redis != nil {
		throttle = redis.NewLoginThrottle(deps.Redis, cfg.Identity.LoginMaxAttempts, cfg.Identity.LoginWindow)
	}
	svc := service.NewIdentityService(deps.Creds, issuer, throttle, log)

	grpcServer, hs := rpc.NewServer("identity", log)
	rpc.RegisterIdentityServer(grpcServer, rpc.NewIdentityServer(svc, log))
	hs.SetServingStatus(rpc.IdentityServiceName, healthpb.HealthCheckResponse_SERVING)

	srv := server.New(server.Config{
		GRPCAddr:        cfg.Identity.GRPCAddr,
		HTTPAddr:        ":" + cfg.Identity.HTTPPort,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, grpcServer, hs, api.NewOpsRouter("identity-service", log, deps.Ready...), log)

	log.Info().
		Str("env", cfg.Env).
		Str("store", cfg.StoreDriver).
		Dur("token_ttl", issuer.TTL()).
		Msg("identity service starting")
	return srv.Run(ctx)
}
