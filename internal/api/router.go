package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/cloudmart/accounts/internal/api/docs"
	"github.com/cloudmart/accounts/internal/api/handler"
)

// NewOpsRouter builds the operational HTTP surface served next to each gRPC
// server: liveness, readiness over deps, Prometheus metrics, and the swagger
// UI describing them. service names the OpenAPI document.
//
// Ops request metrics live in a registry owned by the router; /metrics serves
// it together with the default registry that holds the RPC metrics.
func NewOpsRouter(service string, log zerolog.Logger, deps ...handler.Dependency) *echo.Echo {
	reg := prometheus.NewRegistry()
	docs.SwaggerInfo.Title = service + " ops API"

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "storefront_ops",
		Registerer: reg,
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Debug().
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("ops request")
			return nil
		},
	}))

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps...)

	e.GET("/health", healthHandler.Liveness)           // liveness: is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		prometheus.Gatherers{prometheus.DefaultGatherer, reg},
		promhttp.HandlerOpts{},
	)))

	// --- API docs ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
