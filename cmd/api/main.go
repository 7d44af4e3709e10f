package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/clover/config"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/graph"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/logging"
	"github.com/Ramsey-B/clover/pkg/middleware"
	"github.com/Ramsey-B/clover/pkg/routes/blocking"
	"github.com/Ramsey-B/clover/pkg/routes/clan"
	"github.com/Ramsey-B/clover/pkg/routes/follow"
	"github.com/Ramsey-B/clover/pkg/routes/friends"
	"github.com/Ramsey-B/clover/pkg/routes/health"
	"github.com/Ramsey-B/clover/pkg/routes/messaging"
	"github.com/Ramsey-B/clover/pkg/routes/party"
	"github.com/Ramsey-B/clover/pkg/routes/players"
	"github.com/Ramsey-B/clover/pkg/social"
	"github.com/Ramsey-B/clover/pkg/startup"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/Ramsey-B/clover/pkg/tracing/exporters"
)

var version = "dev"

// dependency adapts closures to the startup graph.
type dependency struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func (d *dependency) GetName() string { return d.name }

func (d *dependency) DependsOn() []string { return d.dependsOn }

func (d *dependency) Start(ctx context.Context) error {
	if d.start == nil {
		return nil
	}
	return d.start(ctx)
}
func (d *dependency) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	return d.stop(ctx)
}

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to read config: %v", err)
	}

	logger, flush := logging.New(cfg.AppName)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		tracerProvider *sdktrace.TracerProvider
		graphClient    *graph.Client
		producer       *kafka.Producer
	)

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)

	boot.AddDependency(&dependency{
		name: "tracing",
		start: func(ctx context.Context) error {
			if !cfg.TracingEnabled {
				return nil
			}
			exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
				Endpoint: cfg.OTLPEndpoint,
				Protocol: cfg.OTLPProtocol,
				Insecure: cfg.OTLPInsecure,
				Timeout:  10 * time.Second,
			})
			if err != nil {
				return err
			}
			tracerProvider = sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(exporter),
				sdktrace.WithResource(sdkresource.NewSchemaless(
					attribute.String("service.name", cfg.AppName),
					attribute.String("service.version", version),
				)),
			)
			otel.SetTracerProvider(tracerProvider)
			tracing.SetTracer(tracerProvider.Tracer(cfg.AppName))
			return nil
		},
		stop: func(ctx context.Context) error {
			if tracerProvider == nil {
				return nil
			}
			return tracerProvider.Shutdown(ctx)
		},
	})

	boot.AddDependency(&dependency{
		name:      "graph",
		dependsOn: []string{"tracing"},
		start: func(ctx context.Context) error {
			client, err := graph.NewClient(graph.Config{
				Host:         cfg.GraphDBHost,
				Port:         cfg.GraphDBPort,
				Username:     cfg.GraphDBUser,
				Password:     cfg.GraphDBPassword,
				QueryTimeout: cfg.GraphQueryTimeout,
			}, logger)
			if err != nil {
				return err
			}
			graphClient = client

			// The probe fixes availability for the life of the process.
			// A failed probe is not fatal: the API runs in degraded mode
			// and social operations return Unavailable.
			probeCtx, cancel := context.WithTimeout(ctx, cfg.GraphProbeTimeout)
			defer cancel()
			if err := client.Probe(probeCtx); err != nil {
				logger.WithError(err).Warn("Graph store unreachable at startup, running in degraded mode")
			}
			return nil
		},
		stop: func(ctx context.Context) error {
			if graphClient == nil {
				return nil
			}
			return graphClient.Close(ctx)
		},
	})

	boot.AddDependency(&dependency{
		name:      "kafka",
		dependsOn: []string{"tracing"},
		start: func(ctx context.Context) error {
			if !cfg.KafkaEnabled {
				return nil
			}
			producer = kafka.NewProducer(kafka.ProducerConfig{
				Brokers:      cfg.KafkaBrokers,
				Topic:        cfg.KafkaOutputTopic,
				BatchSize:    cfg.KafkaBatchSize,
				BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
				RequiredAcks: cfg.KafkaRequiredAcks,
				Compression:  cfg.KafkaCompression,
			}, logger)
			return nil
		},
		stop: func(ctx context.Context) error {
			if producer == nil {
				return nil
			}
			return producer.Close()
		},
	})

	if err := boot.Start(ctx); err != nil {
		logger.WithError(err).Error("Startup failed")
		os.Exit(1)
	}

	var emitter *events.Emitter
	if producer != nil {
		emitter = events.NewEmitter(producer, logger)
	}

	service := social.NewService(graphClient, emitter, social.Limits{
		MessagePageSizeDefault: cfg.MessagePageSizeDefault,
		MessagePageSizeMax:     cfg.MessagePageSizeMax,
		SuggestionLimitDefault: cfg.SuggestionLimitDefault,
		SuggestionLimitMax:     cfg.SuggestionLimitMax,
		ClanSearchLimit:        cfg.ClanSearchLimit,
	}, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(cfg.AppName))

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	checker := health.NewChecker(graphClient, version)
	checker.RegisterRoutes(e)

	api := e.Group("/api/v1")
	players.NewHandler(service, logger).Register(api.Group("/players"))
	friends.NewHandler(service, logger).Register(api.Group("/friends"))
	blocking.NewHandler(service, logger).Register(api.Group("/blocks"))
	follow.NewHandler(service, logger).Register(api.Group("/follows"))
	messaging.NewHandler(service, logger).Register(api.Group("/conversations"))
	party.NewHandler(service, logger).Register(api.Group("/parties"))
	clan.NewHandler(service, logger).Register(api.Group("/clans"))

	checker.SetReady(true)

	go func() {
		logger.WithField("port", cfg.Port).Infof("Starting %s on port %d", cfg.AppName, cfg.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	checker.SetReady(false)
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := boot.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Dependency shutdown failed")
	}
}
