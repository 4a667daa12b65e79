// Package main is the entry point for the loyalty program's auth core.
//
// Responsible for loading configuration, constructing every adapter and
// application service, wiring them together, and running the HTTP and gRPC
// servers until a shutdown signal arrives.
package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/vitalya420/loyalty-auth-core/config"
	"github.com/vitalya420/loyalty-auth-core/internal/adapters/cache"
	"github.com/vitalya420/loyalty-auth-core/internal/adapters/events"
	"github.com/vitalya420/loyalty-auth-core/internal/adapters/external"
	httpAdapter "github.com/vitalya420/loyalty-auth-core/internal/adapters/http"
	"github.com/vitalya420/loyalty-auth-core/internal/adapters/repository/postgres"
	"github.com/vitalya420/loyalty-auth-core/internal/application"
	"github.com/vitalya420/loyalty-auth-core/internal/codec"
	"github.com/vitalya420/loyalty-auth-core/internal/ports"
	"github.com/vitalya420/loyalty-auth-core/pkg/grpc/interceptors"
	"github.com/vitalya420/loyalty-auth-core/pkg/middleware"
	"github.com/vitalya420/loyalty-auth-core/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	log.Printf("starting auth core on port %s", cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tracerShutdown func(context.Context) error
	if cfg.OTEL.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, telemetry.Config{
			ServiceName:  cfg.OTEL.ServiceName,
			OTLPEndpoint: cfg.OTEL.Endpoint,
			Insecure:     cfg.OTEL.Insecure,
			Environment:  "development",
		})
		if err != nil {
			log.Printf("warning: failed to initialize tracer: %v", err)
		} else {
			tracerShutdown = shutdown
			log.Println("opentelemetry tracing initialized")
		}
	}

	dbPool, err := pgxpool.New(ctx, cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer dbPool.Close()
	if err := dbPool.Ping(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	log.Println("connected to database")

	redisCache := cache.NewRedisCache(cache.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer redisCache.Close()

	dbQuerier := postgres.Trace(dbPool, telemetry.DBSpanConfig{
		DBSystem:   "postgresql",
		DBName:     cfg.Database.DBName,
		DBUser:     cfg.Database.User,
		ServerAddr: cfg.Database.Host,
	})

	uow := postgres.NewUnitOfWork(dbPool)
	userRepo := postgres.NewUserRepository(dbQuerier)
	businessRepo := postgres.NewBusinessRepository(dbQuerier)
	clientRepo := postgres.NewClientRepository(dbQuerier)
	otpRepo := postgres.NewOTPRepository(dbQuerier)
	accessRepo := postgres.NewAccessTokenRepository(dbQuerier)
	refreshRepo := postgres.NewRefreshTokenRepository(dbQuerier)

	workerPool := external.NewWorkerPool(runtime.GOMAXPROCS(0))
	passwordHasher := external.NewBcryptPasswordHasher(12, workerPool)
	otpGenerator := external.NewSecureOTPGenerator()
	codeGenerator := external.NewRandomCodeGenerator()

	var smsService ports.SMSService
	switch cfg.SMS.Provider {
	case "twilio":
		smsService = external.NewTwilioSMSService(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromPhone)
	default:
		smsService = external.NewConsoleSMSService()
	}

	var eventPublisher ports.EventPublisher
	var kafkaPublisher *events.KafkaPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher = events.NewKafkaPublisher(events.DefaultPublisherConfig(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		eventPublisher = kafkaPublisher
		log.Println("kafka event publisher initialized")
	} else {
		eventPublisher = events.NoopPublisher{}
	}

	baseLogger := logrus.New()
	logger := external.NewLogrusLogger(baseLogger)

	tokenCodec := codec.NewCodec(cfg.JWT.SecretKey)

	otpEngine := application.NewOTPEngine(
		uow, otpRepo, businessRepo, redisCache, smsService, otpGenerator, eventPublisher, logger,
		application.OTPEngineParams{
			CodeLifetime:   cfg.OTP.CodeLifetime,
			SMSCooldown:    cfg.OTP.SMSCooldown,
			RevokeOld:      true,
			SMSLimit:       cfg.OTP.SMSLimit,
			SMSLimitWindow: cfg.OTP.SMSLimitWindow,
			CodeLength:     cfg.OTP.CodeLength,
		},
	)
	tokenEngine := application.NewTokenEngine(uow, accessRepo, refreshRepo, businessRepo, redisCache, eventPublisher, logger)
	identityService := application.NewIdentityService(userRepo, businessRepo, clientRepo, passwordHasher, codeGenerator, redisCache)
	authFlow := application.NewAuthFlow(otpEngine, tokenEngine, identityService, passwordHasher, logger)

	router := httpAdapter.NewRouter(authFlow, tokenEngine, identityService, otpEngine, tokenCodec)

	handler := http.Handler(router)
	if cfg.OTEL.Enabled {
		handler = middleware.Tracing(cfg.OTEL.ServiceName)(handler)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// gRPC surface for service-to-service token introspection. No RPC is
	// registered yet: ValidateAccessToken needs a generated proto service
	// definition, tracked separately from this core's build.
	grpcServer := interceptors.NewServerWithDefaults()

	grpcListener, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
	if err != nil {
		log.Fatalf("failed to listen on grpc port: %v", err)
	}

	go func() {
		log.Printf("auth grpc server listening on port %s", cfg.GRPC.Port)
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Printf("grpc server error: %v", err)
		}
	}()

	go func() {
		log.Printf("auth http server listening on port %s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("http server forced to shutdown: %v", err)
	}
	grpcServer.GracefulStop()

	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Printf("failed to close kafka publisher: %v", err)
		}
	}
	if tracerShutdown != nil {
		if err := tracerShutdown(shutdownCtx); err != nil {
			log.Printf("failed to shutdown tracer: %v", err)
		}
	}

	log.Println("server exited")
}
