package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/halahlab/backend/api/handler"
	"github.com/halahlab/backend/internal/config"
	"github.com/halahlab/backend/internal/infrastructure/buffer"
	"github.com/halahlab/backend/internal/infrastructure/mailer"
	"github.com/halahlab/backend/internal/infrastructure/monitor"
	pgInfra "github.com/halahlab/backend/internal/infrastructure/postgres"
	redisInfra "github.com/halahlab/backend/internal/infrastructure/redis"
	"github.com/halahlab/backend/internal/middleware"
	"github.com/halahlab/backend/internal/router"
	"github.com/halahlab/backend/internal/services"
	"github.com/halahlab/backend/internal/services/lifecycle"
	"github.com/halahlab/backend/pkg/httpcontext"
	"github.com/halahlab/backend/pkg/logger"
	"github.com/halahlab/backend/repository/postgres"
	redisRepo "github.com/halahlab/backend/repository/redis"
	messagesUC "github.com/halahlab/backend/usecase/messages"
	ordersUC "github.com/halahlab/backend/usecase/orders"
	provisioningUC "github.com/halahlab/backend/usecase/provisioning"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "messages")
	if err != nil {
		zapLogger.Fatal("failed to open message buffer", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	examRepo := redisRepo.NewExamCache(postgres.NewExamRepository(pool), redisClient, cfg.Redis.ExamTTL)
	resultRepo := postgres.NewResultRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)

	messageProcessor := services.NewMessageProcessor(
		bufferStore,
		mon,
		messageRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	messageProcessor.Start()
	manager.Register("message_processor", func(ctx context.Context) error {
		messageProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(messageProcessor)
	notifier := mailer.New(cfg.SMTP, zapLogger)

	provisioningUseCase := provisioningUC.New(userRepo, notifier, zapLogger)
	messagesUseCase := messagesUC.New(messageRepo, bufferBridge, zapLogger)
	ordersUseCase := ordersUC.New(orderRepo, examRepo, userRepo, resultRepo, messagesUseCase, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Users:    apiHandler.NewUsersHandler(provisioningUseCase, ctxAdapter, zapLogger),
		Orders:   apiHandler.NewOrdersHandler(ordersUseCase, ctxAdapter, zapLogger),
		Messages: apiHandler.NewMessagesHandler(messagesUseCase, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
