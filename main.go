package main

import (
	"log"

	"github.com/hallhub/reservation-service/config"
	"github.com/hallhub/reservation-service/internal/consumer"
	"github.com/hallhub/reservation-service/internal/handler"
	"github.com/hallhub/reservation-service/internal/middleware"
	"github.com/hallhub/reservation-service/internal/repository"
	"github.com/hallhub/reservation-service/internal/service"
	"github.com/hallhub/reservation-service/pkg/blobstore"
	"github.com/hallhub/reservation-service/pkg/database"
	"github.com/hallhub/reservation-service/pkg/logger"
	"github.com/hallhub/reservation-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	zl := logger.New(cfg.Environment)
	defer zl.Sync()

	db := database.NewPostgresDB(cfg.DSN())

	// Messaging, the idempotency cache, and the blob store are all optional
	// collaborators. Leaving their env vars empty runs the service without
	// them.
	var publisher *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		var err error
		publisher, err = rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
	}

	var blobs blobstore.Store
	if cfg.CloudinaryCloudName != "" {
		store, err := blobstore.NewCloudinaryStore(
			cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			log.Fatalf("failed to init blob store: %v", err)
		}
		blobs = store
	}

	hallRepo := repository.NewHallRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	hallSvc := service.NewHallService(hallRepo, bookingRepo, blobs, cfg, zl)
	bookingSvc := service.NewBookingService(bookingRepo, hallRepo, rdb, publisher, cfg, zl)
	lifecycleSvc := service.NewLifecycleService(bookingRepo, publisher, cfg, zl)
	attachmentSvc := service.NewAttachmentService(hallRepo, bookingRepo, blobs, cfg, zl)
	statsSvc := service.NewStatsService(hallRepo, bookingRepo, cfg)

	if cfg.RabbitURL != "" {
		payments, err := rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect payments consumer: %v", err)
		}
		defer payments.Close()

		msgs, err := payments.Consume()
		if err != nil {
			log.Fatalf("failed to start payments consumer: %v", err)
		}
		consumer.NewPaymentConsumer(lifecycleSvc, zl).Start(msgs)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			zl.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "reservation-service"})
	})

	handler.NewHallHandler(hallSvc, attachmentSvc).RegisterRoutes(e)
	handler.NewBookingHandler(bookingSvc, lifecycleSvc, attachmentSvc).RegisterRoutes(e)
	handler.NewStatsHandler(statsSvc).RegisterRoutes(e)

	zl.Info("reservation service starting", zap.String("port", cfg.ServerPort))
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
