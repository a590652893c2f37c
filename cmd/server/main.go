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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"sequence-server/internal/config"
	"sequence-server/internal/handler"
	"sequence-server/internal/importer"
	"sequence-server/internal/logger"
	"sequence-server/internal/mediaurl"
	"sequence-server/internal/messaging"
	"sequence-server/internal/middleware"
	"sequence-server/internal/repository"
	"sequence-server/internal/service"
	"sequence-server/migrations"
	"sequence-server/pkg/migration"
)

func main() {
	_ = godotenv.Load()
	log.Println("Запуск Sequence Service...")

	// Загружаем конфиг ДО инициализации логгера
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// --- Инициализация логгера ---
	zapLogger, err := logger.New(logger.Config{
		Level: cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)
	zapLogger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	// Подключение к PostgreSQL
	dbPool, err := setupDatabase(cfg)
	if err != nil {
		zapLogger.Fatal("Не удалось подключиться к БД", zap.Error(err))
	}
	defer dbPool.Close()
	zapLogger.Info("Успешное подключение к PostgreSQL")

	// Применение миграций
	if err := applyMigrations(dbPool); err != nil {
		zapLogger.Fatal("Не удалось применить миграции", zap.Error(err))
	}

	// Подключение к Redis (черновики)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			zapLogger.Fatal("Не удалось подключиться к Redis", zap.Error(err))
		}
	}
	zapLogger.Info("Успешное подключение к Redis")

	// Подключение к RabbitMQ
	rabbitConn, err := connectRabbitMQ(cfg.RabbitMQURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("Не удалось подключиться к RabbitMQ", zap.Error(err))
	}
	defer rabbitConn.Close()
	zapLogger.Info("Успешное подключение к RabbitMQ")

	eventPublisher, err := messaging.NewRabbitMQEventPublisher(rabbitConn, cfg.LifecycleEventQueue)
	if err != nil {
		zapLogger.Fatal("Не удалось создать EventPublisher", zap.Error(err))
	}

	// Клиенты Google API
	apiCtx := context.Background()
	youtubeAPI, err := importer.NewYouTubeAPI(apiCtx, cfg.GoogleAPIKey)
	if err != nil {
		zapLogger.Fatal("Не удалось создать клиент YouTube API", zap.Error(err))
	}
	driveAPI, err := importer.NewDriveAPI(apiCtx, cfg.GoogleAPIKey)
	if err != nil {
		zapLogger.Fatal("Не удалось создать клиент Drive API", zap.Error(err))
	}

	// Инициализация зависимостей
	seqRepo := repository.NewPgSequenceRepository(zapLogger)
	subRepo := repository.NewPgSubmissionRepository(zapLogger)
	draftRepo := repository.NewRedisDraftRepository(redisClient, zapLogger)

	proxy := mediaurl.NewProxyCodec(cfg.ProxyBase)
	sequenceService := service.NewSequenceService(
		seqRepo,
		draftRepo,
		importer.NewYouTubeImporter(youtubeAPI, zapLogger),
		importer.NewKidsImporter(youtubeAPI, zapLogger),
		importer.NewDriveImporter(driveAPI, zapLogger),
		proxy,
		dbPool,
		zapLogger,
	)
	publishingService := service.NewPublishingService(seqRepo, subRepo, eventPublisher, cfg.PublicBase, dbPool, zapLogger)
	sequenceHandler := handler.NewSequenceHandler(sequenceService, publishingService, zapLogger, cfg.JWTSecret)

	// Настройка Gin
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.ZapLoggingMiddleware(zapLogger))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Prometheus /metrics
	prom := ginprometheus.NewPrometheus("sequence_server")
	prom.Use(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Регистрация маршрутов
	sequenceHandler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Запуск HTTP сервера
	go func() {
		zapLogger.Info("Sequence сервер слушает", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Ошибка запуска HTTP сервера", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Получен сигнал завершения, начинаем graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Ошибка при graceful shutdown", zap.Error(err))
	}

	log.Println("Sequence Service успешно остановлен")
}

// setupDatabase инициализирует и возвращает пул соединений с БД
func setupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := cfg.GetDSN()
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать пул соединений: %w", err)
	}
	if err = dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("не удалось подключиться к БД (ping failed): %w", err)
	}
	return dbPool, nil
}

// applyMigrations применяет миграции из встроенной файловой системы.
func applyMigrations(pool *pgxpool.Pool) error {
	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, pool)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return migrator.Up(ctx)
}

// connectRabbitMQ пытается подключиться к RabbitMQ с несколькими попытками
func connectRabbitMQ(url string, logger *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	maxRetries := 5
	retryDelay := 5 * time.Second
	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		logger.Warn("Не удалось подключиться к RabbitMQ",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}
	return nil, err
}
