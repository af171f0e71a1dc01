// TradeLifecycleService 主程序
// 功能：提供交易生命周期管理服务，包括创建、审批、修改、撤销、执行与落账
// 架构：基于 DDD + Gin + Kafka，存储支持内存与 MySQL 两种后端
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/tradelifecycle/internal/trade/application"
	"github.com/wyfcoding/tradelifecycle/internal/trade/domain"
	"github.com/wyfcoding/tradelifecycle/internal/trade/infrastructure/messaging"
	"github.com/wyfcoding/tradelifecycle/internal/trade/infrastructure/persistence/memory"
	"github.com/wyfcoding/tradelifecycle/internal/trade/infrastructure/persistence/mysql"
	httphandler "github.com/wyfcoding/tradelifecycle/internal/trade/interfaces/http"
	"github.com/wyfcoding/tradelifecycle/pkg/cache"
	"github.com/wyfcoding/tradelifecycle/pkg/config"
	"github.com/wyfcoding/tradelifecycle/pkg/db"
	"github.com/wyfcoding/tradelifecycle/pkg/logger"
	"github.com/wyfcoding/tradelifecycle/pkg/metrics"
	"github.com/wyfcoding/tradelifecycle/pkg/middleware"
	"github.com/wyfcoding/tradelifecycle/pkg/mq"
	"github.com/wyfcoding/tradelifecycle/pkg/ratelimit"
)

func main() {
	// 1. 加载配置
	configPath := config.GetEnv("CONFIG_PATH", "configs/trade/config.toml")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	loggerCfg := logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}
	if err := logger.Init(loggerCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting TradeLifecycleService",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	// 3. 初始化仓储
	var tradeRepo domain.TradeRepository
	switch cfg.Database.Driver {
	case "mysql":
		dbCfg := db.Config{
			Driver:             cfg.Database.Driver,
			DSN:                cfg.Database.DSN,
			MaxOpenConns:       cfg.Database.MaxOpenConns,
			MaxIdleConns:       cfg.Database.MaxIdleConns,
			ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
			LogEnabled:         cfg.Database.LogEnabled,
			SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		}
		database, err := db.Init(dbCfg)
		if err != nil {
			logger.Fatal(ctx, "Failed to initialize database", "error", err)
		}
		defer database.Close()

		store := mysql.NewTradeStore(database.DB)
		if err := store.AutoMigrate(); err != nil {
			logger.Fatal(ctx, "Failed to migrate database schema", "error", err)
		}
		tradeRepo = store
		logger.Info(ctx, "Using MySQL trade store")
	default:
		tradeRepo = memory.NewTradeStore()
		logger.Info(ctx, "Using in-memory trade store")
	}

	// 4. 初始化 Kafka 事件发布
	var publisher domain.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "Failed to initialize Kafka producer", "error", err)
		}
		defer producer.Close()

		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
		logger.Info(ctx, "Kafka event publishing enabled", "topic", cfg.Kafka.Topic)
	}

	// 5. 初始化应用服务
	tradeAppService, err := application.NewTradeService(cfg.Engine.NodeID, tradeRepo, publisher)
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize trade service", "error", err)
	}

	// 6. 初始化 Redis 与限流器
	var rateLimiter ratelimit.RateLimiter
	if cfg.Redis.Enabled {
		redisCfg := cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ConnTimeout:  cfg.Redis.ConnTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}
		redisCache, err := cache.New(redisCfg)
		if err != nil {
			logger.Fatal(ctx, "Failed to initialize Redis", "error", err)
		}
		defer redisCache.Close()

		rateLimiter = ratelimit.NewRedisRateLimiter(redisCache.GetClient())
	}

	// 7. 初始化指标
	var metricsInstance *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsInstance = metrics.New("lifecycle")
		if err := metricsInstance.Register(); err != nil {
			logger.Fatal(ctx, "Failed to register metrics", "error", err)
		}
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "Failed to start metrics HTTP server", "error", err)
		}
	}

	// 8. 创建 HTTP 服务器
	httpServer := createHTTPServer(cfg, tradeAppService, metricsInstance, rateLimiter)

	// 9. 启动 HTTP 服务器
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		logger.Info(ctx, "Starting HTTP server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server error", "error", err)
		}
	}()

	// 10. 优雅关停
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info(ctx, "Shutting down TradeLifecycleService")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown error", "error", err)
	}

	logger.Info(ctx, "TradeLifecycleService stopped")
}

// createHTTPServer 创建 HTTP 服务器
func createHTTPServer(cfg *config.Config, app *application.TradeService, m *metrics.Metrics, rateLimiter ratelimit.RateLimiter) *http.Server {
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 添加中间件
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	if rateLimiter != nil && cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimitMiddleware(rateLimiter, cfg.RateLimit))
	}

	// 注册路由
	httpHandler := httphandler.NewTradeHandler(app, m)
	httpHandler.RegisterRoutes(router)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
}
