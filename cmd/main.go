package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/health-referral-api/config"
	"github.com/oksasatya/health-referral-api/internal/container"
	"github.com/oksasatya/health-referral-api/internal/infrastructure/messaging"
	"github.com/oksasatya/health-referral-api/internal/infrastructure/search"
	"github.com/oksasatya/health-referral-api/internal/interface/middleware"
	"github.com/oksasatya/health-referral-api/internal/router"
	"github.com/oksasatya/health-referral-api/pkg/helpers"
	"github.com/oksasatya/health-referral-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	stores, err := container.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer stores.Close()

	ct := &container.Container{
		Config: cfg,
		Logger: logger,
		Users:  stores.Users,
		Cases:  stores.Cases,
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
	}

	// Redis (optional; rate limiting is skipped without it)
	if rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).Warn("redis unreachable; rate limiting fails open")
		}
		defer func() { _ = rdb.Close() }()
		ct.Redis = rdb
	}

	// GCS for case images. Without a bucket, case creation reports a server error.
	uploader := helpers.NewGCSUploader(nil, cfg.GCSBucket)
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		uploader.Client = gcsClient
	} else {
		logger.Warn("GCS_BUCKET not set; case image uploads are disabled")
	}
	ct.Images = uploader

	// RabbitMQ case.created events (optional)
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQCaseQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; case events disabled")
		} else {
			defer pub.Close()
			ct.Events = messaging.NewCaseEvents(pub)
		}
	}

	// Elasticsearch case search (optional)
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Warn("elasticsearch client init failed; case search disabled")
	} else if es != nil {
		idx := search.NewCaseIndex(es, cfg.ESCasesIndex)
		if err := idx.EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch index setup failed")
		}
		ct.Search = idx
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	corsCfg := cors.Config{
		AllowOrigins:  cfg.CORSOrigins(),
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 1 && corsCfg.AllowOrigins[0] == "*" {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Backend is running") })

	reg := router.NewRegistry(r)
	reg.Use(middleware.RealIP()) // rate-limit keys on /api read the resolved client IP
	router.InitModules(reg, ct)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
