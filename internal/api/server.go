package api

import (
	"context"
	"fmt"
	"time"

	_ "pipespec/docs"
	"pipespec/internal/app/auth"
	"pipespec/internal/app/config"
	"pipespec/internal/app/dsn"
	"pipespec/internal/app/handler"
	"pipespec/internal/app/middleware"
	"pipespec/internal/app/redis"
	"pipespec/internal/app/repository"
	"pipespec/internal/app/service"
	"pipespec/internal/app/storage"
	"pipespec/internal/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var _ service.Store = (*repository.Repository)(nil)

// StartServer собирает зависимости и запускает HTTP-сервер
func StartServer(ctx context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg.SetupLogger()

	if err := handler.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		return fmt.Errorf("ошибка инициализации репозитория: %w", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		_ = repo.Close()
		return fmt.Errorf("redis: %w", err)
	}

	opts := service.Options{DefaultPlan: cfg.DefaultPlan}
	if cfg.MinIO.Enabled() {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			_ = repo.Close()
			_ = redisClient.Close()
			return fmt.Errorf("minio: %w", err)
		}
		opts.Logos = minioClient
	} else {
		logrus.Warn("MinIO endpoint is not set, project logos are disabled")
	}

	services := service.New(repo, opts, logrus.NewEntry(logrus.StandardLogger()))
	tokens := auth.NewTokenManager(cfg.JWT)

	h := handler.NewHandler(services, tokens, redisClient, cfg.JWT)
	authMiddleware := middleware.NewAuthMiddleware(tokens, redisClient, services.Users, cfg.JWT.CookieName)

	app := pkg.NewApp(cfg, newRouter(cfg), h, authMiddleware)
	app.OnShutdown(redisClient.Close, repo.Close)

	return app.RunApp(ctx)
}

func newRouter(cfg *config.Config) *gin.Engine {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = storage.MaxLogoSize + 1<<20
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logrus.StandardLogger()),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
