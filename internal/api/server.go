package api

import (
	"context"
	"log"
	"time"

	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/config"
	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/dsn"
	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/handler"
	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/middleware"
	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/redis"
	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/repository"
	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/storage"
	"github.com/sparktechagency/el-badaoui-dashboard/internal/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StartServer собирает все зависимости и запускает HTTP-сервер админ-панели
func StartServer() {
	log.Println("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("ошибка загрузки конфигурации: %v", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		logrus.Fatalf("ошибка инициализации репозитория: %v", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logrus.Fatalf("ошибка подключения к Redis: %v", err)
	}

	// MinIO опционален: без него изображения не загружаются,
	// но остальное API работает
	var minioClient *storage.MinIOClient
	if cfg.Minio.Endpoint != "" {
		minioClient, err = storage.NewMinIOClient(
			cfg.Minio.Endpoint,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.Bucket,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logrus.Warnf("MinIO недоступен, загрузка изображений отключена: %v", err)
			minioClient = nil
		}
	}

	authHandler := handler.NewAuthHandler(repo, redisClient, cfg)
	apiHandler := handler.NewAPIHandler(repo, minioClient, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	r := gin.Default()

	// CORS для SPA админ-панели
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	apiHandler.RegisterAPIRoutes(r, authMiddleware)

	app := pkg.NewApp(cfg, r)
	app.RunApp()

	log.Println("Server down")
}
