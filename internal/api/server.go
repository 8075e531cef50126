package api

import (
	"context"

	"backend/internal/app/allotment"
	"backend/internal/app/config"
	"backend/internal/app/dsn"
	"backend/internal/app/handler"
	"backend/internal/app/middleware"
	"backend/internal/app/redis"
	"backend/internal/app/repository"
	"backend/internal/app/storage"
	"backend/internal/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func StartServer() {
	logrus.Info("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		// без БД приложение не имеет смысла
		logrus.Fatalf("error initializing repository: %v", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logrus.Fatalf("error initializing redis: %v", err)
	}

	// MinIO опционален: без него недоступна только загрузка проспектов
	minioClient, err := storage.NewMinIOClient(
		cfg.Minio.Endpoint,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.Bucket,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		logrus.Warnf("minio unavailable, prospectus upload disabled: %v", err)
		minioClient = nil
	}

	engine := allotment.NewEngine(repo.DB())

	authHandler := handler.NewAuthHandler(repo, redisClient, cfg)
	apiHandler := handler.NewAPIHandler(repo, engine, minioClient, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	r := gin.Default()
	r.Use(cors.Default())

	apiHandler.RegisterAPIRoutes(r, authMiddleware)

	app := pkg.NewApp(cfg, r)
	app.RunApp()
}
