package main

import (
	"context"
	"log"

	"go-event-platform/config"
	"go-event-platform/internal/auth"
	"go-event-platform/internal/cache"
	"go-event-platform/internal/database"
	"go-event-platform/internal/handler"
	"go-event-platform/internal/queue"
	"go-event-platform/internal/repository"
	"go-event-platform/internal/service"
	"go-event-platform/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	if err := database.MigrateUp(&cfg.Database, cfg.Server.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// repositories
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	signupRepo := repository.NewSignupRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)

	// audit pipeline: services 發到 Redis Stream，worker 落地到 Postgres
	auditQueue, err := queue.NewRedisStreamAuditQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize audit queue: %v", err)
	}
	auditWorker := worker.NewAuditWorker(auditRepo, auditQueue)
	if err := auditWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start audit worker: %v", err)
	}

	capacityCache := cache.NewEventCapacityCache(rdb)
	tokens := auth.NewTokenManager(cfg.JWT)

	// services
	auditRecorder := service.NewQueueAuditRecorder(auditQueue)
	eventService := service.NewEventService(eventRepo, userRepo, capacityCache, auditRecorder)
	signupService := service.NewSignupService(pool, eventRepo, signupRepo, capacityCache, auditRecorder)
	authService := service.NewAuthService(userRepo, tokens)
	auditLogService := service.NewAuditLogService(auditRepo)

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	authRequired := auth.Middleware(tokens)
	handler.NewAuthHandler(authService).RegisterRoutes(router)
	handler.NewEventHandler(eventService).RegisterRoutes(router, authRequired)
	handler.NewSignupHandler(signupService).RegisterRoutes(router, authRequired)
	handler.NewLogHandler(auditLogService).RegisterRoutes(router, authRequired)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
