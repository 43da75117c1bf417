package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"todo-agent/internal/agent"
	"todo-agent/internal/config"
	"todo-agent/internal/db"
	apihttp "todo-agent/internal/http"
	"todo-agent/internal/llm"
	"todo-agent/internal/repository"
	"todo-agent/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	taskRepo := repository.NewPgTaskRepository(pool)
	conversationRepo := repository.NewPgConversationRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, time.Duration(cfg.LLMTimeoutSeconds)*time.Second, logger)

	taskSvc := service.NewTaskService(logger, taskRepo)
	registry, err := agent.NewTaskRegistry(taskSvc)
	if err != nil {
		logger.Fatal("tool registry", zap.Error(err))
	}
	dispatcher := agent.NewDispatcher(registry, logger)
	orchestrator := agent.NewOrchestrator(llmClient, registry, dispatcher, logger)
	chatSvc := service.NewChatService(logger, conversationRepo, messageRepo, orchestrator, cfg.ChatHistoryLimit)
	userSvc := service.NewUserService(logger, userRepo)

	var (
		tokenStore  service.RefreshTokenStore
		chatLimiter service.ChatRateLimiter
		redisClient *redis.Client
	)
	chatLimiter = service.NewChatRateLimiter(time.Duration(cfg.ChatRateWindowSecs)*time.Second, cfg.ChatRateMax)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			chatLimiter = service.NewRedisChatRateLimiter(redisClient, time.Duration(cfg.ChatRateWindowSecs)*time.Second, cfg.ChatRateMax)
		}
		cancel()
	}
	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)

	authHandler := apihttp.NewAuthHandler(logger, userSvc, jwtSvc)
	taskHandler := apihttp.NewTaskHandler(logger, taskSvc)
	chatHandler := apihttp.NewChatHandler(logger, chatSvc, chatLimiter)
	router := apihttp.NewRouter(logger, jwtSvc, authHandler, taskHandler, chatHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
