package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"driftline/internal/config"
	"driftline/internal/database"
	"driftline/internal/handler"
	"driftline/internal/queue"
	"driftline/internal/redis"
	"driftline/internal/repository"
	"driftline/internal/service"
	"driftline/internal/worker"
)

// Run wires the whole application and serves HTTP until interrupted.
func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database and apply schema
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. Connect to Redis
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("Connected to Redis successfully")

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	txRunner := repository.NewTxRunner(db)

	// 5. Queue
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	// 6. Services
	userService := service.NewUserService(userRepo, followRepo, postRepo, commentRepo, likeRepo, counterRepo, txRunner)
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	followService := service.NewFollowService(followRepo, userRepo)
	postService := service.NewPostService(postRepo, commentRepo, likeRepo, txRunner)
	threadService := service.NewThreadService(commentRepo, likeRepo, counterRepo, postRepo, txRunner)
	engagementService := service.NewEngagementService(likeRepo, counterRepo, postRepo, commentRepo, txRunner)
	feedService := service.NewFeedService(followRepo, postRepo)
	counterService := service.NewCounterService(counterRepo, postRepo, commentRepo, publisher)

	// 7. Workers
	workerHandler := worker.NewHandler(counterService)
	managerCfg := worker.DefaultManagerConfig()
	managerCfg.WorkerCount = cfg.WorkerCount
	manager := worker.NewManager(consumer, workerHandler, managerCfg)

	if err := manager.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	defer manager.Stop()

	// 8. HTTP handlers and router
	router := NewRouter(RouterConfig{
		AuthHandler:       handler.NewAuthHandler(userService, authService),
		UserHandler:       handler.NewUserHandler(userService),
		FollowHandler:     handler.NewFollowHandler(followService),
		PostHandler:       handler.NewPostHandler(postService),
		CommentHandler:    handler.NewCommentHandler(threadService),
		EngagementHandler: handler.NewEngagementHandler(engagementService),
		FeedHandler:       handler.NewFeedHandler(feedService),
		AdminHandler:      handler.NewAdminHandler(counterService),
		JWTSecret:         cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// 9. Serve until interrupted, then drain
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received %v, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
