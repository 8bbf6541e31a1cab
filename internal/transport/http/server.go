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

	"devshare/internal/config"
	"devshare/internal/database"
	"devshare/internal/handler"
	"devshare/internal/queue"
	appredis "devshare/internal/redis"
	"devshare/internal/repository"
	"devshare/internal/service"
	"devshare/internal/worker"
)

// Run wires the whole service together and blocks until shutdown.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	snippetRepo := repository.NewSnippetRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Queue
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	// Services
	visibilityService := service.NewVisibilityService(followRepo, blockRepo)
	userService := service.NewUserService(userRepo, publisher)
	profileService := service.NewProfileService(userRepo, followRepo, snippetRepo, documentRepo, visibilityService)
	followService := service.NewFollowService(followRepo, blockRepo, userRepo, publisher)
	blockService := service.NewBlockService(blockRepo, userRepo)
	interactionService := service.NewInteractionService(interactionRepo, snippetRepo, documentRepo, visibilityService, publisher)
	snippetService := service.NewSnippetService(snippetRepo, userRepo, interactionRepo, visibilityService)
	documentService := service.NewDocumentService(documentRepo, userRepo, interactionRepo, visibilityService)
	commentService := service.NewCommentService(commentRepo, snippetRepo, documentRepo, visibilityService, publisher)
	recommendationService := service.NewRecommendationService(interactionRepo, snippetRepo, documentRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	// Background workers
	workerHandler := worker.NewHandler(userService, notificationRepo, blockRepo)
	workerManager := worker.NewManager(consumer, workerHandler, worker.ManagerConfig{
		WorkerCount: cfg.WorkerCount,
	})
	if err := workerManager.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	defer workerManager.Stop()

	router := NewRouter(RouterConfig{
		UserHandler:           handler.NewUserHandler(userService, profileService),
		FollowHandler:         handler.NewFollowHandler(followService),
		BlockHandler:          handler.NewBlockHandler(blockService),
		SnippetHandler:        handler.NewSnippetHandler(snippetService),
		DocumentHandler:       handler.NewDocumentHandler(documentService),
		InteractionHandler:    handler.NewInteractionHandler(interactionService),
		CommentHandler:        handler.NewCommentHandler(commentService),
		RecommendationHandler: handler.NewRecommendationHandler(recommendationService),
		NotificationHandler:   handler.NewNotificationHandler(notificationService),
		AdminHandler:          handler.NewAdminHandler(userService),
		JWTSecret:             cfg.JWTSecret,
		Users:                 userService,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Printf("Received signal %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
