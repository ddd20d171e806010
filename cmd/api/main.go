package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"swapskill/internal/adapter/api"
	"swapskill/internal/adapter/api/handler"
	apimiddleware "swapskill/internal/adapter/api/middleware"
	"swapskill/internal/adapter/api/router"
	"swapskill/internal/adapter/repository"
	"swapskill/internal/adapter/repository/memory"
	domainrepo "swapskill/internal/domain/repository"
	"swapskill/internal/domain/service"
	"swapskill/internal/infrastructure/firebase"
	"swapskill/internal/infrastructure/ratelimit"
	"swapskill/internal/infrastructure/storage"
	"swapskill/internal/infrastructure/websocket"
	"swapskill/internal/session"
	"swapskill/internal/usecase"
	"swapskill/pkg/config"
	"swapskill/pkg/logger"
)

// backend is everything that differs between the Firestore and in-memory
// deployments.
type backend struct {
	repos    *domainrepo.Repositories
	verifier apimiddleware.TokenVerifier
	files    service.FileUploadService
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Configure(cfg.LogLevel, cfg.LogPretty, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var be *backend
	switch cfg.DataStore {
	case config.DataStoreMemory:
		if !cfg.IsDevelopment() {
			logger.Error("DATA_STORE=%s is only allowed in development", cfg.DataStore)
			os.Exit(1)
		}
		be = memoryBackend()
	case config.DataStoreFirestore:
		be, err = firestoreBackend(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize Firestore backend: %v", err)
			os.Exit(1)
		}
	default:
		logger.Error("Unknown DATA_STORE %q", cfg.DataStore)
		os.Exit(1)
	}
	defer be.close()

	rateLimiter := ratelimit.NewRateLimiter(nil)
	rateLimiter.StartCleanupRoutine(ctx)

	repos := be.repos
	userUseCase := usecase.NewUserUseCase(repos.Users, repos.Skills, cfg.SearchPageSize)
	skillUseCase := usecase.NewSkillUseCase(repos.Skills)
	swapUseCase := usecase.NewSwapUseCase(repos.SwapRequests, repos.Skills, repos.Users, repos.Notifications, rateLimiter)
	ratingUseCase := usecase.NewRatingUseCase(repos.Ratings, repos.SwapRequests, repos.Notifications)
	chatUseCase := usecase.NewChatUseCase(repos.Conversations, repos.Users, repos.SwapRequests, rateLimiter, cfg.MessagePageSize)
	notificationUseCase := usecase.NewNotificationUseCase(repos.Notifications, cfg.SearchPageSize)
	adminUseCase := usecase.NewAdminUseCase(repos.Users, repos.SwapRequests, repos.Moderation, repos.Notifications, swapUseCase, rateLimiter, cfg.SearchPageSize)
	uploadUseCase := usecase.NewUploadUseCase(be.files, rateLimiter)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	handler.Setup(userUseCase, skillUseCase, swapUseCase, ratingUseCase, chatUseCase, notificationUseCase, adminUseCase, uploadUseCase)
	handler.SetupHealthHandler(cfg.DataStore, wsManager)
	handler.SetupWebSocketHandler(wsManager, session.Services{
		Users:         userUseCase,
		Skills:        skillUseCase,
		Swaps:         swapUseCase,
		Ratings:       ratingUseCase,
		Chat:          chatUseCase,
		Notifications: notificationUseCase,
		Admin:         adminUseCase,
	}, cfg.AllowedOrigins)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.AllowedOrigins}))
	} else {
		e.Use(middleware.CORS())
	}
	e.Use(apimiddleware.RateLimitMiddleware(rateLimiter, ratelimit.ActionHTTPRequest))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(be.verifier, userUseCase)
	adminMiddleware := apimiddleware.NewAdminMiddleware()

	router.Setup(e, authMiddleware, adminMiddleware)

	go func() {
		logger.Info("Starting server on port %s (data store: %s)", cfg.ServerPort, cfg.DataStore)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}

func memoryBackend() *backend {
	logger.Warn("Using in-memory data store; sign in with tokens of the form dev:<uid>")
	return &backend{
		repos:    memory.NewRepositories(memory.NewDB()),
		verifier: firebase.NewDevTokenVerifier(),
		close:    func() {},
	}
}

func firestoreBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	var opt option.ClientOption
	if cfg.ServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON))
	} else {
		if _, err := os.Stat(cfg.ServiceAccountPath); err != nil {
			return nil, err
		}
		logger.Info("Using Firebase service account from file: %s", cfg.ServiceAccountPath)
		opt = option.WithCredentialsFile(cfg.ServiceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		return nil, err
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, err
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		return nil, err
	}

	be := &backend{
		repos:    repository.NewFirestoreRepositories(firestoreClient),
		verifier: firebase.NewFirebaseAuthClient(authClient),
	}

	if cfg.StorageBucket == "" {
		logger.Warn("STORAGE_BUCKET is not set; attachment uploads are disabled")
		be.close = func() { firestoreClient.Close() }
		return be, nil
	}

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.FirebaseProject, opt)
	if err != nil {
		firestoreClient.Close()
		return nil, err
	}
	be.files = storageClient
	be.close = func() {
		storageClient.Close()
		firestoreClient.Close()
	}
	return be, nil
}
