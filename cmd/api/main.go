package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/podscribe-team/podscribe/pkg/validator"

	"github.com/podscribe-team/podscribe/internal/adapter/handler"
	"github.com/podscribe-team/podscribe/internal/adapter/repository"
	"github.com/podscribe-team/podscribe/internal/infrastructure/cache"
	"github.com/podscribe-team/podscribe/internal/infrastructure/external/downloader"
	"github.com/podscribe-team/podscribe/internal/infrastructure/external/tracker"
	"github.com/podscribe-team/podscribe/internal/infrastructure/external/youtube"
	httpmw "github.com/podscribe-team/podscribe/internal/infrastructure/http/middleware"
	"github.com/podscribe-team/podscribe/internal/infrastructure/storage"
	"github.com/podscribe-team/podscribe/internal/usecase/chat"
	"github.com/podscribe-team/podscribe/internal/usecase/insights"
	"github.com/podscribe-team/podscribe/internal/usecase/transcript"
	pkgai "github.com/podscribe-team/podscribe/pkg/ai"
	"github.com/podscribe-team/podscribe/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-API-Key"},
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Session store on disk
	log.Println("📦 Initializing session store...")
	sessionRepo, err := repository.NewSessionRepository(cfg.Paths.SessionsDir, logger)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}

	// Acquisition pipeline
	log.Println("🎙️  Initializing acquisition pipeline...")
	captions := youtube.NewClient("", logger)
	ytdlp := downloader.New(cfg.Paths.TempDir, logger)
	speechEngine := pkgai.NewSpeechEngine(&cfg.Assembly)
	acquisition := transcript.NewService(captions, ytdlp, speechEngine, cfg.Assembly.SpeechModel, logger)

	// Language model clients
	log.Println("🤖 Initializing AI components...")
	claudeClient := pkgai.NewClaudeClient(&cfg.Anthropic)
	chatEngine := chat.NewEngine(claudeClient, logger)
	insightService := insights.NewService(claudeClient, logger)

	// Tracker integration (optional, no-op when unconfigured)
	trackerClient := tracker.NewClient(cfg.Tracker.Endpoint, cfg.Tracker.APIKey)
	if trackerClient.Configured() {
		log.Println("🔗 Tracker integration enabled")
	}

	// Optional MinIO transcript archive
	var archive *storage.ArchiveClient
	if cfg.Storage.Enabled {
		log.Println("🗄️  Initializing transcript archive...")
		archive, err = storage.NewArchiveClient(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize transcript archive: %v", err)
		}
	}

	// Handlers
	log.Println("🚀 Initializing handlers...")
	locks := handler.NewUserLocks()
	jobs := handler.NewJobTracker(cache.NewMemoryStore())
	operatorID := cfg.Auth.OperatorID

	transcriptHandler := handler.NewTranscript(
		sessionRepo, acquisition, ytdlp, jobs, locks, archive,
		cfg.Quality.Threshold, operatorID, logger,
	)
	chatHandler := handler.NewChat(sessionRepo, chatEngine, locks, operatorID, logger)
	insightHandler := handler.NewInsights(sessionRepo, insightService, trackerClient, locks, operatorID, logger)
	sessionHandler := handler.NewSession(sessionRepo, locks, operatorID, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	authMW := httpmw.APIKeyAuth(cfg.Auth.APIKey, logger)
	router := handler.NewRouter(cfg, transcriptHandler, chatHandler, insightHandler, sessionHandler, authMW)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
