package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/healspace/server/adapters/llm"
	"github.com/healspace/server/adapters/memory"
	"github.com/healspace/server/adapters/mongo"
	redisadapter "github.com/healspace/server/adapters/redis"
	"github.com/healspace/server/domain/repositories"
	"github.com/healspace/server/internal/api"
	"github.com/healspace/server/internal/scheduler"
	"github.com/healspace/server/internal/websocket"
	"github.com/healspace/server/usecase"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx := context.Background()

	// Listener presence: redis when configured, in-memory otherwise
	var presence repositories.PresenceStore
	if os.Getenv("REDIS_ADDR") != "" || os.Getenv("REDIS_URI") != "" || os.Getenv("REDIS_URL") != "" {
		rdb, err := redisadapter.NewClient(ctx, logger)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		presence = redisadapter.NewPresenceStore(rdb, logger)
	} else {
		logger.Info("REDIS_ADDR not set, using in-memory presence store")
		presence = memory.NewPresenceStore()
	}

	directory, err := memory.NewListenerDirectory(ctx, memory.SeedListeners(), presence, logger)
	if err != nil {
		logger.Fatal("Failed to load listener directory", zap.Error(err))
	}

	// Persistence: mongo when configured, in-memory otherwise
	var (
		archive repositories.SessionArchive
		journal repositories.JournalRepository
	)
	if os.Getenv("MONGODB_URI") != "" {
		client, err := mongo.NewClient(logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(shutdownCtx)
		}()
		archive = mongo.NewSessionArchive(client.Database)
		journal = mongo.NewJournalRepository(client.Database)
	} else {
		logger.Info("MONGODB_URI not set, using in-memory persistence")
		archive = memory.NewSessionArchive()
		journal = memory.NewJournalRepository()
	}

	// Generative AI: Gemini when configured, mocks otherwise
	var (
		classifier  repositories.SentimentClassifier
		icebreakers repositories.IcebreakerGenerator
	)
	if os.Getenv("GEMINI_API_KEY") != "" {
		client, err := llm.NewGeminiClient(ctx)
		if err != nil {
			logger.Fatal("Failed to create Gemini client", zap.Error(err))
		}
		classifier = llm.NewGeminiSentimentClassifier(client, logger)
		icebreakers = llm.NewGeminiIcebreakerGenerator(client, logger)
	} else {
		logger.Info("GEMINI_API_KEY not set, using mock AI adapters")
		classifier = llm.NewMockSentimentClassifier()
		icebreakers = llm.NewMockIcebreakerGenerator()
	}

	sched := scheduler.New(logger)

	hub := websocket.NewHub(logger)
	go hub.Run()

	matching := usecase.NewMatchingService(directory, sched, hub, usecase.DefaultMatchPolicy(), logger)
	sessions := usecase.NewSessionService(icebreakers, archive, sched, hub, logger)
	journalService := usecase.NewJournalService(journal, classifier, logger)
	listeners := usecase.NewListenerService(directory, presence, archive, logger)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.InitRoutes(e, &api.Handler{
		Matching:  matching,
		Sessions:  sessions,
		Journal:   journalService,
		Listeners: listeners,
		Hub:       hub,
		Logger:    logger,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("HealSpace server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
