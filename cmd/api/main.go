package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizforge/internal/adapter"
	"quizforge/internal/adapter/quizgen"
	"quizforge/internal/cache"
	"quizforge/internal/config"
	"quizforge/internal/database"
	"quizforge/internal/handler"
	"quizforge/internal/ingest"
	"quizforge/internal/logger"
	"quizforge/internal/middleware"
	"quizforge/internal/repository"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Process request
		err := c.Next()

		// Log request details
		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXSQLiteDB(cfg.DB.Path)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	appLogger.Info("Connected to database", zap.String("path", cfg.DB.Path))

	// Initialize Redis client and cache adapter
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	appLogger.Info("Successfully connected to Redis")

	// Initialize repositories
	quizRepository := repository.NewSQLXQuizRepository(db)
	attemptRepository := repository.NewSQLXAttemptRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize document ingestion and quiz generation
	extractor := ingest.NewPDFExtractor()

	model, err := quizgen.NewOpenAIModel(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	generator := quizgen.WithRetry(quizgen.NewGenerator(model, cfg.LLM), cfg.LLM)
	appLogger.Info("Quiz generator initialized", zap.String("model", cfg.LLM.Model))

	// Initialize services
	quizService := service.NewQuizService(extractor, generator, quizRepository, attemptRepository, txManager, cacheAdapter, cfg)
	scoreRecorder := service.NewScoreRecorder(attemptRepository)
	sessionService := service.NewSessionService(quizService, scoreRecorder, cfg.Session.TTL)

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(quizService)
	sessionHandler := handler.NewSessionHandler(sessionService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	// API group; every route requires a platform-issued identity
	apiGroup := app.Group("/api", middleware.Protected(cfg.Auth.JWTSecret))

	apiGroup.Post("/quizzes", quizHandler.CreateQuiz)
	apiGroup.Get("/quizzes/:id", quizHandler.GetQuiz)
	apiGroup.Get("/quizzes/:id/attempt", quizHandler.GetAttempt)
	apiGroup.Post("/quizzes/:id/session", sessionHandler.StartSession)

	apiGroup.Get("/sessions/:id", sessionHandler.GetSession)
	apiGroup.Post("/sessions/:id/select", sessionHandler.SelectOption)
	apiGroup.Post("/sessions/:id/check", sessionHandler.Check)
	apiGroup.Post("/sessions/:id/advance", sessionHandler.Advance)
	apiGroup.Post("/sessions/:id/retry", sessionHandler.Retry)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		appLogger.Error("Failed to close database", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
