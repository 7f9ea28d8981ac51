package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-analyzer/internal/config"
	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	jdRepo := repositories.NewJobDescriptionRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	blobStore := services.NewBlobStore(cfg.Storage.UploadPath)
	extractor := services.NewTextExtractor(cfg.Storage.TempDir)
	resumeService := services.NewResumeService(blobStore, extractor, cfg.Storage.ResumeContainer)
	jdService := services.NewJDService(jdRepo)

	modelClient, err := newModelClient(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize model client: %v", err)
	}
	log.Printf("✅ Model client initialized (%s)", modelClient.Name())

	var cache services.AnalysisCache
	redisClient, err := config.InitRedis(cfg)
	if err != nil {
		log.Printf("⚠️ Analysis cache disabled: %v", err)
	} else if redisClient != nil {
		cache = services.NewRedisAnalysisCache(redisClient, cfg.Cache.AnalysisTTL)
	}

	promptBuilder := services.NewPromptBuilder(services.PromptLimits{
		ResumeMaxChars:           cfg.Prompt.ResumeMaxChars,
		PositionMaxChars:         cfg.Prompt.PositionMaxChars,
		RequirementsMaxChars:     cfg.Prompt.RequirementsMaxChars,
		ResponsibilitiesMaxChars: cfg.Prompt.ResponsibilitiesMaxChars,
		QuestionCount:            cfg.Prompt.QuestionCount,
	})
	analyzerService := services.NewAnalyzerService(modelClient, promptBuilder, cache)
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	routes := handlers.NewRouteTable(
		handlers.NewResumeHandler(resumeService),
		handlers.NewAnalyzeHandler(analyzerService),
		handlers.NewJDHandler(jdService),
	)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLM.RequestBudget() + time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		// Preflight is answered by the route table's OPTIONS handlers.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-File-Name, x-ms-file-name",
	}))

	// Routes
	api := app.Group("/api")
	handlers.RegisterRoutes(api, routes)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Resume Analyzer API",
			"version":   "1.0.0",
			"endpoints": handlers.Endpoints("/api", routes),
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Printf("⚠️ Failed to close analysis cache: %v", err)
			}
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func newModelClient(ctx context.Context, cfg *config.Config) (services.ModelClient, error) {
	retry := services.NewRetryPolicy(cfg.LLM.MaxAttempts, cfg.LLM.BackoffCap)

	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		return services.NewGeminiClient(ctx, services.GeminiConfig{
			APIKey:      cfg.LLM.APIKey(),
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
			Retry:       retry,
		})
	default:
		return services.NewOpenAIClient(services.OpenAIConfig{
			APIKey:                cfg.LLM.APIKey(),
			BaseURL:               cfg.LLM.BaseURL,
			Model:                 cfg.LLM.Model,
			Temperature:           cfg.LLM.Temperature,
			MaxTokens:             cfg.LLM.MaxTokens,
			Timeout:               cfg.LLM.Timeout,
			ProbeStructuredOutput: cfg.LLM.ProbeStructuredOutput,
			Retry:                 retry,
		}), nil
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := apperrors.HTTPStatus(err)

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
