package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/hireloop/hireloop-api/internal/config"
	"github.com/hireloop/hireloop-api/internal/database"
	"github.com/hireloop/hireloop-api/internal/handler"
	"github.com/hireloop/hireloop-api/internal/middleware"
	"github.com/hireloop/hireloop-api/internal/models"
	"github.com/hireloop/hireloop-api/internal/repository"
	"github.com/hireloop/hireloop-api/internal/router"
	"github.com/hireloop/hireloop-api/internal/service"
	"github.com/hireloop/hireloop-api/pkg/ai"
	"github.com/hireloop/hireloop-api/pkg/judge"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.CodingQuestion{},
		&models.Drive{},
		&models.Candidate{},
		&models.Submission{},
		&models.QuestionSubmission{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, finalize events will only be logged")
	}

	judgeClient, err := judge.NewClient(judge.Config{
		BaseURL: cfg.JudgeBaseURL,
		APIKey:  cfg.JudgeAPIKey,
		APIHost: cfg.JudgeAPIHost,
		Timeout: cfg.JudgeTimeout,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create judge client: %v", err)
	}

	var reviewer ai.Reviewer
	if !cfg.FeedbackDisabled && cfg.OpenAIAPIKey != "" {
		openAIReviewer, reviewerErr := ai.NewOpenAIReviewer(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if reviewerErr != nil {
			log.Fatalf("failed to create reviewer: %v", reviewerErr)
		}
		reviewer = openAIReviewer
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	submissionRepo := repository.NewSubmissionRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	driveRepo := repository.NewDriveRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)

	testRunner := service.NewTestRunner(judgeClient, logger)
	notifier := service.NewNotifier(natsConn, logger)

	submissionService := service.NewSubmissionService(
		submissionRepo, questionRepo, driveRepo, candidateRepo,
		testRunner, notifier, reviewer, redisClient, validate, logger,
		service.SubmissionConfig{StatsCacheTTL: cfg.StatsCacheTTL},
	)
	questionService := service.NewQuestionService(questionRepo, validate, logger)

	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	questionHandler := handler.NewQuestionHandler(questionService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		SubmissionHandler: submissionHandler,
		QuestionHandler:   questionHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		RunLimiter:        middleware.RateLimit("grading-run", cfg.RunRateLimit, cfg.RunRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
