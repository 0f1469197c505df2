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

	"golang-chart-predictor/internal/predictor/config"
	"golang-chart-predictor/internal/predictor/delivery/consumer"
	delivery "golang-chart-predictor/internal/predictor/delivery/http"
	_ "golang-chart-predictor/internal/predictor/docs"
	"golang-chart-predictor/internal/predictor/repository"
	"golang-chart-predictor/internal/predictor/service"
	"golang-chart-predictor/pkg/common"
	"golang-chart-predictor/pkg/logger"
	"golang-chart-predictor/pkg/postgres"
	"golang-chart-predictor/pkg/redis"
	"golang-chart-predictor/pkg/telegram"

	"google.golang.org/genai"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the prediction service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Prediction Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Create the consumer group if it doesn't exist
	// MKSTREAM creates the stream if it doesn't exist
	if err := redisClient.XGroupCreateMkStream(context.Background(), common.RedisStreamPredictionFeedback, common.RedisStreamGroup, "0").Err(); err != nil {
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	observationRepo := repository.NewChartObservationRepository(db.DB, cfg.Predictor.HistoryCacheTTL)
	feedbackRepo := repository.NewPredictionFeedbackRepository(db.DB)
	headlinesRepo := repository.NewMarketHeadlinesRepository(cfg, appLogger)

	// Initialize AI provider
	var visionRepo repository.VisionAIRepository
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		repo, err := repository.NewGeminiVisionRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini vision repository", logger.ErrorField(err))
		}
		visionRepo = repo
	default:
		appLogger.Fatal("Invalid AI provider specified in config", logger.StringField("provider", cfg.AI.Provider))
	}

	telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
	}

	// Initialize services
	chartAnalyzerSvc := service.NewChartAnalyzerService(appLogger, visionRepo, observationRepo)
	predictorSvc := service.NewEnsemblePredictorService(cfg, appLogger, redisClient.Client, chartAnalyzerSvc, observationRepo, visionRepo, headlinesRepo, telegramNotifier)
	feedbackSvc := service.NewFeedbackService(cfg, appLogger, redisClient.Client, feedbackRepo, telegramNotifier)
	outcomeSweepSvc := service.NewOutcomeSweepService(cfg, appLogger, feedbackRepo, telegramNotifier)

	// Start the feedback consumer and the outcome sweep
	redisConsumer := consumer.NewRedisConsumer(cfg, redisClient.Client, feedbackSvc, appLogger)
	redisConsumer.Start(ctx)

	if err := outcomeSweepSvc.Start(); err != nil {
		appLogger.Fatal("Failed to start outcome sweep", logger.ErrorField(err))
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	predictionHandler := delivery.NewPredictionHandler(predictorSvc, appLogger)
	predictionsGroup := apiV1.Group("/predictions")
	predictionHandler.RegisterRoutes(predictionsGroup)

	observationHandler := delivery.NewObservationHandler(observationRepo, feedbackRepo, appLogger)
	observationsGroup := apiV1.Group("/observations")
	observationHandler.RegisterRoutes(observationsGroup)
	feedbacksGroup := apiV1.Group("/feedbacks")
	observationHandler.RegisterFeedbackRoutes(feedbacksGroup)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	outcomeSweepSvc.Stop()
	redisConsumer.Stop()

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Chart Prediction API
// @version 1.0
// @description Ensemble prediction service for chart screenshots.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "prediction-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-predictor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing prediction-service CLI: %s\n", err)
		os.Exit(1)
	}
}
