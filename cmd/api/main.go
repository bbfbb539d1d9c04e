package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/patrickboxfordpartners/gravitasindex/internal/infra/database"
	"github.com/patrickboxfordpartners/gravitasindex/internal/infra/http/handlers"
	appmiddleware "github.com/patrickboxfordpartners/gravitasindex/internal/infra/http/middleware"
	"github.com/patrickboxfordpartners/gravitasindex/internal/infra/mail"
	"github.com/patrickboxfordpartners/gravitasindex/internal/infra/queue"
	"github.com/patrickboxfordpartners/gravitasindex/internal/logging"
	"github.com/patrickboxfordpartners/gravitasindex/internal/ratelimit"
	"github.com/patrickboxfordpartners/gravitasindex/internal/usecase"
)

func main() {
	godotenv.Load()

	logger, err := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(os.Getenv("AMQP_URL"))
	if err != nil {
		logger.Fatal("rabbitmq connection failed", zap.Error(err))
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// Repositories
	leadRepo := database.NewLeadRepository(db)
	taskRepo := database.NewSequenceTaskRepository(db)
	subscriptionRepo := database.NewSubscriptionRepository(db)
	analyticsRepo := database.NewAnalyticsRepository(db)

	// Adapters
	producer := queue.NewProducer(rabbitMQ.Ch)
	mailPort, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
	if mailPort == 0 {
		mailPort = 587
	}
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), mailPort, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
	)

	// Analytics worker: drains the queue into analytics_events.
	worker := queue.NewWorker(rabbitMQ.Ch, analyticsRepo, logger)
	go func() {
		if err := worker.Start(context.Background(), queue.QueueName); err != nil && err != context.Canceled {
			logger.Error("analytics worker stopped", zap.Error(err))
		}
	}()

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "https://gravitasindex.com"
	}
	downloadURL := appURL + "/lead-magnets/entity-search-playbook.pdf"

	// UseCases
	scheduler := usecase.NewScheduleSequenceUseCase(taskRepo)
	submitLeadUC := usecase.NewSubmitLeadUseCase(leadRepo, scheduler, mailSender, producer, logger)
	leadMagnetUC := usecase.NewSubmitLeadMagnetUseCase(leadRepo, analyticsRepo, scheduler, mailSender, producer, logger, downloadURL)
	dispatchUC := usecase.NewDispatchSequencesUseCase(taskRepo, leadRepo, mailSender, logger, downloadURL)
	classifyUC := usecase.NewClassifyLeadUseCase(leadRepo, logger)

	// Handlers
	limiter := ratelimit.New()
	leadHandler := handlers.NewLeadHandler(submitLeadUC, limiter)
	leadMagnetHandler := handlers.NewLeadMagnetHandler(leadMagnetUC, limiter)
	dispatchHandler := handlers.NewDispatchHandler(dispatchUC, os.Getenv("CRON_SECRET"))
	classifyHandler := handlers.NewClassifyHandler(classifyUC)
	webhookHandler := handlers.NewWebhookHandler(leadRepo, subscriptionRepo, logger)
	adminHandler := handlers.NewAdminLeadHandler(leadRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// Router
	r := chi.NewRouter()
	r.Use(appmiddleware.RequestLogger(logger))
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{appURL, "http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Post("/api/leads", leadHandler.Handle)
	r.Post("/api/lead-magnet", leadMagnetHandler.Handle)
	r.Post("/api/leads/classify", classifyHandler.Handle)
	r.Get("/api/cron/send-emails", dispatchHandler.Handle)
	r.Post("/webhook/payments", webhookHandler.Handle)

	r.Get("/api/leads", adminHandler.HandleList)
	r.Get("/api/leads/{leadId}", adminHandler.HandleGet)
	r.Patch("/api/leads/{leadId}/status", adminHandler.HandleStatus)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Info("gravitas index API listening", zap.String("port", port))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
