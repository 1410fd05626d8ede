package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"google.golang.org/api/option"

	httpapi "equiprent-backend/internal/api/http"
	"equiprent-backend/internal/config"
	"equiprent-backend/internal/contract"
	"equiprent-backend/internal/db"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository/postgres"
	"equiprent-backend/internal/security"
	"equiprent-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	migrationsPath := flag.String("migrations", "file://migrations", "Migrations source URL")
	flag.Parse()

	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Equiprent Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	conn, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Test database connection
	if err := conn.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Apply migrations
	if err := db.Migrate(*migrationsPath, cfg); err != nil {
		logger.Error("Failed to apply migrations", "error", err)
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// Initialize Repositories
	store := postgres.NewStore(conn)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize Firebase (optional; password auth works without it)
	fbClient := initFirebase(cfg)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager, fbClient)
	profileSvc := service.NewProfileService(store.ProfileRepository, service.NewProfileCache(cfg.ProfileCacheTTL()))
	equipmentSvc := service.NewEquipmentService(store.EquipmentRepository)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.EquipmentRepository,
		store.ProfileRepository,
		store.NotificationRepository,
		emailSvc,
	)
	notificationSvc := service.NewNotificationService(store.NotificationRepository)
	payments := service.NewPaymentRequester(cfg.Payment.Endpoint, cfg.Payment.APIKey)
	renderer := service.NewDocumentRenderer(cfg.Contracts.RendererEndpoint)
	saver := service.NewFileSaver(cfg.Contracts.DownloadDir)

	// Initialize Contract Pipeline
	pipeline := contract.NewPipeline(
		store.BookingRepository,
		store.ContractRepository,
		store.ProfileRepository,
		store.EquipmentRepository,
		renderer,
		saver,
		emailSvc,
	)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.RouterDeps{
		AuthSvc:         authSvc,
		ProfileSvc:      profileSvc,
		EquipmentSvc:    equipmentSvc,
		BookingSvc:      bookingSvc,
		NotificationSvc: notificationSvc,
		Payments:        payments,
		Pipeline:        pipeline,
		TokenManager:    tokenManager,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

func initFirebase(cfg *config.Config) *fbauth.Client {
	if cfg.Firebase.CredentialsFile == "" {
		logger.Info("Firebase not configured, skipping")
		return nil
	}
	app, err := firebase.NewApp(context.Background(),
		&firebase.Config{ProjectID: cfg.Firebase.ProjectID},
		option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	if err != nil {
		logger.Error("Failed to initialize firebase app", "error", err)
		log.Fatalf("Failed to initialize firebase app: %v", err)
	}
	client, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to initialize firebase auth client", "error", err)
		log.Fatalf("Failed to initialize firebase auth client: %v", err)
	}
	logger.Info("Firebase authentication enabled", "project_id", cfg.Firebase.ProjectID)
	return client
}
