package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syncfit/connect-api/internal/api"
	"syncfit/connect-api/internal/config"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/payment"
	"syncfit/connect-api/internal/payment/mercadopago"
	"syncfit/connect-api/internal/repository"
	"syncfit/connect-api/internal/repository/mongo"
	"syncfit/connect-api/internal/service"
	"syncfit/connect-api/internal/storage"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title SyncFit Connect API
// @version 1.0
// @description Backend for the SyncFit fitness-training marketplace.
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting SyncFit Connect server...")

	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: Could not read .env file: %v", err)
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	uri, err := cfg.Database.MongoURI()
	if err != nil {
		log.Fatalf("FATAL: Invalid database configuration: %v", err)
	}
	dbClient, err := mongo.ConnectDB(uri)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")
	if !cfg.Database.Transactions {
		log.Println("WARN: Transactions disabled; multi-collection writes fall back to compensation.")
	}

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Println("Index creation process completed.")
	}()

	// --- Optional integrations ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
		log.Printf("INFO: Image storage enabled (bucket %s).", cfg.S3.BucketName)
	} else {
		log.Println("WARN: S3 bucket not configured; image uploads are disabled.")
	}

	var gateway payment.Gateway
	if cfg.Payment.AccessToken != "" {
		adapter, err := mercadopago.NewAdapter(cfg.Payment.AccessToken, cfg.Payment.Currency)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize payment processor: %v", err)
		}
		gateway = adapter
	} else {
		log.Println("WARN: Payment access token not configured; payment intents are disabled.")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	trainerRepo := mongo.NewMongoTrainerRepository(appDB)
	applicationRepo := mongo.NewMongoApplicationRepository(appDB, cfg.Database.Transactions)
	bookingRepo := mongo.NewMongoBookingRepository(appDB)
	paymentRepo := mongo.NewMongoPaymentRepository(appDB, cfg.Database.Transactions)
	subscriberRepo := mongo.NewMongoSubscriberRepository(appDB)

	// --- Initialize Services ---
	services := api.Services{
		Auth:        service.NewAuthService(cfg.JWT.Secret, cfg.JWT.Expiration),
		Users:       service.NewUserService(userRepo),
		Trainers:    service.NewTrainerService(trainerRepo, bookingRepo),
		Application: service.NewApplicationService(applicationRepo, userRepo, cfg.Promotion.DefaultSalary),
		Payments:    service.NewPaymentService(gateway, paymentRepo, trainerRepo),
		Community: service.NewCommunityService(service.CommunityRepos{
			Reviews:     mongo.NewRecordRepository[domain.Review](appDB, mongo.ReviewsCollection, repository.OldestFirst),
			Subscribers: subscriberRepo,
			Forums:      mongo.NewRecordRepository[domain.ForumPost](appDB, mongo.ForumsCollection, repository.NewestFirst),
			Classes:     mongo.NewRecordRepository[domain.Class](appDB, mongo.ClassesCollection, repository.OldestFirst),
			Packages:    mongo.NewRecordRepository[domain.Package](appDB, mongo.PackagesCollection, repository.OldestFirst),
		}),
		Gallery: service.NewGalleryService(
			mongo.NewRecordRepository[domain.Image](appDB, mongo.ImagesCollection, repository.NewestFirst),
			fileStorage,
		),
		Stats: service.NewStatsService(subscriberRepo, bookingRepo),
	}

	// --- Router ---
	router, err := api.NewRouter(cfg.CORS.AllowedOrigins, cfg.Server.TrustedProxies)
	if err != nil {
		log.Fatalf("FATAL: Could not build router: %v", err)
	}
	api.SetupRoutes(router, services, api.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("SyncFit Connect is running on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
