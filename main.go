package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sherlockbot/cv-review-backend/database"
	"github.com/sherlockbot/cv-review-backend/internal/config"
	"github.com/sherlockbot/cv-review-backend/internal/handlers"
	"github.com/sherlockbot/cv-review-backend/internal/models"
	"github.com/sherlockbot/cv-review-backend/internal/routes"
	"github.com/sherlockbot/cv-review-backend/internal/services"
	"github.com/sherlockbot/cv-review-backend/internal/storage"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Storage
	var store storage.Store
	if cfg.UseMemoryStore {
		log.Println("Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("Connecting to PostgreSQL database...")
		db, err := database.Connect()
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}

		if err := db.AutoMigrate(
			&models.Session{},
			&models.ReviewResult{},
			&models.PaymentRecord{},
		); err != nil {
			log.Fatal("Failed to migrate database: ", err)
		}
		log.Println("Database migrations completed")

		store = storage.NewDatabaseStore(db)
	}

	// External gateways
	twilioService, err := services.NewTwilioService(cfg)
	if err != nil {
		log.Fatal("Failed to initialize Twilio service: ", err)
	}
	log.Println("Twilio service initialized")

	fileStore, err := services.NewS3FileStore(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to initialize S3 file store: ", err)
	}

	paystackService := services.NewPaystackService(cfg)
	sendgridService := services.NewSendGridService(cfg)

	var analyzer services.Analyzer
	if cfg.AnalysisAPIURL != "" {
		analyzer = services.NewAPIAnalyzer(cfg.AnalysisAPIURL)
		log.Printf("External CV analysis API configured: %s", cfg.AnalysisAPIURL)
	} else {
		log.Println("No CV analysis API configured - using internal analysis")
	}

	// Core services
	sessionService := services.NewSessionService(store, cfg.SessionTTL)
	reportService := services.NewReportService(fileStore)
	reviewService := services.NewReviewService(store, fileStore, analyzer, reportService, sendgridService)
	conversationService := services.NewConversationService(
		sessionService,
		store,
		twilioService,
		twilioService,
		fileStore,
		paystackService,
		reviewService,
		cfg.AdvancedReviewPrice,
		cfg.PaymentCurrency,
	)
	paymentService := services.NewPaymentService(sessionService, store, paystackService, twilioService)

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Sherlock Bot CV Review v" + version,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	routes.SetupRoutes(app, cfg, &routes.Handlers{
		Health:   handlers.NewHealthHandler(version),
		WhatsApp: handlers.NewWhatsAppHandler(conversationService, twilioService),
		Payment:  handlers.NewPaymentHandler(paymentService),
		Review:   handlers.NewReviewHandler(store),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Printf("Sherlock Bot CV Review starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
