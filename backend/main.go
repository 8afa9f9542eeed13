package main

import (
	"log"

	"trainhub/backend/config"
	"trainhub/backend/middleware"
	"trainhub/backend/routes"
	"trainhub/backend/services"
	"trainhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Certificate pipeline
	mailer := utils.NewMailer(cfg, logger)
	issuer := &services.CertificateIssuer{
		Renderer: &services.FileRenderer{Dir: cfg.CertificateDir},
	}
	submissions := &services.SubmissionService{Issuer: issuer}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, issuer, submissions, mailer)

	// Expiry reminder scheduler
	scheduler := utils.InitExpiryScheduler(db, mailer, logger)
	defer scheduler.Stop()

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
