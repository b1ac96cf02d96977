package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"productapi/internal/handlers"
	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/services"
	"productapi/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Viper reads from environment variables, falling back to these defaults.
	viper.SetDefault("APP_PORT", ":8000")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("SQLITE_PATH", "products.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Initialize Database ---
	// TranslateError is required so constraint violations surface as
	// gorm.ErrDuplicatedKey instead of driver-specific errors.
	gormConfig := &gorm.Config{TranslateError: true}

	var db *gorm.DB
	var err error
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	} else {
		db, err = gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), gormConfig)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Product{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	// Product lifecycle events are only published when a broker URL is
	// configured; the service is fully functional without one.
	var events rabbitmq.Publisher
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, mqErr := rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if mqErr != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", mqErr)
		}
		defer mqClient.Close()
		events = mqClient
	}

	// --- Initialize Repositories, Services, Handlers ---
	productRepo := repositories.NewGORMProductRepository(db)
	productService := services.NewProductService(productRepo, events)
	productHandler := handlers.NewProductHandler(productService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- Liveness Endpoint ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("It's aliveee")
	})

	// --- API Routes ---
	productHandler.RegisterRoutes(app)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
