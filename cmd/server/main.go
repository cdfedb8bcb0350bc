package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"qube-panel/internal/adapters/credstore"
	"qube-panel/internal/adapters/http/middleware"
	"qube-panel/internal/adapters/http/routes"
	"qube-panel/internal/adapters/upstream"
	"qube-panel/internal/config"
	"qube-panel/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "qube-panel/docs" // Swagger docs
)

// @title Qube Panel API
// @version 1.0
// @description Session, reporting and tracking-link API behind the Qubeagency affiliate panel.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@qubeagency.com.tr

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host panel-api.qubeagency.com.tr
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey SessionAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session id. Browsers use the session cookie instead.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Credential store: Redis when configured, in-memory otherwise
	var store services.CredentialStore
	if cfg.Redis.Addr != "" {
		redisStore, err := credstore.NewRedisStore(cfg.Redis)
		if err != nil {
			log.Fatalf("❌ Failed to connect to redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
		log.Println("✅ Credential store: redis")
	} else {
		store = credstore.NewMemoryStore()
		log.Println("⚠️ Credential store: in-memory (sessions do not survive restarts)")
	}

	// Upstream affiliate backend
	client := upstream.NewClient(cfg.Upstream)
	log.Printf("✅ Upstream backend: %s", cfg.Upstream.BaseURL)

	// Scheduled partner-network campaign sync
	if cfg.Sync.Enabled {
		if cfg.Upstream.ServiceUsername == "" {
			log.Println("⚠️ Network sync enabled but no service account configured, skipping")
		} else {
			cronService := services.NewCronService(client, cfg.Sync.Schedule)
			if err := cronService.Start(); err != nil {
				log.Fatalf("❌ Failed to start cron service: %v", err)
			}
			defer cronService.Stop()
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Qube Panel API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass client, store and cfg for dependency injection)
	routes.Setup(app, client, store, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
