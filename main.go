package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"vetrina/internal/cart"
	"vetrina/internal/config"
	"vetrina/internal/export"
	"vetrina/internal/handlers"
	"vetrina/internal/middleware"
	"vetrina/internal/repositories"
	"vetrina/internal/services"
	"vetrina/pkg/rabbitmq"
)

// app bundles the services behind the HTTP routes.
type app struct {
	sessions *cart.Sessions
	auth     *services.AuthService
	places   *services.PlaceService
	products *services.ProductService
	carts    *services.CartService
	orders   *services.OrderService
	loc      *time.Location
	broker   string
}

// newServices wires the repositories of store into the services. publisher may be nil.
func newServices(cfg *config.Config, store repositories.Store, publisher services.Publisher, fs afero.Fs) *app {
	notifier := services.NewNotifier(publisher)
	sessions := cart.NewSessions(cfg.SessionTTL)
	products := services.NewProductService(store.Products, nil)
	exporter := export.NewExporter(export.NewDirSink(fs, cfg.ExportDir), log.StandardLogger())

	broker := "disabled"
	if publisher != nil {
		broker = "connected"
	}
	return &app{
		sessions: sessions,
		auth:     services.NewAuthService(store.Users, cfg.JWTSecret, cfg.TokenTTL),
		places:   services.NewPlaceService(store.Places, notifier, cfg.DefaultRegion),
		products: products,
		carts:    services.NewCartService(sessions, products),
		orders:   services.NewOrderService(store.Orders, sessions, notifier, exporter, cfg.ExportOptions()),
		loc:      cfg.Location,
		broker:   broker,
	}
}

// newApp builds the Fiber app with every route registered. Open streams end
// when ctx is cancelled.
func newApp(ctx context.Context, a *app) *fiber.App {
	fiberApp := fiber.New()

	// --- Middleware ---
	fiberApp.Use(logger.New())
	fiberApp.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(ctx)
		return c.Next()
	})

	// --- API Routes ---
	apiV1 := fiberApp.Group("/api/v1")
	session := middleware.SessionRequired(a.auth)
	admin := middleware.AdminRequired()

	handlers.NewAuthHandler(a.auth).RegisterRoutes(apiV1, session, admin)
	handlers.NewPlaceHandler(a.places).RegisterRoutes(apiV1, session, admin)
	handlers.NewProductHandler(a.products, a.loc).RegisterRoutes(apiV1, session, admin)
	handlers.NewCartHandler(a.carts, a.orders).RegisterRoutes(apiV1, session)
	handlers.NewOrderHandler(a.orders).RegisterRoutes(apiV1, session, admin)

	// --- Health Check Endpoint ---
	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitMQ": a.broker,
		})
	})
	return fiberApp
}

// sweepCarts drops idle carts until ctx is done.
func sweepCarts(ctx context.Context, sessions *cart.Sessions, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				log.WithField("carts", n).Debug("Dropped idle carts")
			}
		}
	}
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database ---
	store, err := repositories.OpenStore(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var publisher services.Publisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.WithError(err).Warn("RabbitMQ unavailable, events will only be logged")
		} else {
			defer mqClient.Close()
			publisher = mqClient
			if err := mqClient.ConsumeNotifications(services.HandleNotification); err != nil {
				log.WithError(err).Warn("Failed to start notification consumer")
			}
		}
	}

	a := newServices(cfg, store, publisher, afero.NewOsFs())
	if err := a.auth.EnsureAdmin(cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create bootstrap admin: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweepCarts(ctx, a.sessions, cfg.SessionTTL/4)

	fiberApp := newApp(ctx, a)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := fiberApp.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	cancel()
	if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
