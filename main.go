package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"catalog/internal/cache"
	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	ctx := context.Background()

	db, err := database.New(cfg.DatabaseDSN, gormlogger.Warn)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// --- Optional RabbitMQ client ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: cfg.EventsExchange,
			Queue:    cfg.EventsQueue,
		})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, events will not be published: %v", err)
		} else {
			defer mqClient.Close()
			events = mqClient

			if cfg.LogEvents {
				log.Println("Starting RabbitMQ event logger...")
				if err := mqClient.ConsumeEvents(rabbitmq.LogEvent); err != nil {
					log.Printf("Failed to start RabbitMQ consumer: %v", err)
				}
			}
		}
	}

	// --- Optional redis cache ---
	var productCache services.ProductCache
	if cfg.RedisAddr != "" {
		c, err := cache.New(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			log.Printf("Warning: redis unavailable, product details will not be cached: %v", err)
		} else {
			defer c.Close()
			productCache = c
		}
	}

	if err := seedAdmin(ctx, repositories.NewGORMUserRepository(db), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("Error seeding admin user: %v", err)
	}
	if cfg.SeedDemo {
		seedDemoAttributes(ctx, services.NewAttributeService(repositories.NewGORMAttributeRepository(db)))
	}

	app := newApp(cfg, db, events, productCache)

	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp wires repositories, services and handlers into a Fiber app. events and productCache may be nil.
func newApp(cfg *config.Config, db *gorm.DB, events services.EventPublisher, productCache services.ProductCache) *fiber.App {
	productRepo := repositories.NewGORMProductRepository(db)
	attributeRepo := repositories.NewGORMAttributeRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	sessionRepo := repositories.NewGORMSessionRepository(db)
	otpRepo := repositories.NewGORMOTPRepository(db)

	productService := services.NewProductService(productRepo, productCache, events)
	attributeService := services.NewAttributeService(attributeRepo)
	authService := services.NewAuthService(userRepo, sessionRepo, otpRepo, events, services.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		OTPTTL:    cfg.OTPTTL,
		OTPLength: cfg.OTPLength,
	})

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
			"events": events != nil,
			"cache":  productCache != nil,
		})
	})

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	catalog := apiV1.Group("", middleware.AuthRequired(authService), middleware.AdminOnly())
	handlers.NewProductHandler(productService).RegisterRoutes(catalog)
	handlers.NewAttributeHandler(attributeService).RegisterRoutes(catalog)

	return app
}

// seedAdmin makes sure an active administrator with the given email exists. It does nothing when
// either value is empty.
func seedAdmin(ctx context.Context, users repositories.UserRepository, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	user, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsAdmin && user.IsActive {
			return nil
		}
		user.IsAdmin, user.IsActive = true, true
		return users.Update(ctx, user)
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &models.User{Email: email, Password: string(hashed), IsActive: true, IsAdmin: true}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Seeded admin user: %s (ID: %s)", admin.Email, admin.ID)
	return nil
}

// seedDemoAttributes populates a fresh database with a few common attributes.
func seedDemoAttributes(ctx context.Context, svc *services.AttributeService) {
	demo := []struct {
		name  string
		items []string
	}{
		{"Color", []string{"Red", "Green", "Blue"}},
		{"Size", []string{"S", "M", "L", "XL"}},
		{"Material", []string{"Cotton", "Linen"}},
	}

	for _, d := range demo {
		attribute, err := svc.CreateAttribute(ctx, d.name)
		if errors.Is(err, services.ErrConflict) {
			continue
		}
		if err != nil {
			log.Printf("Error seeding attribute %s: %v", d.name, err)
			continue
		}
		if _, err := svc.CreateAttributeItems(ctx, attribute.ID, d.items); err != nil {
			log.Printf("Error seeding items of attribute %s: %v", d.name, err)
			continue
		}
		log.Printf("Seeded attribute: %s (ID: %s)", attribute.Name, attribute.ID)
	}
}
