package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/notblessy/seopilot/billing"
	"github.com/notblessy/seopilot/cache"
	"github.com/notblessy/seopilot/config"
	"github.com/notblessy/seopilot/db"
	"github.com/notblessy/seopilot/handler"
	"github.com/notblessy/seopilot/metrics"
	"github.com/notblessy/seopilot/repository"
	"github.com/notblessy/seopilot/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	config.ConfigureLogger(cfg)

	if cfg.Sentry.DSN != "" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: 0.2,
			AttachStacktrace: true,
		})
		if err != nil {
			logrus.Warnf("Sentry not configured: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize database
	postgres, err := db.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(postgres); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(postgres)
	planRepo := repository.NewPlanRepository(postgres)
	subRepo := repository.NewSubscriptionRepository(postgres)

	if err := db.SeedPlans(context.Background(), planRepo); err != nil {
		logrus.Fatalf("Failed to seed plans: %v", err)
	}

	// Plan cache is optional, the catalog reads straight from postgres without it
	var cacheClient *cache.Client
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewClient(cfg.RedisURL)
		if err != nil {
			logrus.Warnf("Redis not available: %v. Plans will not be cached.", err)
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	m := metrics.New()

	var gateway utils.PaymentGateway
	if cfg.Stripe.Enabled() {
		stripeService, err := utils.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
		if err != nil {
			logrus.Fatalf("Failed to initialize stripe: %v", err)
		}
		gateway = stripeService
	} else {
		logrus.Warn("Stripe keys not set, subscribe runs in demo mode")
	}

	mailer := utils.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName, cfg.BaseURL)

	// Cloudinary is optional, pages fall back to embedded images
	cloudinaryService, err := utils.NewCloudinaryService(cfg.CloudinaryURL)
	if err != nil {
		logrus.Warnf("Cloudinary not configured: %v. Using static images.", err)
		cloudinaryService = nil
	}

	catalog := billing.NewCatalog(planRepo, cacheClient, cfg.PlanCacheTTL, m)
	billingService := billing.NewService(planRepo, subRepo, gateway, mailer, m, cfg.Stripe.Currency)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	handler.SetupRoutes(e, handler.Dependencies{
		Config:   cfg,
		UserRepo: userRepo,
		Catalog:  catalog,
		Billing:  billingService,
		Metrics:  m,
		Assets:   utils.ResolveAssets(cloudinaryService),
	})

	// Shared context with cancel
	_, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	// HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Infof("HTTP server starting on %s", cfg.Port)

		if err := e.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("HTTP server error: %v", err)
		}
	}()

	// Signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutdown signal received")

	// Initiate graceful shutdown
	cancel()
	ctxTimeout, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(ctxTimeout); err != nil {
		logrus.Errorf("Server shutdown error: %v", err)
	}

	wg.Wait()
	logrus.Info("All services shut down gracefully")
}
