package handler

import (
	"net/http"
	"time"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/notblessy/seopilot/billing"
	"github.com/notblessy/seopilot/config"
	"github.com/notblessy/seopilot/metrics"
	"github.com/notblessy/seopilot/repository"
	"github.com/notblessy/seopilot/static"
	"github.com/notblessy/seopilot/utils"
	"golang.org/x/time/rate"
)

type Dependencies struct {
	Config   *config.Config
	UserRepo repository.UserRepository
	Catalog  *billing.Catalog
	Billing  *billing.Service
	Metrics  *metrics.Metrics
	Assets   utils.Assets
}

func SetupRoutes(e *echo.Echo, deps Dependencies) {
	cfg := deps.Config

	e.HTTPErrorHandler = ErrorHandler(e)

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
	}))

	// Logger middleware
	e.Use(middleware.Logger())

	// Recover middleware
	e.Use(middleware.Recover())

	e.Use(middleware.Secure())

	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
		e.GET("/metrics", deps.Metrics.Handler())
	}

	if cfg.Sentry.DSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}

	jwt := NewJWTMiddleware(cfg.JWTSecret, cfg.Secure())
	e.Use(jwt.LoadSession)

	// Health check
	e.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, response{
			Success: true,
			Data:    "pong",
		})
	})

	e.StaticFS("/static", static.FS)

	subscribeStore := newSubscribeStore(cfg.SubscribeRatePerMinute)

	// Site pages
	pageHandler := NewPageHandler(deps.Assets)
	e.GET("/", pageHandler.Home)
	e.GET("/analysis/:analysisId", pageHandler.Analysis)
	e.GET("/campaigns", pageHandler.Campaigns)
	e.GET("/workflow", pageHandler.Workflow)

	planHandler := NewPlanHandler(deps.Catalog)
	e.GET("/pricing", planHandler.PricingPage)

	subscribeHandler := NewSubscribeHandler(deps.Catalog, deps.Billing, deps.Assets, cfg.Stripe.PublishableKey, cfg.ReturnURL())
	e.GET("/subscribe", subscribeHandler.SubscribePage)
	e.POST("/subscribe", subscribeHandler.Subscribe, subscribeLimiter(subscribeStore, subscribeHandler.RateLimited))
	e.GET("/subscribe/complete", subscribeHandler.Complete)

	authHandler := NewAuthHandler(deps.UserRepo, jwt)
	e.GET("/auth", authHandler.AuthPage)
	e.POST("/auth/login", authHandler.PageLogin)
	e.POST("/auth/register", authHandler.PageRegister)
	e.POST("/auth/logout", authHandler.Logout)

	// API routes
	subscriptionHandler := NewSubscriptionHandler(deps.Billing)
	api := e.Group("/api")
	api.GET("/subscription-plans", planHandler.GetPlans)
	api.POST("/get-or-create-subscription", subscriptionHandler.GetOrCreateSubscription, subscribeLimiter(subscribeStore, rateLimitedJSON))
	api.POST("/stripe/webhook", subscriptionHandler.StripeWebhook)

	// Auth routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes (require JWT)
	api.GET("/subscriptions", subscriptionHandler.GetSubscriptions, jwt.ValidateJWT)
}

const rateLimitedMessage = "Too many requests. Please wait a moment and try again."

// newSubscribeStore allows perMinute intent requests per client IP. The form
// and the JSON endpoint share one store.
func newSubscribeStore(perMinute int) middleware.RateLimiterStore {
	if perMinute <= 0 {
		perMinute = 20
	}

	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})
}

// subscribeLimiter limits requests against store and answers denied ones with
// deny.
func subscribeLimiter(store middleware.RateLimiterStore, deny echo.HandlerFunc) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, errorResponse{Message: "cannot identify client"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return deny(c)
		},
	})
}

func rateLimitedJSON(c echo.Context) error {
	return c.JSON(http.StatusTooManyRequests, errorResponse{Message: rateLimitedMessage})
}
