package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/notblessy/seopilot/billing"
	"github.com/notblessy/seopilot/model"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
)

const maxWebhookBodyBytes = int64(65536)

type subscriptionHandler struct {
	billing  *billing.Service
	validate *validator.Validate
}

func NewSubscriptionHandler(billingService *billing.Service) *subscriptionHandler {
	return &subscriptionHandler{
		billing:  billingService,
		validate: validator.New(),
	}
}

// GetOrCreateSubscription answers with {clientSecret}, {demoMode, message} or
// {message} on failure.
func (h *subscriptionHandler) GetOrCreateSubscription(c echo.Context) error {
	logger := logrus.WithField("endpoint", "get_or_create_subscription")

	var req model.CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		logger.Errorf("Error parsing request: %v", err)
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
	}

	req.Normalize()
	if err := h.validate.Struct(req); err != nil {
		logger.Warnf("Validation error: %v", err)
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "planName, userEmail and userName are required"})
	}

	resp, err := h.billing.GetOrCreateSubscription(c.Request().Context(), req)
	if err != nil {
		status := intentErrorStatus(err)
		if status >= http.StatusInternalServerError {
			logger.Errorf("Error creating subscription: %v", err)
			captureError(c, err)
		}
		return c.JSON(status, errorResponse{Message: billing.UserMessage(err)})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetSubscriptions lists the signed-in user's subscriptions.
func (h *subscriptionHandler) GetSubscriptions(c echo.Context) error {
	logger := logrus.WithField("endpoint", "get_subscriptions")

	claims, err := authSession(c)
	if err != nil {
		logger.Errorf("Error getting session: %v", err)
		return c.JSON(http.StatusUnauthorized, response{
			Success: false,
			Message: "unauthorized",
		})
	}

	subs, err := h.billing.SubscriptionsFor(c.Request().Context(), claims.Email)
	if err != nil {
		logger.Errorf("Error finding subscriptions: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to retrieve subscriptions",
		})
	}

	data := make([]model.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		data = append(data, subs[i].ToSubscriptionResponse())
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Data:    data,
	})
}

// StripeWebhook applies a signed processor event.
func (h *subscriptionHandler) StripeWebhook(c echo.Context) error {
	logger := logrus.WithField("endpoint", "stripe_webhook")

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBodyBytes))
	if err != nil {
		logger.Errorf("Error reading body: %v", err)
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Message: "failed to read body"})
	}

	err = h.billing.HandleWebhook(c.Request().Context(), payload, c.Request().Header.Get("Stripe-Signature"))
	switch {
	case errors.Is(err, billing.ErrInvalidWebhook):
		logger.Warnf("Rejected webhook: %v", err)
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid webhook"})
	case errors.Is(err, model.ErrPaymentsDisabled):
		return c.JSON(http.StatusNotFound, errorResponse{Message: "payments are not configured"})
	case err != nil:
		logger.Errorf("Error handling webhook: %v", err)
		captureError(c, err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "failed to handle webhook"})
	}

	return c.NoContent(http.StatusOK)
}

func intentErrorStatus(err error) int {
	var stripeErr *stripe.Error
	switch {
	case errors.Is(err, model.ErrPlanNotFound):
		return http.StatusNotFound
	case errors.As(err, &stripeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// captureError reports err to Sentry through the request hub, when one is
// attached.
func captureError(c echo.Context, err error) {
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	if sentry.CurrentHub().Client() != nil {
		sentry.CaptureException(err)
	}
}
