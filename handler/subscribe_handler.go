package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/notblessy/seopilot/billing"
	"github.com/notblessy/seopilot/model"
	"github.com/notblessy/seopilot/utils"
	"github.com/notblessy/seopilot/view"
	"github.com/sirupsen/logrus"
	g "maragu.dev/gomponents"
)

const catalogUnavailableMessage = "We could not load our plans right now. Please try again shortly."

type subscribeHandler struct {
	catalog        *billing.Catalog
	billing        *billing.Service
	assets         utils.Assets
	publishableKey string
	returnURL      string
}

func NewSubscribeHandler(catalog *billing.Catalog, billingService *billing.Service, assets utils.Assets, publishableKey, returnURL string) *subscribeHandler {
	return &subscribeHandler{
		catalog:        catalog,
		billing:        billingService,
		assets:         assets,
		publishableKey: publishableKey,
		returnURL:      returnURL,
	}
}

// SubscribePage resolves ?plan= and shows the identity form, prefilled from
// the session when signed in.
func (h *subscribeHandler) SubscribePage(c echo.Context) error {
	logger := logrus.WithField("endpoint", "subscribe_page")

	requested := c.QueryParam("plan")
	plan, err := h.resolve(c, requested)
	switch {
	case errors.Is(err, model.ErrPlanNotFound):
		return render(c, http.StatusNotFound, view.PlanNotFoundPage(requested))
	case err != nil:
		logger.Errorf("Error loading plans: %v", err)
		return render(c, http.StatusServiceUnavailable, view.PricingPage(nil, catalogUnavailableMessage))
	}

	session := model.NewCheckoutSession(plan)
	if claims, err := authSession(c); err == nil {
		session.UserEmail = claims.Email
		session.UserName = claims.Name
	}

	return render(c, http.StatusOK, h.page(session))
}

// Subscribe handles the identity form. Blank fields are rejected before any
// intent is requested.
func (h *subscribeHandler) Subscribe(c echo.Context) error {
	logger := logrus.WithField("endpoint", "subscribe")

	var req model.CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		logger.Errorf("Error parsing form: %v", err)
		return c.Redirect(http.StatusSeeOther, "/pricing")
	}

	plan, err := h.resolve(c, req.PlanName)
	switch {
	case errors.Is(err, model.ErrPlanNotFound):
		return render(c, http.StatusNotFound, view.PlanNotFoundPage(req.PlanName))
	case err != nil:
		logger.Errorf("Error loading plans: %v", err)
		return render(c, http.StatusServiceUnavailable, view.PricingPage(nil, catalogUnavailableMessage))
	}

	session := model.NewCheckoutSession(plan)
	intentReq, err := session.Submit(req.UserEmail, req.UserName)
	if err != nil {
		return render(c, http.StatusUnprocessableEntity, h.page(session))
	}

	resp, err := h.billing.GetOrCreateSubscription(c.Request().Context(), intentReq)
	if err != nil {
		status := intentErrorStatus(err)
		if status >= http.StatusInternalServerError {
			logger.Errorf("Error creating subscription: %v", err)
			captureError(c, err)
		}
		session.FailIntent(billing.UserMessage(err))
		return render(c, http.StatusOK, h.page(session))
	}

	if err := session.ApplyIntent(*resp); err != nil {
		logger.Errorf("Error applying intent: %v", err)
	}

	return render(c, http.StatusOK, h.page(session))
}

// RateLimited answers a throttled identity form with the form itself and a
// dismissible alert, so the user can submit again later.
func (h *subscribeHandler) RateLimited(c echo.Context) error {
	logger := logrus.WithField("endpoint", "subscribe")

	var req model.CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		logger.Errorf("Error parsing form: %v", err)
		return c.Redirect(http.StatusSeeOther, "/pricing")
	}

	plan, err := h.resolve(c, req.PlanName)
	switch {
	case errors.Is(err, model.ErrPlanNotFound):
		return render(c, http.StatusNotFound, view.PlanNotFoundPage(req.PlanName))
	case err != nil:
		logger.Errorf("Error loading plans: %v", err)
		return render(c, http.StatusServiceUnavailable, view.PricingPage(nil, catalogUnavailableMessage))
	}

	logger.Warnf("Rate limited subscribe from %s", c.RealIP())

	session := model.NewCheckoutSession(plan)
	// the throttle message replaces any field error
	_, _ = session.Submit(req.UserEmail, req.UserName)
	session.FailIntent(rateLimitedMessage)

	return render(c, http.StatusTooManyRequests, h.page(session))
}

// Complete is the processor's return URL. Successful payments go home with a
// notice, failed ones show the payment surface again with the reason.
func (h *subscribeHandler) Complete(c echo.Context) error {
	logger := logrus.WithField("endpoint", "subscribe_complete")

	paymentIntentID := c.QueryParam("payment_intent")
	if paymentIntentID == "" {
		return c.Redirect(http.StatusSeeOther, "/pricing")
	}

	confirmation, err := h.billing.ConfirmPayment(c.Request().Context(), paymentIntentID)
	if errors.Is(err, model.ErrPaymentsDisabled) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if err != nil {
		logger.Errorf("Error confirming payment %s: %v", paymentIntentID, err)
		captureError(c, err)
		return render(c, http.StatusOK, view.HomePage(h.assets, &model.Notice{Kind: model.NoticeError, Message: model.PaymentFailureMessage}))
	}

	if confirmation.Outcome.Status == model.PaymentSucceeded {
		plan := model.DefaultPlanName
		if confirmation.Subscription != nil {
			plan = confirmation.Subscription.Plan.Name
		}
		return c.Redirect(http.StatusSeeOther, "/?subscribed="+url.QueryEscape(plan))
	}

	sub := confirmation.Subscription
	if sub == nil {
		logger.Warnf("No subscription for payment intent %s", paymentIntentID)
		return render(c, http.StatusOK, view.HomePage(h.assets, &model.Notice{Kind: model.NoticeError, Message: model.PaymentFailureMessage}))
	}

	plan := sub.Plan
	session := model.NewCheckoutSession(&plan)
	if _, err := session.Submit(sub.UserEmail, sub.UserName); err != nil {
		logger.Warnf("Stored subscription %d has no identity: %v", sub.ID, err)
		return render(c, http.StatusOK, h.page(session))
	}

	if confirmation.ClientSecret == "" {
		session.FailIntent(confirmation.Outcome.Message)
		return render(c, http.StatusOK, h.page(session))
	}

	if err := session.ApplyIntent(model.CreateSubscriptionResponse{ClientSecret: confirmation.ClientSecret}); err != nil {
		logger.Errorf("Error applying intent: %v", err)
	}
	if err := session.ApplyPayment(confirmation.Outcome); err != nil {
		logger.Errorf("Error applying payment outcome: %v", err)
	}

	return render(c, http.StatusOK, h.page(session))
}

func (h *subscribeHandler) resolve(c echo.Context, requested string) (*model.SubscriptionPlan, error) {
	plans, err := h.catalog.Plans(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return model.ResolvePlan(plans, requested)
}

func (h *subscribeHandler) page(session *model.CheckoutSession) g.Node {
	return view.SubscribePage(view.Checkout{
		Session:        session,
		PublishableKey: h.publishableKey,
		ReturnURL:      h.returnURL,
	})
}
