package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/notblessy/seopilot/metrics"
	"github.com/notblessy/seopilot/model"
	"github.com/notblessy/seopilot/repository"
	"github.com/notblessy/seopilot/utils"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
)

var (
	ErrInvalidWebhook = errors.New("invalid webhook payload")
	ErrNoPaymentDue   = errors.New("subscription has no payment to confirm")
)

const genericFailureMessage = "Failed to create subscription. Please try again."

// Service issues subscription intents and follows their payment state.
// A nil gateway runs the funnel in demo mode.
type Service struct {
	planRepo repository.PlanRepository
	subRepo  repository.SubscriptionRepository
	gateway  utils.PaymentGateway
	mailer   utils.Mailer
	metrics  *metrics.Metrics
	currency string
}

func NewService(
	planRepo repository.PlanRepository,
	subRepo repository.SubscriptionRepository,
	gateway utils.PaymentGateway,
	mailer utils.Mailer,
	m *metrics.Metrics,
	currency string,
) *Service {
	return &Service{
		planRepo: planRepo,
		subRepo:  subRepo,
		gateway:  gateway,
		mailer:   mailer,
		metrics:  m,
		currency: currency,
	}
}

func (s *Service) PaymentsEnabled() bool {
	return s.gateway != nil
}

// GetOrCreateSubscription returns the client secret of the caller's pending
// subscription on the plan, creating the subscription when there is none.
func (s *Service) GetOrCreateSubscription(ctx context.Context, req model.CreateSubscriptionRequest) (*model.CreateSubscriptionResponse, error) {
	req.Normalize()
	logger := logrus.WithFields(logrus.Fields{
		"plan":  req.PlanName,
		"email": req.UserEmail,
	})

	plan, err := s.planRepo.FindByName(ctx, req.PlanName)
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	if plan == nil {
		s.count("unknown", "plan_not_found")
		return nil, model.ErrPlanNotFound
	}

	if s.gateway == nil {
		logger.Info("Payments disabled, answering in demo mode")
		s.count(plan.Name, "demo")
		return &model.CreateSubscriptionResponse{DemoMode: true, Message: model.DemoModeMessage}, nil
	}

	if resp := s.reusePending(ctx, plan, req.UserEmail); resp != nil {
		logger.Info("Reusing pending subscription")
		s.count(plan.Name, "reused")
		return resp, nil
	}

	priceID, err := s.priceFor(ctx, plan)
	if err != nil {
		s.count(plan.Name, "error")
		return nil, err
	}

	customerID, err := s.gateway.FindOrCreateCustomer(ctx, req.UserEmail, req.UserName)
	if err != nil {
		s.count(plan.Name, "error")
		return nil, err
	}

	intent, err := s.gateway.CreateSubscription(ctx, customerID, priceID, map[string]string{
		"plan":  plan.Name,
		"email": req.UserEmail,
	})
	if err != nil {
		s.count(plan.Name, "error")
		return nil, err
	}
	if intent.ClientSecret == "" {
		s.count(plan.Name, "error")
		return nil, ErrNoPaymentDue
	}

	record := &model.Subscription{
		PlanID:               plan.ID,
		UserEmail:            req.UserEmail,
		UserName:             req.UserName,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: intent.SubscriptionID,
		PaymentIntentID:      intent.PaymentIntentID,
		Status:               toLocalStatus(intent.Status),
	}
	if err := s.subRepo.Create(ctx, record); err != nil {
		s.count(plan.Name, "error")
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	logger.WithField("subscription_id", intent.SubscriptionID).Info("Created subscription")
	s.count(plan.Name, "created")

	return &model.CreateSubscriptionResponse{ClientSecret: intent.ClientSecret}, nil
}

// reusePending answers with the secret of an unpaid subscription already
// issued for email on plan, so repeated submits do not open duplicates.
func (s *Service) reusePending(ctx context.Context, plan *model.SubscriptionPlan, email string) *model.CreateSubscriptionResponse {
	logger := logrus.WithField("plan", plan.Name)

	existing, err := s.subRepo.FindIncomplete(ctx, email, plan.ID)
	if err != nil {
		logger.Warnf("Error finding pending subscription: %v", err)
		return nil
	}
	if existing == nil {
		return nil
	}

	intent, err := s.gateway.GetSubscription(ctx, existing.StripeSubscriptionID)
	if err != nil {
		logger.Warnf("Error fetching pending subscription %s: %v", existing.StripeSubscriptionID, err)
		return nil
	}

	if intent.Status == string(stripe.SubscriptionStatusIncomplete) && intent.ClientSecret != "" {
		if intent.PaymentIntentID != "" && intent.PaymentIntentID != existing.PaymentIntentID {
			existing.PaymentIntentID = intent.PaymentIntentID
			if err := s.subRepo.Update(ctx, existing); err != nil {
				logger.Warnf("Error updating payment intent: %v", err)
			}
		}
		return &model.CreateSubscriptionResponse{ClientSecret: intent.ClientSecret}
	}

	existing.Status = toLocalStatus(intent.Status)
	if err := s.subRepo.Update(ctx, existing); err != nil {
		logger.Warnf("Error updating stale subscription: %v", err)
	}
	return nil
}

// priceFor returns the plan's processor price, creating it on first use.
func (s *Service) priceFor(ctx context.Context, plan *model.SubscriptionPlan) (string, error) {
	if plan.StripePriceID != "" {
		return plan.StripePriceID, nil
	}

	priceID, err := s.gateway.CreatePrice(ctx, plan, s.currency)
	if err != nil {
		return "", err
	}

	plan.StripePriceID = priceID
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return "", fmt.Errorf("failed to save price for plan %s: %w", plan.Name, err)
	}

	return priceID, nil
}

// Confirmation is the result of coming back from the payment processor.
type Confirmation struct {
	Outcome      model.PaymentOutcome
	ClientSecret string
	Subscription *model.Subscription
}

// ConfirmPayment looks up the payment intent the processor redirected back
// with and classifies it.
func (s *Service) ConfirmPayment(ctx context.Context, paymentIntentID string) (*Confirmation, error) {
	if s.gateway == nil {
		return nil, model.ErrPaymentsDisabled
	}

	pi, err := s.gateway.GetPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		s.countConfirmation(model.PaymentErrored)
		return nil, err
	}

	sub, err := s.subRepo.FindByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		logrus.WithField("payment_intent", paymentIntentID).Warnf("Error finding subscription: %v", err)
	}

	confirmation := &Confirmation{
		Outcome:      classifyPaymentIntent(pi),
		ClientSecret: pi.ClientSecret,
		Subscription: sub,
	}
	s.countConfirmation(confirmation.Outcome.Status)

	return confirmation, nil
}

func classifyPaymentIntent(pi *utils.PaymentIntentResult) model.PaymentOutcome {
	switch stripe.PaymentIntentStatus(pi.Status) {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusProcessing:
		return model.PaymentOutcome{Status: model.PaymentSucceeded}
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		msg := pi.LastError
		if msg == "" {
			msg = "Your payment was not completed. Please try another payment method."
		}
		return model.PaymentOutcome{Status: model.PaymentFailed, Message: msg}
	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		return model.PaymentOutcome{Status: model.PaymentFailed, Message: "Your payment needs additional confirmation. Please try again."}
	case stripe.PaymentIntentStatusCanceled:
		return model.PaymentOutcome{Status: model.PaymentFailed, Message: "This payment was canceled."}
	default:
		return model.PaymentOutcome{Status: model.PaymentErrored}
	}
}

// HandleWebhook verifies and applies a processor event.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return model.ErrPaymentsDisabled
	}

	event, err := s.gateway.ConstructEvent(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}
	if event.Data == nil {
		return fmt.Errorf("%w: missing data", ErrInvalidWebhook)
	}

	logger := logrus.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	switch event.Type {
	case "invoice.payment_succeeded":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
		}
		if inv.Subscription == nil {
			return nil
		}
		return s.activate(ctx, inv.Subscription.ID)
	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
		}
		return s.syncStatus(ctx, sub.ID, toLocalStatus(string(sub.Status)))
	default:
		logger.Debug("Ignoring webhook event")
	}

	return nil
}

func (s *Service) activate(ctx context.Context, stripeSubscriptionID string) error {
	logger := logrus.WithField("subscription_id", stripeSubscriptionID)

	sub, err := s.subRepo.FindByStripeSubscriptionID(ctx, stripeSubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to find subscription: %w", err)
	}
	if sub == nil {
		logger.Warn("Payment for unknown subscription")
		return nil
	}
	if sub.Status == model.SubscriptionActive {
		return nil
	}

	sub.Status = model.SubscriptionActive
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}
	logger.Info("Subscription activated")

	if s.mailer != nil {
		if err := s.mailer.SendSubscriptionActivated(ctx, sub.UserEmail, sub.UserName, sub.Plan.Name); err != nil {
			logger.Errorf("Error sending activation email: %v", err)
		}
	}

	return nil
}

func (s *Service) syncStatus(ctx context.Context, stripeSubscriptionID string, status model.SubscriptionStatus) error {
	sub, err := s.subRepo.FindByStripeSubscriptionID(ctx, stripeSubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to find subscription: %w", err)
	}
	if sub == nil || sub.Status == status {
		return nil
	}

	sub.Status = status
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"subscription_id": stripeSubscriptionID,
		"status":          status,
	}).Info("Subscription status synced")
	return nil
}

// SubscriptionsFor lists the subscriptions opened with email.
func (s *Service) SubscriptionsFor(ctx context.Context, email string) ([]model.Subscription, error) {
	return s.subRepo.FindByEmail(ctx, email)
}

// UserMessage is the text shown to the user for a failed intent request.
func UserMessage(err error) string {
	var stripeErr *stripe.Error
	switch {
	case errors.As(err, &stripeErr) && stripeErr.Msg != "":
		return stripeErr.Msg
	case errors.Is(err, model.ErrPlanNotFound):
		return "Plan not found"
	default:
		return genericFailureMessage
	}
}

func toLocalStatus(status string) model.SubscriptionStatus {
	switch stripe.SubscriptionStatus(status) {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return model.SubscriptionActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return model.SubscriptionPastDue
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusIncompleteExpired:
		return model.SubscriptionCanceled
	default:
		return model.SubscriptionIncomplete
	}
}

func (s *Service) count(plan, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.SubscriptionsCreated.WithLabelValues(plan, outcome).Inc()
}

func (s *Service) countConfirmation(status model.PaymentStatus) {
	if s.metrics == nil {
		return
	}
	s.metrics.PaymentConfirmations.WithLabelValues(string(status)).Inc()
}
