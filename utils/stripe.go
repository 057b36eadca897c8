package utils

import (
	"context"
	"fmt"

	"github.com/notblessy/seopilot/model"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// SubscriptionIntent is the part of a processor subscription the funnel needs.
type SubscriptionIntent struct {
	SubscriptionID  string
	CustomerID      string
	PaymentIntentID string
	ClientSecret    string
	Status          string
}

// PaymentIntentResult is a retrieved payment intent. LastError holds the
// processor's message from the latest failed attempt.
type PaymentIntentResult struct {
	ID           string
	Status       string
	ClientSecret string
	LastError    string
}

// PaymentGateway is the payment processor as seen by the billing service.
type PaymentGateway interface {
	FindOrCreateCustomer(ctx context.Context, email, name string) (string, error)
	CreatePrice(ctx context.Context, plan *model.SubscriptionPlan, currency string) (string, error)
	CreateSubscription(ctx context.Context, customerID, priceID string, metadata map[string]string) (*SubscriptionIntent, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionIntent, error)
	GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntentResult, error)
	ConstructEvent(payload []byte, signature string) (stripe.Event, error)
}

type StripeService struct {
	api           *client.API
	webhookSecret string
}

func NewStripeService(secretKey, webhookSecret string) (*StripeService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY environment variable is not set")
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeService{api: api, webhookSecret: webhookSecret}, nil
}

// FindOrCreateCustomer reuses the first customer registered under email.
func (s *StripeService) FindOrCreateCustomer(ctx context.Context, email, name string) (string, error) {
	listParams := &stripe.CustomerListParams{Email: stripe.String(email)}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)

	iter := s.api.Customers.List(listParams)
	if iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("failed to look up customer: %w", err)
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx

	cust, err := s.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}

	logrus.WithField("customer_id", cust.ID).Info("Created Stripe customer")
	return cust.ID, nil
}

// CreatePrice creates a monthly recurring price for plan.
func (s *StripeService) CreatePrice(ctx context.Context, plan *model.SubscriptionPlan, currency string) (string, error) {
	params := &stripe.PriceParams{
		Currency:   stripe.String(currency),
		UnitAmount: stripe.Int64(ToMinorUnits(plan.PriceMonthly)),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		},
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String("SEOPilot " + plan.DisplayName()),
		},
	}
	params.Context = ctx
	params.AddMetadata("plan", plan.Name)

	price, err := s.api.Prices.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create price: %w", err)
	}

	return price.ID, nil
}

// CreateSubscription opens an incomplete subscription whose first invoice
// carries the payment intent the browser confirms.
func (s *StripeService) CreateSubscription(ctx context.Context, customerID, priceID string, metadata map[string]string) (*SubscriptionIntent, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
		PaymentSettings: &stripe.SubscriptionPaymentSettingsParams{
			SaveDefaultPaymentMethod: stripe.String("on_subscription"),
		},
	}
	params.Context = ctx
	params.AddExpand("latest_invoice.payment_intent")
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	sub, err := s.api.Subscriptions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return toSubscriptionIntent(sub), nil
}

func (s *StripeService) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionIntent, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	params.AddExpand("latest_invoice.payment_intent")

	sub, err := s.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return toSubscriptionIntent(sub), nil
}

func (s *StripeService) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntentResult, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	result := &PaymentIntentResult{
		ID:           pi.ID,
		Status:       string(pi.Status),
		ClientSecret: pi.ClientSecret,
	}
	if pi.LastPaymentError != nil {
		result.LastError = pi.LastPaymentError.Msg
	}

	return result, nil
}

func (s *StripeService) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	if s.webhookSecret == "" {
		return stripe.Event{}, fmt.Errorf("STRIPE_WEBHOOK_SECRET environment variable is not set")
	}

	return webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

func toSubscriptionIntent(sub *stripe.Subscription) *SubscriptionIntent {
	intent := &SubscriptionIntent{
		SubscriptionID: sub.ID,
		Status:         string(sub.Status),
	}
	if sub.Customer != nil {
		intent.CustomerID = sub.Customer.ID
	}
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		intent.PaymentIntentID = sub.LatestInvoice.PaymentIntent.ID
		intent.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
	}
	return intent
}

// ToMinorUnits converts a currency amount to cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
