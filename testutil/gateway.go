package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/notblessy/seopilot/model"
	"github.com/notblessy/seopilot/utils"
	"github.com/stripe/stripe-go/v76"
)

// ValidSignature is the only webhook signature FakeGateway accepts.
const ValidSignature = "t=1,v1=valid"

// FakeGateway is an in-memory utils.PaymentGateway.
type FakeGateway struct {
	mu sync.Mutex

	Customers      map[string]string
	Subscriptions  map[string]*utils.SubscriptionIntent
	PaymentIntents map[string]*utils.PaymentIntentResult
	PricesCreated  int
	Calls          int

	// CreateErr is returned by CreateSubscription when set.
	CreateErr error
	// PaymentIntentErr is returned by GetPaymentIntent when set.
	PaymentIntentErr error

	seq int
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		Customers:      map[string]string{},
		Subscriptions:  map[string]*utils.SubscriptionIntent{},
		PaymentIntents: map[string]*utils.PaymentIntentResult{},
	}
}

func (f *FakeGateway) FindOrCreateCustomer(ctx context.Context, email, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if id, ok := f.Customers[email]; ok {
		return id, nil
	}
	f.seq++
	id := fmt.Sprintf("cus_%d", f.seq)
	f.Customers[email] = id
	return id, nil
}

func (f *FakeGateway) CreatePrice(ctx context.Context, plan *model.SubscriptionPlan, currency string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.PricesCreated++
	return "price_" + plan.Name, nil
}

func (f *FakeGateway) CreateSubscription(ctx context.Context, customerID, priceID string, metadata map[string]string) (*utils.SubscriptionIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	f.seq++
	intent := &utils.SubscriptionIntent{
		SubscriptionID:  fmt.Sprintf("sub_%d", f.seq),
		CustomerID:      customerID,
		PaymentIntentID: fmt.Sprintf("pi_%d", f.seq),
		ClientSecret:    fmt.Sprintf("pi_%d_secret", f.seq),
		Status:          string(stripe.SubscriptionStatusIncomplete),
	}
	f.Subscriptions[intent.SubscriptionID] = intent
	f.PaymentIntents[intent.PaymentIntentID] = &utils.PaymentIntentResult{
		ID:           intent.PaymentIntentID,
		Status:       string(stripe.PaymentIntentStatusRequiresPaymentMethod),
		ClientSecret: intent.ClientSecret,
	}

	copied := *intent
	return &copied, nil
}

func (f *FakeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*utils.SubscriptionIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	intent, ok := f.Subscriptions[subscriptionID]
	if !ok {
		return nil, &stripe.Error{Msg: "No such subscription"}
	}
	copied := *intent
	return &copied, nil
}

func (f *FakeGateway) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*utils.PaymentIntentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if f.PaymentIntentErr != nil {
		return nil, f.PaymentIntentErr
	}
	pi, ok := f.PaymentIntents[paymentIntentID]
	if !ok {
		return nil, &stripe.Error{Msg: "No such payment_intent"}
	}
	copied := *pi
	return &copied, nil
}

func (f *FakeGateway) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	if signature != ValidSignature {
		return stripe.Event{}, errors.New("signature mismatch")
	}
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return stripe.Event{}, err
	}
	return event, nil
}

// SetPaymentIntent overrides the state of a payment intent.
func (f *FakeGateway) SetPaymentIntent(id, status, lastError string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pi, ok := f.PaymentIntents[id]
	if !ok {
		pi = &utils.PaymentIntentResult{ID: id}
		f.PaymentIntents[id] = pi
	}
	pi.Status = status
	pi.LastError = lastError
}

// SetSubscriptionStatus overrides the state of a subscription.
func (f *FakeGateway) SetSubscriptionStatus(id, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sub, ok := f.Subscriptions[id]; ok {
		sub.Status = status
	}
}

// WebhookPayload builds a raw event body for eventType wrapping object.
func WebhookPayload(eventType string, object map[string]interface{}) []byte {
	raw, _ := json.Marshal(map[string]interface{}{
		"id":     "evt_test",
		"object": "event",
		"type":   eventType,
		"data": map[string]interface{}{
			"object": object,
		},
	})
	return raw
}

// RecordingMailer captures activation emails.
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []string
}

func (m *RecordingMailer) SendSubscriptionActivated(ctx context.Context, toEmail, toName, planName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, toEmail+":"+planName)
	return nil
}
