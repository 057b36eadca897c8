package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBasicSession() *CheckoutSession {
	return NewCheckoutSession(&SubscriptionPlan{ID: 1, Name: "basic", PriceMonthly: decimal.NewFromInt(19)})
}

func TestCheckoutSession_StartsCollectingIdentity(t *testing.T) {
	s := newBasicSession()
	assert.Equal(t, StageCollectingIdentity, s.Stage())
	assert.Empty(t, s.ClientSecret)
}

func TestCheckoutSession_SubmitRequiresBothFields(t *testing.T) {
	cases := []struct {
		name, email, user string
	}{
		{"missing email", "", "Jane"},
		{"missing name", "jane@example.com", ""},
		{"blank name", "jane@example.com", "   "},
		{"both missing", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newBasicSession()
			_, err := s.Submit(tc.email, tc.user)
			assert.ErrorIs(t, err, ErrIdentityRequired)
			assert.Equal(t, ErrIdentityRequired.Error(), s.Error)
			assert.Equal(t, StageCollectingIdentity, s.Stage())
		})
	}
}

func TestCheckoutSession_SubmitBuildsRequestAndClearsError(t *testing.T) {
	s := newBasicSession()
	s.Error = "Card declined"

	req, err := s.Submit(" jane@example.com ", "Jane")
	require.NoError(t, err)

	assert.Equal(t, CreateSubscriptionRequest{PlanName: "basic", UserEmail: "jane@example.com", UserName: "Jane"}, req)
	assert.Empty(t, s.Error)
}

func TestCheckoutSession_ClientSecretMovesToPayment(t *testing.T) {
	s := newBasicSession()
	_, err := s.Submit("jane@example.com", "Jane")
	require.NoError(t, err)

	require.NoError(t, s.ApplyIntent(CreateSubscriptionResponse{ClientSecret: "pi_123_secret"}))
	assert.Equal(t, StageCollectingPayment, s.Stage())

	// No way back to the identity form.
	_, err = s.Submit("other@example.com", "Other")
	assert.ErrorIs(t, err, ErrInvalidCheckoutTransition)
	assert.ErrorIs(t, s.ApplyIntent(CreateSubscriptionResponse{ClientSecret: "pi_456_secret"}), ErrInvalidCheckoutTransition)
	assert.Equal(t, "pi_123_secret", s.ClientSecret)

	s.FailIntent("late failure")
	assert.Empty(t, s.Error)
	assert.Equal(t, StageCollectingPayment, s.Stage())
}

func TestCheckoutSession_DemoModeNeverSetsSecret(t *testing.T) {
	s := newBasicSession()
	_, err := s.Submit("jane@example.com", "Jane")
	require.NoError(t, err)

	require.NoError(t, s.ApplyIntent(CreateSubscriptionResponse{DemoMode: true}))
	assert.Empty(t, s.ClientSecret)
	assert.Equal(t, StageCollectingIdentity, s.Stage())
	require.NotNil(t, s.Notice)
	assert.Equal(t, NoticeInfo, s.Notice.Kind)
	assert.Equal(t, DemoModeMessage, s.Notice.Message)

	require.NoError(t, s.ApplyIntent(CreateSubscriptionResponse{DemoMode: true, Message: "Stripe not configured"}))
	assert.Equal(t, "Stripe not configured", s.Notice.Message)
}

func TestCheckoutSession_IntentFailureStaysOnIdentity(t *testing.T) {
	s := newBasicSession()
	_, err := s.Submit("jane@example.com", "Jane")
	require.NoError(t, err)

	s.FailIntent("Card declined")
	assert.Equal(t, "Card declined", s.Error)
	assert.Equal(t, StageCollectingIdentity, s.Stage())
	assert.Equal(t, "jane@example.com", s.UserEmail)

	// resubmission clears the previous error
	_, err = s.Submit("jane@example.com", "Jane")
	require.NoError(t, err)
	assert.Empty(t, s.Error)
}

func TestCheckoutSession_PaymentOutcomes(t *testing.T) {
	paying := func() *CheckoutSession {
		s := newBasicSession()
		_, err := s.Submit("jane@example.com", "Jane")
		require.NoError(t, err)
		require.NoError(t, s.ApplyIntent(CreateSubscriptionResponse{ClientSecret: "secret"}))
		return s
	}

	t.Run("processor error is shown verbatim and retry allowed", func(t *testing.T) {
		s := paying()
		require.NoError(t, s.ApplyPayment(PaymentOutcome{Status: PaymentFailed, Message: "Your card was declined."}))
		assert.Equal(t, "Your card was declined.", s.Error)
		assert.Equal(t, StageCollectingPayment, s.Stage())

		require.NoError(t, s.ApplyPayment(PaymentOutcome{Status: PaymentSucceeded}))
		assert.Equal(t, StageDone, s.Stage())
		assert.Empty(t, s.Error)
	})

	t.Run("unexpected error shows generic notice", func(t *testing.T) {
		s := paying()
		require.NoError(t, s.ApplyPayment(PaymentOutcome{Status: PaymentErrored, Message: "boom"}))
		assert.Equal(t, PaymentFailureMessage, s.Error)
		assert.Equal(t, StageCollectingPayment, s.Stage())
	})

	t.Run("success finishes the session", func(t *testing.T) {
		s := paying()
		require.NoError(t, s.ApplyPayment(PaymentOutcome{Status: PaymentSucceeded}))
		assert.Equal(t, StageDone, s.Stage())
		require.NotNil(t, s.Notice)
		assert.Equal(t, NoticeSuccess, s.Notice.Kind)
		assert.ErrorIs(t, s.ApplyPayment(PaymentOutcome{Status: PaymentSucceeded}), ErrInvalidCheckoutTransition)
	})

	t.Run("payment before secret is rejected", func(t *testing.T) {
		s := newBasicSession()
		assert.ErrorIs(t, s.ApplyPayment(PaymentOutcome{Status: PaymentSucceeded}), ErrInvalidCheckoutTransition)
	})
}

func TestCheckoutSession_SubmitWithoutPlan(t *testing.T) {
	s := NewCheckoutSession(nil)
	_, err := s.Submit("jane@example.com", "Jane")
	assert.ErrorIs(t, err, ErrInvalidCheckoutTransition)
}
