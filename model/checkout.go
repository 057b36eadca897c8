package model

import "errors"

var (
	ErrIdentityRequired          = errors.New("please enter your name and email")
	ErrInvalidCheckoutTransition = errors.New("invalid checkout transition")
)

type CheckoutStage string

const (
	StageCollectingIdentity CheckoutStage = "collecting_identity"
	StageCollectingPayment  CheckoutStage = "collecting_payment"
	StageDone               CheckoutStage = "done"
)

type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

type Notice struct {
	Kind    NoticeKind
	Message string
}

const (
	DemoModeMessage       = "Demo mode: payments are not configured, so no charge will be made."
	PaymentSuccessMessage = "Payment successful! Your subscription is now active."
	PaymentFailureMessage = "Something went wrong while confirming your payment. Please try again."
)

type PaymentStatus string

const (
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentErrored   PaymentStatus = "errored"
)

// PaymentOutcome is the tagged result of a processor confirmation. Message is
// the processor's own text for PaymentFailed.
type PaymentOutcome struct {
	Status  PaymentStatus
	Message string
}

// CheckoutSession is the state of one pass through the subscribe page.
// ClientSecret is written at most once; while it is empty the identity form is
// shown, afterwards only the payment surface is.
type CheckoutSession struct {
	Plan         *SubscriptionPlan
	UserEmail    string
	UserName     string
	ClientSecret string
	Error        string
	Notice       *Notice

	done bool
}

func NewCheckoutSession(plan *SubscriptionPlan) *CheckoutSession {
	return &CheckoutSession{Plan: plan}
}

func (s *CheckoutSession) Stage() CheckoutStage {
	switch {
	case s.done:
		return StageDone
	case s.ClientSecret != "":
		return StageCollectingPayment
	default:
		return StageCollectingIdentity
	}
}

// Submit records the identity fields and clears the previous error. It fails
// without side effects beyond the error message when a field is blank, in
// which case no intent must be requested.
func (s *CheckoutSession) Submit(email, name string) (CreateSubscriptionRequest, error) {
	if s.Stage() != StageCollectingIdentity || s.Plan == nil {
		return CreateSubscriptionRequest{}, ErrInvalidCheckoutTransition
	}

	req := CreateSubscriptionRequest{
		PlanName:  s.Plan.Name,
		UserEmail: email,
		UserName:  name,
	}
	req.Normalize()

	s.UserEmail = req.UserEmail
	s.UserName = req.UserName
	s.Error = ""
	s.Notice = nil

	if req.UserEmail == "" || req.UserName == "" {
		s.Error = ErrIdentityRequired.Error()
		return CreateSubscriptionRequest{}, ErrIdentityRequired
	}

	return req, nil
}

// ApplyIntent moves the session forward with the backend's answer.
func (s *CheckoutSession) ApplyIntent(resp CreateSubscriptionResponse) error {
	if s.Stage() != StageCollectingIdentity {
		return ErrInvalidCheckoutTransition
	}

	switch {
	case resp.ClientSecret != "":
		s.ClientSecret = resp.ClientSecret
	case resp.DemoMode:
		msg := resp.Message
		if msg == "" {
			msg = DemoModeMessage
		}
		s.Notice = &Notice{Kind: NoticeInfo, Message: msg}
	default:
		s.Error = "Failed to create subscription"
	}

	return nil
}

// FailIntent keeps the identity form and shows message.
func (s *CheckoutSession) FailIntent(message string) {
	if s.Stage() != StageCollectingIdentity {
		return
	}
	s.Error = message
}

// ApplyPayment records a confirmation outcome. Failures leave the payment
// surface in place so the user can retry.
func (s *CheckoutSession) ApplyPayment(outcome PaymentOutcome) error {
	if s.Stage() != StageCollectingPayment {
		return ErrInvalidCheckoutTransition
	}

	s.Error = ""
	s.Notice = nil

	switch outcome.Status {
	case PaymentSucceeded:
		s.done = true
		s.Notice = &Notice{Kind: NoticeSuccess, Message: PaymentSuccessMessage}
	case PaymentFailed:
		s.Error = outcome.Message
		if s.Error == "" {
			s.Error = PaymentFailureMessage
		}
	default:
		s.Error = PaymentFailureMessage
	}

	return nil
}
