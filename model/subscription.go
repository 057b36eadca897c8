package model

import (
	"errors"
	"strings"
	"time"
)

var ErrPaymentsDisabled = errors.New("payments are not configured")

type SubscriptionStatus string

const (
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
)

// Subscription mirrors a processor subscription created by the funnel.
type Subscription struct {
	ID                   uint               `json:"id" gorm:"primaryKey"`
	PlanID               uint               `json:"plan_id" gorm:"not null;index"`
	Plan                 SubscriptionPlan   `json:"plan" gorm:"foreignKey:PlanID"`
	UserEmail            string             `json:"user_email" gorm:"not null;index"`
	UserName             string             `json:"user_name" gorm:"not null"`
	StripeCustomerID     string             `json:"-" gorm:"index"`
	StripeSubscriptionID string             `json:"-" gorm:"uniqueIndex"`
	PaymentIntentID      string             `json:"-" gorm:"index"`
	Status               SubscriptionStatus `json:"status" gorm:"type:varchar(20);not null;default:'incomplete'"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// CreateSubscriptionRequest is the body of POST /api/get-or-create-subscription
// and the identity form of the subscribe page.
type CreateSubscriptionRequest struct {
	PlanName  string `json:"planName" form:"planName" validate:"required"`
	UserEmail string `json:"userEmail" form:"userEmail" validate:"required,email"`
	UserName  string `json:"userName" form:"userName" validate:"required"`
}

// Normalize trims surrounding whitespace so blank input counts as missing.
func (r *CreateSubscriptionRequest) Normalize() {
	r.PlanName = strings.TrimSpace(r.PlanName)
	r.UserEmail = strings.TrimSpace(r.UserEmail)
	r.UserName = strings.TrimSpace(r.UserName)
}

// CreateSubscriptionResponse carries either a client secret or the demo flag.
type CreateSubscriptionResponse struct {
	ClientSecret string `json:"clientSecret,omitempty"`
	DemoMode     bool   `json:"demoMode,omitempty"`
	Message      string `json:"message,omitempty"`
}

type SubscriptionResponse struct {
	ID        uint               `json:"id"`
	Plan      string             `json:"plan"`
	Status    SubscriptionStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

func (s *Subscription) ToSubscriptionResponse() SubscriptionResponse {
	return SubscriptionResponse{
		ID:        s.ID,
		Plan:      s.Plan.Name,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}
