package repository

import (
	"context"
	"errors"

	"github.com/notblessy/seopilot/model"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	FindIncomplete(ctx context.Context, email string, planID uint) (*model.Subscription, error)
	FindByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*model.Subscription, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Subscription, error)
	FindByEmail(ctx context.Context, email string) ([]model.Subscription, error)
	Create(ctx context.Context, subscription *model.Subscription) error
	Update(ctx context.Context, subscription *model.Subscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// FindIncomplete returns the newest unpaid subscription for email on planID.
func (r *subscriptionRepository) FindIncomplete(ctx context.Context, email string, planID uint) (*model.Subscription, error) {
	var subscription model.Subscription
	err := r.db.WithContext(ctx).
		Where("LOWER(user_email) = LOWER(?) AND plan_id = ? AND status = ?", email, planID, model.SubscriptionIncomplete).
		Order("created_at DESC").
		First(&subscription).Error
	return found(&subscription, err)
}

func (r *subscriptionRepository) FindByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*model.Subscription, error) {
	var subscription model.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		First(&subscription).Error
	return found(&subscription, err)
}

func (r *subscriptionRepository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Subscription, error) {
	var subscription model.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("payment_intent_id = ?", paymentIntentID).
		First(&subscription).Error
	return found(&subscription, err)
}

func (r *subscriptionRepository) FindByEmail(ctx context.Context, email string) ([]model.Subscription, error) {
	var subscriptions []model.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("LOWER(user_email) = LOWER(?)", email).
		Order("created_at DESC").
		Find(&subscriptions).Error
	return subscriptions, err
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *model.Subscription) error {
	return r.db.WithContext(ctx).Omit("Plan").Create(subscription).Error
}

func (r *subscriptionRepository) Update(ctx context.Context, subscription *model.Subscription) error {
	return r.db.WithContext(ctx).Omit("Plan").Save(subscription).Error
}

// found maps gorm's not-found error to a nil result.
func found(subscription *model.Subscription, err error) (*model.Subscription, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return subscription, nil
}
