package repository

import (
	"context"
	"errors"

	"github.com/notblessy/seopilot/model"
	"gorm.io/gorm"
)

type PlanRepository interface {
	FindAll(ctx context.Context) ([]model.SubscriptionPlan, error)
	FindByName(ctx context.Context, name string) (*model.SubscriptionPlan, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, plan *model.SubscriptionPlan) error
	Update(ctx context.Context, plan *model.SubscriptionPlan) error
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// FindAll returns the catalog ordered from cheapest to most expensive.
func (r *planRepository) FindAll(ctx context.Context) ([]model.SubscriptionPlan, error) {
	var plans []model.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Order("price_monthly ASC").
		Order("id ASC").
		Find(&plans).Error
	return plans, err
}

// FindByName matches case-insensitively and returns nil when absent.
func (r *planRepository) FindByName(ctx context.Context, name string) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SubscriptionPlan{}).Count(&count).Error
	return count, err
}

func (r *planRepository) Create(ctx context.Context, plan *model.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepository) Update(ctx context.Context, plan *model.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}
