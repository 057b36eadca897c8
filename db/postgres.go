package db

import (
	"context"
	"fmt"
	"time"

	"github.com/notblessy/seopilot/model"
	"github.com/notblessy/seopilot/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgres(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logrus.Info("Connected to postgres")
	return conn, nil
}

// Migrate creates or updates the tables used by the site.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&model.User{},
		&model.SubscriptionPlan{},
		&model.Subscription{},
	)
}

// SeedPlans inserts the default catalog when the plans table is empty.
func SeedPlans(ctx context.Context, planRepo repository.PlanRepository) error {
	count, err := planRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count plans: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, plan := range model.DefaultPlans() {
		plan := plan
		if err := planRepo.Create(ctx, &plan); err != nil {
			return fmt.Errorf("failed to seed plan %s: %w", plan.Name, err)
		}
	}

	logrus.WithField("plans", len(model.DefaultPlans())).Info("Seeded plan catalog")
	return nil
}
