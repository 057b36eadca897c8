package billing

import (
	"context"
	"errors"
	"time"

	"github.com/notblessy/seopilot/cache"
	"github.com/notblessy/seopilot/metrics"
	"github.com/notblessy/seopilot/model"
	"github.com/notblessy/seopilot/repository"
	"github.com/sirupsen/logrus"
)

const planCatalogKey = "plans:catalog"

// Catalog reads the plan catalog, through Redis when a cache client is given.
type Catalog struct {
	planRepo repository.PlanRepository
	cache    *cache.Client
	ttl      time.Duration
	metrics  *metrics.Metrics
}

func NewCatalog(planRepo repository.PlanRepository, cacheClient *cache.Client, ttl time.Duration, m *metrics.Metrics) *Catalog {
	return &Catalog{
		planRepo: planRepo,
		cache:    cacheClient,
		ttl:      ttl,
		metrics:  m,
	}
}

// Plans returns the catalog. Cache failures fall through to the database.
func (c *Catalog) Plans(ctx context.Context) ([]model.SubscriptionPlan, error) {
	logger := logrus.WithField("component", "plan_catalog")

	if c.cache != nil {
		var plans []model.SubscriptionPlan
		err := c.cache.GetJSON(ctx, planCatalogKey, &plans)
		if err == nil {
			c.observe(true)
			return plans, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warnf("Error reading plan cache: %v", err)
		}
	}

	c.observe(false)
	plans, err := c.planRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, planCatalogKey, plans, c.ttl); err != nil {
			logger.Warnf("Error writing plan cache: %v", err)
		}
	}

	return plans, nil
}

// Invalidate drops the cached catalog.
func (c *Catalog) Invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, planCatalogKey); err != nil {
		logrus.Warnf("Error invalidating plan cache: %v", err)
	}
}

func (c *Catalog) observe(hit bool) {
	if c.metrics == nil || c.cache == nil {
		return
	}
	if hit {
		c.metrics.PlanCacheHits.Inc()
		return
	}
	c.metrics.PlanCacheMisses.Inc()
}
