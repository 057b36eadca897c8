package repository_test

import (
	"context"
	"testing"

	"github.com/notblessy/seopilot/db"
	"github.com/notblessy/seopilot/model"
	"github.com/notblessy/seopilot/repository"
	"github.com/notblessy/seopilot/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRepository_SeedAndFind(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPlanRepository(testutil.NewDB(t))

	require.NoError(t, db.SeedPlans(ctx, repo))
	// second run is a no-op
	require.NoError(t, db.SeedPlans(ctx, repo))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	plans, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, []string{"basic", "pro", "agency"}, []string{plans[0].Name, plans[1].Name, plans[2].Name})
	assert.Equal(t, "$19/month", plans[0].MonthlyLabel())
	assert.Equal(t, []string{"AI keyword research", "On-page SEO audits", "Weekly rank tracking"}, []string(plans[0].Features))
	require.NotNil(t, plans[0].MaxAnalyses)
	assert.Equal(t, 10, *plans[0].MaxAnalyses)
	assert.Nil(t, plans[2].MaxAnalyses)
	assert.False(t, plans[2].PriceYearly.Valid)

	plan, err := repo.FindByName(ctx, "PRO")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "pro", plan.Name)

	missing, err := repo.FindByName(ctx, "enterprise")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPlanRepository_UpdateStripePrice(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPlanRepository(testutil.NewDB(t))
	require.NoError(t, db.SeedPlans(ctx, repo))

	plan, err := repo.FindByName(ctx, "basic")
	require.NoError(t, err)

	plan.StripePriceID = "price_basic"
	require.NoError(t, repo.Update(ctx, plan))

	reloaded, err := repo.FindByName(ctx, "basic")
	require.NoError(t, err)
	assert.Equal(t, "price_basic", reloaded.StripePriceID)
}

func TestSubscriptionRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	conn := testutil.NewDB(t)
	plans := repository.NewPlanRepository(conn)
	subs := repository.NewSubscriptionRepository(conn)
	require.NoError(t, db.SeedPlans(ctx, plans))

	basic, err := plans.FindByName(ctx, "basic")
	require.NoError(t, err)

	sub := &model.Subscription{
		PlanID:               basic.ID,
		UserEmail:            "jane@example.com",
		UserName:             "Jane",
		StripeCustomerID:     "cus_1",
		StripeSubscriptionID: "sub_1",
		PaymentIntentID:      "pi_1",
		Status:               model.SubscriptionIncomplete,
	}
	require.NoError(t, subs.Create(ctx, sub))

	incomplete, err := subs.FindIncomplete(ctx, "JANE@example.com", basic.ID)
	require.NoError(t, err)
	require.NotNil(t, incomplete)
	assert.Equal(t, "sub_1", incomplete.StripeSubscriptionID)

	byIntent, err := subs.FindByPaymentIntentID(ctx, "pi_1")
	require.NoError(t, err)
	require.NotNil(t, byIntent)
	assert.Equal(t, "basic", byIntent.Plan.Name)

	byIntent.Status = model.SubscriptionActive
	require.NoError(t, subs.Update(ctx, byIntent))

	none, err := subs.FindIncomplete(ctx, "jane@example.com", basic.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	bySub, err := subs.FindByStripeSubscriptionID(ctx, "sub_1")
	require.NoError(t, err)
	require.NotNil(t, bySub)
	assert.Equal(t, model.SubscriptionActive, bySub.Status)

	list, err := subs.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	missing, err := subs.FindByStripeSubscriptionID(ctx, "sub_missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_CreateHashesPassword(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))

	user := &model.User{Email: "Jane@Example.com", Name: "Jane", Password: "supersecret"}
	require.NoError(t, repo.Create(ctx, user))

	stored, err := repo.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret", stored.Password)
	assert.True(t, repository.VerifyPassword(stored.Password, "supersecret"))
	assert.False(t, repository.VerifyPassword(stored.Password, "wrong"))

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
