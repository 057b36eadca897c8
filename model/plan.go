package model

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DefaultPlanName is used when the subscribe page is opened without ?plan=.
const DefaultPlanName = "basic"

var ErrPlanNotFound = errors.New("plan not found")

// SubscriptionPlan is one purchasable tier of the plan catalog. A nil limit
// means the plan is unlimited for that resource.
type SubscriptionPlan struct {
	ID             uint                        `json:"id" gorm:"primaryKey"`
	Name           string                      `json:"name" gorm:"not null;uniqueIndex"`
	PriceMonthly   decimal.Decimal             `json:"priceMonthly" gorm:"type:numeric(10,2);not null"`
	PriceYearly    decimal.NullDecimal         `json:"priceYearly" gorm:"type:numeric(10,2)"`
	Features       datatypes.JSONSlice[string] `json:"features"`
	MaxAnalyses    *int                        `json:"maxAnalyses,omitempty"`
	MaxKeywords    *int                        `json:"maxKeywords,omitempty"`
	MaxCompetitors *int                        `json:"maxCompetitors,omitempty"`
	StripePriceID  string                      `json:"-"`
	CreatedAt      time.Time                   `json:"-"`
	UpdatedAt      time.Time                   `json:"-"`
}

// ResolvePlan picks the plan whose name equals requested, ignoring case.
// An empty request resolves DefaultPlanName.
func ResolvePlan(catalog []SubscriptionPlan, requested string) (*SubscriptionPlan, error) {
	if requested == "" {
		requested = DefaultPlanName
	}

	for i := range catalog {
		if strings.EqualFold(catalog[i].Name, requested) {
			return &catalog[i], nil
		}
	}

	return nil, ErrPlanNotFound
}

// MonthlyLabel renders the monthly price, e.g. "$19/month".
func (p *SubscriptionPlan) MonthlyLabel() string {
	return formatPrice(p.PriceMonthly) + "/month"
}

// YearlyLabel renders the yearly price or "" when the plan has none.
func (p *SubscriptionPlan) YearlyLabel() string {
	if !p.PriceYearly.Valid {
		return ""
	}
	return formatPrice(p.PriceYearly.Decimal) + "/year"
}

// DisplayName capitalizes the catalog name for headings.
func (p *SubscriptionPlan) DisplayName() string {
	if p.Name == "" {
		return ""
	}
	return strings.ToUpper(p.Name[:1]) + p.Name[1:]
}

// LimitLabel renders a usage cap, "∞" when unset.
func LimitLabel(limit *int) string {
	if limit == nil {
		return "∞"
	}
	return strconv.Itoa(*limit)
}

func formatPrice(d decimal.Decimal) string {
	if d.IsInteger() {
		return "$" + d.String()
	}
	return "$" + d.StringFixed(2)
}

// DefaultPlans is the catalog seeded into an empty database.
func DefaultPlans() []SubscriptionPlan {
	return []SubscriptionPlan{
		{
			Name:         "basic",
			PriceMonthly: decimal.NewFromInt(19),
			PriceYearly:  decimal.NewNullDecimal(decimal.NewFromInt(190)),
			Features: datatypes.JSONSlice[string]{
				"AI keyword research",
				"On-page SEO audits",
				"Weekly rank tracking",
			},
			MaxAnalyses:    intPtr(10),
			MaxKeywords:    intPtr(100),
			MaxCompetitors: intPtr(3),
		},
		{
			Name:         "pro",
			PriceMonthly: decimal.NewFromInt(49),
			PriceYearly:  decimal.NewNullDecimal(decimal.NewFromInt(490)),
			Features: datatypes.JSONSlice[string]{
				"Everything in Basic",
				"AI content briefs",
				"Daily rank tracking",
				"Campaign workflows",
			},
			MaxAnalyses:    intPtr(100),
			MaxKeywords:    intPtr(1000),
			MaxCompetitors: intPtr(10),
		},
		{
			Name:         "agency",
			PriceMonthly: decimal.NewFromInt(149),
			Features: datatypes.JSONSlice[string]{
				"Everything in Pro",
				"Unlimited analyses",
				"White-label reports",
				"Priority support",
			},
		},
	}
}

func intPtr(v int) *int {
	return &v
}
