package view

import (
	"net/url"

	"github.com/maragudk/gomponents-heroicons/v2/outline"
	"github.com/notblessy/seopilot/model"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

var pricingFAQ = []AccordionItem{
	{
		Title: "Can I change plans later?",
		Body:  []string{"Yes. Upgrades apply immediately and downgrades at the end of the billing period."},
	},
	{
		Title: "What happens when I reach a limit?",
		Body:  []string{"Analyses pause until the next billing period or until you upgrade. Nothing is deleted."},
	},
	{
		Title: "Do you offer refunds?",
		Body:  []string{"If SEOPilot is not for you, contact us within 14 days of your first payment for a full refund."},
	},
}

// SubscribeHref is the subscribe link for plan.
func SubscribeHref(planName string) string {
	return "/subscribe?plan=" + url.QueryEscape(planName)
}

// PricingPage lists the plan catalog. loadErr replaces the cards with an
// error alert.
func PricingPage(plans []model.SubscriptionPlan, loadErr string) g.Node {
	return Page(
		PageConfig{Title: "Pricing", Active: "/pricing"},
		Section(
			ID("pricing"),
			Class("container mx-auto px-4 py-20"),
			H1(Class("text-center text-4xl font-bold"), g.Text("Simple, transparent pricing")),
			P(Class("mt-4 text-center text-slate-600"), g.Text("Pick the plan that fits your site. Cancel anytime.")),
			g.If(loadErr != "", Div(Class("mx-auto mt-10 max-w-xl"), Alert(model.NoticeError, loadErr, false))),
			g.If(loadErr == "", Div(
				Class("mt-12 grid gap-8 md:grid-cols-3"),
				g.Map(plans, func(p model.SubscriptionPlan) g.Node { return PlanCard(p) }),
			)),
		),
		Section(
			ID("faq"),
			Class("container mx-auto max-w-3xl px-4 pb-24"),
			H2(Class("text-center text-2xl font-bold"), g.Text("Frequently asked questions")),
			Div(Class("mt-8"), Accordion("pricing-faq", pricingFAQ)),
		),
	)
}

// PlanCard renders one plan with its price, limits and features.
func PlanCard(p model.SubscriptionPlan) g.Node {
	return Div(
		Class("flex flex-col rounded-2xl border border-slate-200 bg-white p-8 shadow-sm"),
		Data("plan", p.Name),
		H3(Class("text-xl font-semibold"), g.Text(p.DisplayName())),
		P(Class("mt-4 text-3xl font-bold"), Data("price-monthly", ""), g.Text(p.MonthlyLabel())),
		g.If(p.YearlyLabel() != "", P(Class("mt-1 text-sm text-slate-500"), g.Text("or "+p.YearlyLabel()))),
		PlanLimits(p),
		Ul(
			Class("mt-6 flex-1 space-y-2"),
			g.Map([]string(p.Features), func(f string) g.Node {
				return Li(
					Class("flex items-start gap-2 text-slate-700 [&>svg]:mt-0.5 [&>svg]:h-5 [&>svg]:w-5 [&>svg]:text-emerald-500"),
					outline.Check(),
					Span(g.Text(f)),
				)
			}),
		),
		A(
			Href(SubscribeHref(p.Name)),
			Class("mt-8 rounded-md bg-indigo-600 px-4 py-2 text-center font-semibold text-white hover:bg-indigo-500"),
			g.Text("Choose "+p.DisplayName()),
		),
	)
}

// PlanLimits lists the usage caps, unset caps shown as unlimited.
func PlanLimits(p model.SubscriptionPlan) g.Node {
	limits := []struct {
		Key   string
		Label string
		Value *int
	}{
		{"analyses", "Analyses", p.MaxAnalyses},
		{"keywords", "Keywords", p.MaxKeywords},
		{"competitors", "Competitors", p.MaxCompetitors},
	}

	return Dl(
		Class("mt-6 grid grid-cols-3 gap-2 text-center text-sm"),
		g.Map(limits, func(l struct {
			Key   string
			Label string
			Value *int
		}) g.Node {
			return Div(
				Dt(Class("text-slate-500"), g.Text(l.Label)),
				Dd(Class("font-semibold"), Data("limit", l.Key), g.Text(model.LimitLabel(l.Value))),
			)
		}),
	)
}
