package view

import (
	"github.com/maragudk/gomponents-heroicons/v2/outline"
	"github.com/notblessy/seopilot/model"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const stripeJS = "https://js.stripe.com/v3/"

// Checkout is everything the subscribe page needs to render a session.
type Checkout struct {
	Session        *model.CheckoutSession
	PublishableKey string
	ReturnURL      string
}

// PlanNotFoundPage is the terminal view for an unknown plan. It offers a
// single way back to pricing.
func PlanNotFoundPage(requested string) g.Node {
	return Page(
		PageConfig{Title: "Plan Not Found", Active: "/pricing"},
		Section(
			ID("plan-not-found"),
			Class("container mx-auto max-w-xl px-4 py-24 text-center"),
			H1(Class("text-3xl font-bold"), g.Text("Plan Not Found")),
			P(Class("mt-4 text-slate-600"),
				g.Textf("We could not find a plan named %q.", requested),
			),
			A(
				Href("/pricing"),
				Class("mt-8 inline-flex items-center gap-2 rounded-md bg-indigo-600 px-6 py-3 font-semibold text-white hover:bg-indigo-500 [&>svg]:h-5 [&>svg]:w-5"),
				outline.ArrowLeft(),
				g.Text("Back to pricing"),
			),
		),
	)
}

// SubscribePage renders the stage the session is in: the identity form, the
// payment surface, or the confirmation.
func SubscribePage(co Checkout) g.Node {
	s := co.Session

	var body g.Node
	var scripts []string
	switch s.Stage() {
	case model.StageCollectingPayment:
		body = PaymentForm(co)
		scripts = []string{stripeJS, "/static/js/checkout.js"}
	case model.StageDone:
		body = Div(
			NoticeAlert(s.Notice),
			A(Href("/"), Class("mt-6 inline-block font-semibold text-indigo-600"), g.Text("Go to home")),
		)
	default:
		body = IdentityForm(s)
	}

	return Page(
		PageConfig{Title: "Subscribe to " + s.Plan.DisplayName(), Active: "/pricing", Scripts: scripts},
		Section(
			ID("subscribe"),
			Class("container mx-auto grid max-w-5xl gap-10 px-4 py-16 md:grid-cols-2"),
			PlanSummary(*s.Plan),
			Div(
				Class("rounded-2xl border border-slate-200 bg-white p-8 shadow-sm"),
				Data("stage", string(s.Stage())),
				body,
			),
		),
	)
}

// PlanSummary is the left column of the subscribe page.
func PlanSummary(p model.SubscriptionPlan) g.Node {
	return Div(
		Data("plan", p.Name),
		H1(Class("text-3xl font-bold"), g.Text(p.DisplayName()+" plan")),
		P(Class("mt-4 text-3xl font-bold text-indigo-600"), Data("price-monthly", ""), g.Text(p.MonthlyLabel())),
		g.If(p.YearlyLabel() != "", P(Class("mt-1 text-sm text-slate-500"), g.Text("or "+p.YearlyLabel()))),
		PlanLimits(p),
		Ul(
			Class("mt-6 list-disc space-y-1 pl-5 text-slate-700"),
			g.Map([]string(p.Features), func(f string) g.Node { return Li(g.Text(f)) }),
		),
	)
}

// IdentityForm collects the subscriber's name and email.
func IdentityForm(s *model.CheckoutSession) g.Node {
	return Div(
		ID("identity"),
		H2(Class("text-xl font-semibold"), g.Text("Your details")),
		Div(Class("mt-4 space-y-3"),
			NoticeAlert(s.Notice),
			Alert(model.NoticeError, s.Error, true),
		),
		Form(
			ID("identity-form"),
			Method("post"),
			Action("/subscribe"),
			Class("mt-6 space-y-4"),
			Data("pending-form", ""),
			Input(Type("hidden"), Name("planName"), Value(s.Plan.Name)),
			formField("userName", "userName", "Full name", "text", s.UserName, "name"),
			formField("userEmail", "userEmail", "Email", "email", s.UserEmail, "email"),
			Button(
				Type("submit"),
				Class("w-full rounded-md bg-indigo-600 px-4 py-3 font-semibold text-white hover:bg-indigo-500 disabled:opacity-50"),
				Data("pending-text", "Processing..."),
				g.Text("Continue to payment"),
			),
		),
	)
}

// PaymentForm mounts the hosted payment element bound to the session's
// client secret. checkout.js performs the confirmation.
func PaymentForm(co Checkout) g.Node {
	return Div(
		ID("payment"),
		H2(Class("text-xl font-semibold"), g.Text("Payment")),
		P(Class("mt-1 text-sm text-slate-500"), g.Textf("Subscribing as %s", co.Session.UserEmail)),
		Div(
			ID("payment-message"),
			Class("mt-4"),
			Alert(model.NoticeError, co.Session.Error, true),
		),
		Form(
			ID("payment-form"),
			Class("mt-6 space-y-6"),
			Data("client-secret", co.Session.ClientSecret),
			Data("publishable-key", co.PublishableKey),
			Data("return-url", co.ReturnURL),
			Div(ID("payment-element")),
			Button(
				ID("submit-payment"),
				Type("submit"),
				Class("w-full rounded-md bg-indigo-600 px-4 py-3 font-semibold text-white hover:bg-indigo-500 disabled:opacity-50"),
				Data("pending-text", "Processing..."),
				g.Text("Pay "+co.Session.Plan.MonthlyLabel()),
			),
		),
	)
}

func formField(id, name, label, kind, value, autocomplete string) g.Node {
	return Div(
		Label(For(id), Class("block text-sm font-medium text-slate-700"), g.Text(label)),
		Input(
			ID(id),
			Name(name),
			Type(kind),
			Value(value),
			Required(),
			AutoComplete(autocomplete),
			Class("mt-1 block w-full rounded-md border border-slate-300 px-3 py-2 focus:border-indigo-500 focus:outline-none"),
		),
	)
}
