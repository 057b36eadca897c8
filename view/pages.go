package view

import (
	"github.com/maragudk/gomponents-heroicons/v2/outline"
	"github.com/notblessy/seopilot/model"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// AnalysisPage shows a single site analysis.
func AnalysisPage(analysisID string) g.Node {
	return Page(
		PageConfig{Title: "Analysis " + analysisID},
		Section(
			ID("analysis"),
			Data("analysis-id", analysisID),
			Class("container mx-auto px-4 py-16"),
			H1(Class("text-3xl font-bold"), g.Textf("Analysis #%s", analysisID)),
			P(Class("mt-4 text-slate-600"), g.Text("Your analysis is being prepared. Results appear here as soon as the crawl completes.")),
			Div(
				Class("mt-10 grid gap-6 md:grid-cols-3"),
				statCard("Pages crawled", "-"),
				statCard("Issues found", "-"),
				statCard("SEO score", "-"),
			),
		),
	)
}

func CampaignsPage() g.Node {
	return Page(
		PageConfig{Title: "Campaigns"},
		placeholderSection("campaigns", "Campaigns", "Plan recurring SEO work and track its effect on your rankings.", outline.Megaphone()),
	)
}

func WorkflowPage() g.Node {
	return Page(
		PageConfig{Title: "Workflow"},
		placeholderSection("workflow", "Workflow builder", "Chain analyses, keyword checks and content briefs into automated workflows.", outline.Squares2X2()),
	)
}

// AuthForm is the state of the sign-in page.
type AuthForm struct {
	Email  string
	Name   string
	Error  string
	Notice *model.Notice
	// User is set when a session cookie is present.
	User *model.User
}

func AuthPage(f AuthForm) g.Node {
	var body g.Node
	if f.User != nil {
		body = Div(
			ID("signed-in"),
			P(g.Textf("Signed in as %s (%s).", f.User.Name, f.User.Email)),
			Div(
				Class("mt-6 flex gap-4"),
				A(Href("/pricing"), Class("rounded-md bg-indigo-600 px-4 py-2 font-semibold text-white"), g.Text("View plans")),
				Form(Method("post"), Action("/auth/logout"),
					Button(Type("submit"), Class("rounded-md border border-slate-300 px-4 py-2 font-semibold"), g.Text("Sign out")),
				),
			),
		)
	} else {
		body = Div(
			Class("grid gap-10 md:grid-cols-2"),
			Form(
				ID("login-form"),
				Method("post"),
				Action("/auth/login"),
				Class("space-y-4"),
				Data("pending-form", ""),
				H2(Class("text-xl font-semibold"), g.Text("Sign in")),
				formField("login-email", "email", "Email", "email", f.Email, "email"),
				passwordField("login-password", "current-password"),
				submitButton("Sign in"),
			),
			Form(
				ID("register-form"),
				Method("post"),
				Action("/auth/register"),
				Class("space-y-4"),
				Data("pending-form", ""),
				H2(Class("text-xl font-semibold"), g.Text("Create an account")),
				formField("register-name", "name", "Full name", "text", f.Name, "name"),
				formField("register-email", "email", "Email", "email", f.Email, "email"),
				passwordField("register-password", "new-password"),
				submitButton("Sign up"),
			),
		)
	}

	return Page(
		PageConfig{Title: "Sign in", Active: "/auth"},
		Section(
			ID("auth"),
			Class("container mx-auto max-w-4xl px-4 py-16"),
			Div(Class("mb-6 space-y-3"),
				NoticeAlert(f.Notice),
				Alert(model.NoticeError, f.Error, true),
			),
			body,
		),
	)
}

func NotFoundPage() g.Node {
	return Page(
		PageConfig{Title: "Page Not Found"},
		Section(
			ID("not-found"),
			Class("container mx-auto max-w-xl px-4 py-24 text-center"),
			P(Class("text-6xl font-bold text-indigo-600"), g.Text("404")),
			H1(Class("mt-4 text-3xl font-bold"), g.Text("Page Not Found")),
			P(Class("mt-4 text-slate-600"), g.Text("The page you are looking for does not exist.")),
			A(Href("/"), Class("mt-8 inline-block font-semibold text-indigo-600"), g.Text("Back to home")),
		),
	)
}

func statCard(label, value string) g.Node {
	return Div(
		Class("rounded-xl border border-slate-200 bg-white p-6"),
		P(Class("text-sm text-slate-500"), g.Text(label)),
		P(Class("mt-2 text-2xl font-semibold"), g.Text(value)),
	)
}

func placeholderSection(id, title, description string, icon g.Node) g.Node {
	return Section(
		ID(id),
		Class("container mx-auto max-w-3xl px-4 py-24 text-center"),
		Div(Class("mx-auto w-fit text-indigo-600 [&>svg]:h-12 [&>svg]:w-12"), icon),
		H1(Class("mt-6 text-3xl font-bold"), g.Text(title)),
		P(Class("mt-4 text-slate-600"), g.Text(description)),
		A(Href("/pricing"), Class("mt-8 inline-block rounded-md bg-indigo-600 px-6 py-3 font-semibold text-white"), g.Text("See plans")),
	)
}

func passwordField(id, autocomplete string) g.Node {
	return Div(
		Label(For(id), Class("block text-sm font-medium text-slate-700"), g.Text("Password")),
		Input(
			ID(id),
			Name("password"),
			Type("password"),
			Required(),
			MinLength("8"),
			AutoComplete(autocomplete),
			Class("mt-1 block w-full rounded-md border border-slate-300 px-3 py-2"),
		),
	)
}

func submitButton(label string) g.Node {
	return Button(
		Type("submit"),
		Class("w-full rounded-md bg-indigo-600 px-4 py-2 font-semibold text-white hover:bg-indigo-500 disabled:opacity-50"),
		Data("pending-text", "Please wait..."),
		g.Text(label),
	)
}
