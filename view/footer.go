package view

import (
	"fmt"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func SiteFooter() g.Node {
	return Footer(
		Class("mt-auto border-t border-slate-200 bg-white py-8"),
		Div(
			Class("container mx-auto flex flex-col items-center justify-between gap-4 px-4 text-sm text-slate-500 md:flex-row"),
			Span(g.Text(fmt.Sprintf("© %d SEOPilot", time.Now().Year()))),
			Nav(
				Class("flex gap-6"),
				g.Attr("aria-label", "Footer"),
				A(Href("/pricing"), Class("hover:text-slate-700"), g.Text("Pricing")),
				A(Href("/workflow"), Class("hover:text-slate-700"), g.Text("Workflow")),
				A(Href("/campaigns"), Class("hover:text-slate-700"), g.Text("Campaigns")),
				A(Href("/auth"), Class("hover:text-slate-700"), g.Text("Sign in")),
			),
		),
	)
}
