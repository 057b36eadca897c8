package view

import (
	"github.com/maragudk/gomponents-heroicons/v2/outline"
	"github.com/notblessy/seopilot/model"
	"github.com/notblessy/seopilot/utils"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type step struct {
	Title       string
	Description string
	Icon        g.Node
}

type roadmapQuarter struct {
	Quarter string
	Title   string
	Items   []string
}

var roadmap = []roadmapQuarter{
	{
		Quarter: "Q1",
		Title:   "Site analysis",
		Items: []string{
			"Technical audit of titles, meta descriptions and headings",
			"Page speed and Core Web Vitals report",
			"Actionable fixes ranked by impact",
		},
	},
	{
		Quarter: "Q2",
		Title:   "Keyword tracking",
		Items: []string{
			"Daily rank tracking across search engines",
			"Keyword opportunity suggestions from your content",
		},
	},
	{
		Quarter: "Q3",
		Title:   "Competitor intelligence",
		Items: []string{
			"Side-by-side visibility against chosen competitors",
			"Alerts when a competitor overtakes you",
		},
	},
	{
		Quarter: "Q4",
		Title:   "Automated campaigns",
		Items: []string{
			"Workflow builder for recurring SEO tasks",
			"AI-written content briefs for each campaign",
		},
	},
}

// HomePage is the marketing landing page. notice is shown above the hero.
func HomePage(assets utils.Assets, notice *model.Notice) g.Node {
	return Page(
		PageConfig{OGImage: assets.OGImage, Active: "hero"},
		g.If(notice != nil, Div(Class("container mx-auto px-4 pt-6"), NoticeAlert(notice))),
		Hero(assets),
		HowItWorks(),
		Roadmap(),
	)
}

func Hero(assets utils.Assets) g.Node {
	return Section(
		ID("hero"),
		Data("section", ""),
		Class("container mx-auto grid items-center gap-12 px-4 py-24 lg:grid-cols-2"),
		Div(
			Span(Class("rounded-full bg-indigo-100 px-3 py-1 text-sm font-medium text-indigo-700"), g.Text("AI-powered SEO")),
			H1(Class("mt-6 text-4xl font-bold tracking-tight sm:text-6xl"), g.Text("Rank higher without the guesswork")),
			P(Class("mt-6 text-lg text-slate-600"),
				g.Text("SEOPilot audits your site, tracks the keywords that matter and tells you exactly what to fix next."),
			),
			Div(
				Class("mt-10 flex flex-wrap gap-4"),
				A(Href("/subscribe?plan=basic"), Class("rounded-md bg-indigo-600 px-6 py-3 font-semibold text-white hover:bg-indigo-500"), g.Text("Start now")),
				A(Href("/#how-it-works"), Data("nav-anchor", "how-it-works"), Class("rounded-md border border-slate-300 px-6 py-3 font-semibold hover:bg-slate-100"), g.Text("How it works")),
			),
		),
		Img(Src(assets.HeroImage), Alt("SEOPilot dashboard"), Class("w-full rounded-2xl shadow-xl"), g.Attr("loading", "lazy")),
	)
}

func HowItWorks() g.Node {
	steps := []step{
		{Title: "Connect your site", Description: "Add your domain and SEOPilot crawls every page.", Icon: outline.GlobeAlt()},
		{Title: "Get your analysis", Description: "AI scores each page and explains what holds it back.", Icon: outline.ChartBar()},
		{Title: "Fix and grow", Description: "Follow prioritized tasks and watch your rankings climb.", Icon: outline.RocketLaunch()},
	}

	return Section(
		ID("how-it-works"),
		Data("section", ""),
		Class("bg-white py-24"),
		Div(
			Class("container mx-auto px-4"),
			H2(Class("text-center text-3xl font-bold"), g.Text("How it works")),
			Ol(
				Class("mt-12 grid gap-8 md:grid-cols-3"),
				g.Map(steps, func(s step) g.Node {
					return Li(
						Class("rounded-xl border border-slate-200 p-6 [&>svg]:h-8 [&>svg]:w-8 [&>svg]:text-indigo-600"),
						s.Icon,
						H3(Class("mt-4 text-lg font-semibold"), g.Text(s.Title)),
						P(Class("mt-2 text-slate-600"), g.Text(s.Description)),
					)
				}),
			),
		),
	)
}

func Roadmap() g.Node {
	items := make([]AccordionItem, 0, len(roadmap))
	for i, q := range roadmap {
		items = append(items, AccordionItem{
			Title: q.Quarter + ": " + q.Title,
			Body:  q.Items,
			Open:  i == 0,
		})
	}

	return Section(
		ID("roadmap"),
		Data("section", ""),
		Class("py-24"),
		Div(
			Class("container mx-auto max-w-3xl px-4"),
			H2(Class("text-center text-3xl font-bold"), g.Text("Roadmap")),
			P(Class("mt-4 text-center text-slate-600"), g.Text("What we are shipping this year.")),
			Div(Class("mt-10"), Accordion("roadmap-accordion", items)),
		),
	)
}
