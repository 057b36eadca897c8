package view

import (
	"fmt"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"
)

const (
	defaultTitle       = "SEOPilot - AI-powered SEO"
	defaultDescription = "SEOPilot analyzes your site, tracks keywords and watches competitors so your content ranks."
)

type PageConfig struct {
	Title       string
	Description string
	OGImage     string
	// Active is the header entry to highlight: a section id or a route path.
	Active string
	// Scripts are extra script URLs loaded after the shared ones.
	Scripts []string
}

// Page wraps content in the shared document, header and footer.
func Page(config PageConfig, content ...g.Node) g.Node {
	title := defaultTitle
	if config.Title != "" {
		title = fmt.Sprintf("%s - SEOPilot", config.Title)
	}

	if config.Description == "" {
		config.Description = defaultDescription
	}

	return c.HTML5(c.HTML5Props{
		Title:       title,
		Description: config.Description,
		Language:    "en",
		Head: []g.Node{
			Meta(g.Attr("property", "og:title"), Content(title)),
			Meta(g.Attr("property", "og:description"), Content(config.Description)),
			Meta(g.Attr("property", "og:type"), Content("website")),
			g.If(config.OGImage != "", Meta(g.Attr("property", "og:image"), Content(config.OGImage))),
			Link(Rel("icon"), Href("/static/img/favicon.svg")),
			Script(Src("https://cdn.tailwindcss.com")),
			Link(Rel("stylesheet"), Href("/static/css/site.css")),
		},
		Body: []g.Node{
			Class("min-h-screen flex flex-col bg-slate-50 text-slate-900 antialiased"),
			SiteHeader(config.Active),
			Main(
				ID("content"),
				Class("flex-grow pt-20"),
				g.Group(content),
			),
			SiteFooter(),
			Script(Src("/static/js/nav.js"), Defer()),
			Script(Src("/static/js/accordion.js"), Defer()),
			Script(Src("/static/js/forms.js"), Defer()),
			g.Map(config.Scripts, func(src string) g.Node {
				return Script(Src(src), Defer())
			}),
		},
	})
}
