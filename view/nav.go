package view

import (
	"sort"
	"strconv"
	"strings"

	"github.com/maragudk/gomponents-heroicons/v2/outline"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// HeaderOffset is the height in pixels of the fixed header. Anchor scrolls
// stop this far above their section.
const HeaderOffset = 80

// NavItem is one header entry. Targets starting with "#" are sections on the
// home page, anything else is a route.
type NavItem struct {
	Label  string
	Target string
}

func (i NavItem) IsAnchor() bool {
	return strings.HasPrefix(i.Target, "#")
}

// SectionID is the element id an anchor entry points at.
func (i NavItem) SectionID() string {
	return strings.TrimPrefix(i.Target, "#")
}

// Href is the link used when scripts are unavailable or when the entry is
// selected from another page.
func (i NavItem) Href() string {
	if i.IsAnchor() {
		return "/" + i.Target
	}
	return i.Target
}

var NavItems = []NavItem{
	{Label: "Home", Target: "#hero"},
	{Label: "How it works", Target: "#how-it-works"},
	{Label: "Roadmap", Target: "#roadmap"},
	{Label: "Pricing", Target: "/pricing"},
}

// SectionBounds is the measured position of a section on the page.
type SectionBounds struct {
	ID     string
	Top    float64
	Height float64
}

// ActiveSection returns the id of the section under the header at scrollY.
// It is the last section whose top has been scrolled past, or the first
// section when none has.
func ActiveSection(sections []SectionBounds, scrollY float64) string {
	if len(sections) == 0 {
		return ""
	}

	ordered := make([]SectionBounds, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Top < ordered[j].Top })

	position := scrollY + HeaderOffset
	active := ordered[0].ID
	for _, s := range ordered {
		if position >= s.Top {
			active = s.ID
		}
	}
	return active
}

// ScrollTarget is the scroll offset that brings section just under the header.
func ScrollTarget(section SectionBounds) float64 {
	y := section.Top - HeaderOffset
	if y < 0 {
		return 0
	}
	return y
}

type NavActionKind string

const (
	NavScrollTo NavActionKind = "scroll"
	NavNavigate NavActionKind = "navigate"
)

// NavAction is what the browser should do after a selection.
type NavAction struct {
	Kind    NavActionKind
	ScrollY float64
	Href    string
}

// NavState is the header state of a single page view.
type NavState struct {
	Active   string
	MenuOpen bool
}

func (s NavState) ToggleMenu() NavState {
	s.MenuOpen = !s.MenuOpen
	return s
}

// Select handles a click on item. The mobile menu always closes. Anchors whose
// section is on the current page scroll to it and become active, everything
// else navigates.
func (s NavState) Select(item NavItem, sections []SectionBounds) (NavState, NavAction) {
	s.MenuOpen = false

	if !item.IsAnchor() {
		return s, NavAction{Kind: NavNavigate, Href: item.Href()}
	}

	for _, section := range sections {
		if section.ID == item.SectionID() {
			s.Active = section.ID
			return s, NavAction{Kind: NavScrollTo, ScrollY: ScrollTarget(section)}
		}
	}

	return s, NavAction{Kind: NavNavigate, Href: item.Href()}
}

// Scrolled recomputes the active entry for a new scroll offset.
func (s NavState) Scrolled(sections []SectionBounds, scrollY float64) NavState {
	if active := ActiveSection(sections, scrollY); active != "" {
		s.Active = active
	}
	return s
}

// SiteHeader renders the fixed top bar. active is a section id or a route
// path; at most one entry is marked active.
func SiteHeader(active string) g.Node {
	return Header(
		ID("site-header"),
		Data("header-offset", strconv.Itoa(HeaderOffset)),
		Class("fixed inset-x-0 top-0 z-50 h-20 border-b border-slate-200 bg-white/90 backdrop-blur"),
		Div(
			Class("container mx-auto flex h-full items-center justify-between px-4"),
			A(Href("/"), Class("text-xl font-bold text-indigo-600"), g.Text("SEOPilot")),
			Nav(
				Class("hidden md:flex items-center gap-6"),
				g.Attr("aria-label", "Main"),
				g.Map(NavItems, func(item NavItem) g.Node { return navLink(item, active, false) }),
				A(Href("/auth"), Class("rounded-md bg-indigo-600 px-4 py-2 text-sm font-semibold text-white hover:bg-indigo-500"), g.Text("Sign in")),
			),
			Button(
				Type("button"),
				ID("menu-toggle"),
				Class("md:hidden text-slate-700 [&>svg]:h-6 [&>svg]:w-6"),
				g.Attr("aria-controls", "mobile-menu"),
				g.Attr("aria-expanded", "false"),
				g.Attr("aria-label", "Toggle menu"),
				outline.Bars3(),
			),
		),
		Nav(
			ID("mobile-menu"),
			Class("hidden md:hidden border-t border-slate-200 bg-white px-4 py-2"),
			g.Attr("aria-label", "Mobile"),
			g.Map(NavItems, func(item NavItem) g.Node { return navLink(item, active, true) }),
			A(Href("/auth"), Class("block py-2 font-semibold text-indigo-600"), g.Text("Sign in")),
		),
	)
}

func navLink(item NavItem, active string, mobile bool) g.Node {
	key := item.Target
	if item.IsAnchor() {
		key = item.SectionID()
	}
	isActive := key == active

	classes := "text-sm font-medium text-slate-600 hover:text-indigo-600 data-[active=true]:text-indigo-600"
	if mobile {
		classes = "block py-2 " + classes
	}

	return A(
		Href(item.Href()),
		Class(classes),
		g.Attr("data-nav-item", key),
		g.If(item.IsAnchor(), g.Attr("data-nav-anchor", item.SectionID())),
		g.If(isActive, g.Group{g.Attr("data-active", "true"), g.Attr("aria-current", "true")}),
		g.Text(item.Label),
	)
}
