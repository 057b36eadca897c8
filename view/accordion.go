package view

import (
	"fmt"
	"strconv"

	"github.com/maragudk/gomponents-heroicons/v2/outline"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Disclosure is the state of one accordion entry.
type Disclosure struct {
	Expanded bool
}

func (d Disclosure) Toggle() Disclosure {
	d.Expanded = !d.Expanded
	return d
}

// MaxHeight is the CSS height constraint for a panel whose content is
// contentHeight pixels tall.
func (d Disclosure) MaxHeight(contentHeight int) string {
	if !d.Expanded {
		return "0px"
	}
	return fmt.Sprintf("%dpx", contentHeight)
}

type AccordionItem struct {
	Title string
	Body  []string
	// Open renders the entry expanded.
	Open bool
}

// Accordion renders a list of independent disclosures. accordion.js measures
// each panel and applies Disclosure.MaxHeight on toggle.
func Accordion(id string, items []AccordionItem) g.Node {
	return Div(
		ID(id),
		Class("divide-y divide-slate-200 rounded-xl border border-slate-200 bg-white"),
		g.Group(accordionEntries(id, items)),
	)
}

func accordionEntries(id string, items []AccordionItem) []g.Node {
	nodes := make([]g.Node, 0, len(items))
	for i, item := range items {
		panelID := id + "-panel-" + strconv.Itoa(i)
		state := Disclosure{Expanded: item.Open}

		nodes = append(nodes, Div(
			Data("accordion", ""),
			Button(
				Type("button"),
				Class("flex w-full items-center justify-between px-6 py-4 text-left font-semibold [&>svg]:h-5 [&>svg]:w-5 [&>svg]:transition-transform aria-expanded:[&>svg]:rotate-180"),
				Data("accordion-toggle", ""),
				g.Attr("aria-controls", panelID),
				g.Attr("aria-expanded", strconv.FormatBool(state.Expanded)),
				Span(g.Text(item.Title)),
				outline.ChevronDown(),
			),
			Div(
				ID(panelID),
				Data("accordion-panel", ""),
				Class("overflow-hidden transition-[max-height] duration-300"),
				g.Attr("style", "max-height: "+panelHeight(state)),
				Div(
					Class("px-6 pb-4 space-y-2 text-slate-600"),
					g.Map(item.Body, func(line string) g.Node { return P(g.Text(line)) }),
				),
			),
		))
	}
	return nodes
}

// panelHeight is the server-side max-height. Open panels are unconstrained
// until the script has measured them.
func panelHeight(d Disclosure) string {
	if d.Expanded {
		return "none"
	}
	return d.MaxHeight(0)
}
