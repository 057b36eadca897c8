package view

import (
	"github.com/maragudk/gomponents-heroicons/v2/outline"
	"github.com/notblessy/seopilot/model"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Alert renders a notice. Dismissible alerts carry a close button handled by
// forms.js.
func Alert(kind model.NoticeKind, message string, dismissible bool) g.Node {
	if message == "" {
		return nil
	}

	var (
		classes string
		icon    g.Node
		role    = "status"
	)
	switch kind {
	case model.NoticeSuccess:
		classes = "border-emerald-200 bg-emerald-50 text-emerald-800"
		icon = outline.CheckCircle()
	case model.NoticeError:
		classes = "border-red-200 bg-red-50 text-red-800"
		icon = outline.ExclamationTriangle()
		role = "alert"
	default:
		classes = "border-sky-200 bg-sky-50 text-sky-800"
		icon = outline.InformationCircle()
	}

	return Div(
		Class("flex items-start gap-3 rounded-lg border p-4 text-sm [&>svg]:h-5 [&>svg]:w-5 [&>svg]:shrink-0 "+classes),
		Role(role),
		Data("alert", string(kind)),
		icon,
		P(Class("flex-1"), Data("alert-message", ""), g.Text(message)),
		g.If(dismissible, Button(
			Type("button"),
			Class("[&>svg]:h-4 [&>svg]:w-4 opacity-70 hover:opacity-100"),
			Data("dismiss", ""),
			g.Attr("aria-label", "Dismiss"),
			outline.XMark(),
		)),
	)
}

// NoticeAlert renders a session notice, if any.
func NoticeAlert(n *model.Notice) g.Node {
	if n == nil {
		return nil
	}
	return Alert(n.Kind, n.Message, n.Kind != model.NoticeSuccess)
}
