package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/notblessy/seopilot/model"
	"github.com/notblessy/seopilot/utils"
	"github.com/notblessy/seopilot/view"
	g "maragu.dev/gomponents"
)

// render writes node as an HTML response.
func render(c echo.Context, status int, node g.Node) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return node.Render(c.Response())
}

type pageHandler struct {
	assets utils.Assets
}

func NewPageHandler(assets utils.Assets) *pageHandler {
	return &pageHandler{assets: assets}
}

// Home renders the landing page. A completed checkout lands here with
// ?subscribed=<plan>.
func (h *pageHandler) Home(c echo.Context) error {
	var notice *model.Notice
	if c.QueryParam("subscribed") != "" {
		notice = &model.Notice{Kind: model.NoticeSuccess, Message: model.PaymentSuccessMessage}
	}
	return render(c, http.StatusOK, view.HomePage(h.assets, notice))
}

func (h *pageHandler) Analysis(c echo.Context) error {
	return render(c, http.StatusOK, view.AnalysisPage(c.Param("analysisId")))
}

func (h *pageHandler) Campaigns(c echo.Context) error {
	return render(c, http.StatusOK, view.CampaignsPage())
}

func (h *pageHandler) Workflow(c echo.Context) error {
	return render(c, http.StatusOK, view.WorkflowPage())
}
