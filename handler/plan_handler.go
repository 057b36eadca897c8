package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/notblessy/seopilot/billing"
	"github.com/notblessy/seopilot/view"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Message string `json:"message"`
}

type planHandler struct {
	catalog *billing.Catalog
}

func NewPlanHandler(catalog *billing.Catalog) *planHandler {
	return &planHandler{catalog: catalog}
}

// GetPlans returns the plan catalog as a bare array.
func (h *planHandler) GetPlans(c echo.Context) error {
	logger := logrus.WithField("endpoint", "get_subscription_plans")

	plans, err := h.catalog.Plans(c.Request().Context())
	if err != nil {
		logger.Errorf("Error loading plans: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "failed to retrieve plans"})
	}

	return c.JSON(http.StatusOK, plans)
}

// PricingPage renders the catalog as plan cards.
func (h *planHandler) PricingPage(c echo.Context) error {
	logger := logrus.WithField("endpoint", "pricing_page")

	plans, err := h.catalog.Plans(c.Request().Context())
	if err != nil {
		logger.Errorf("Error loading plans: %v", err)
		return render(c, http.StatusOK, view.PricingPage(nil, catalogUnavailableMessage))
	}

	return render(c, http.StatusOK, view.PricingPage(plans, ""))
}
