package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dashboard"
)

// DashboardHandler maneja los endpoints del tablero y del reporte financiero.
type DashboardHandler struct {
	uc *dashboard.UseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *dashboard.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      KPIs del tablero
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	return c.JSON(h.uc.Summary(GetEngine(c)))
}

// GetCashFlow godoc
// @Summary      Flujo de caja por periodo
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        window  query  string  false  "week, month, quarter o year"  default(month)
// @Success      200     {object}  dto.CashFlowDTO
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/dashboard/cashflow [get]
func (h *DashboardHandler) GetCashFlow(c *fiber.Ctx) error {
	out, err := h.uc.CashFlow(GetEngine(c), c.Query("window"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetCategories godoc
// @Summary      Totales por categoría y tareas por estado
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CategoriesDTO
// @Router       /api/dashboard/categories [get]
func (h *DashboardHandler) GetCategories(c *fiber.Ctx) error {
	return c.JSON(h.uc.Categories(GetEngine(c)))
}

// GetOverdue godoc
// @Summary      Vencidos y alertas de stock
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OverdueDTO
// @Router       /api/dashboard/overdue [get]
func (h *DashboardHandler) GetOverdue(c *fiber.Ctx) error {
	return c.JSON(h.uc.Overdue(GetEngine(c)))
}

// GetFinancialReport godoc
// @Summary      Reporte financiero en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        window  query  string  false  "week, month, quarter o year"  default(month)
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/financial.pdf [get]
func (h *DashboardHandler) GetFinancialReport(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.FinancialReportPDF(c.UserContext(), GetEngine(c), GetEmail(c), c.Query("window"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
