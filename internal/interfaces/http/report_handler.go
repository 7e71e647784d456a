package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/report"
)

// ReportHandler maneja reportes filtrados de pedidos, items y producción.
type ReportHandler struct {
	uc       *report.UseCase
	shopName string
}

// NewReportHandler construye el handler. shopName encabeza la versión HTML.
func NewReportHandler(uc *report.UseCase, shopName string) *ReportHandler {
	return &ReportHandler{uc: uc, shopName: shopName}
}

// Get godoc
// @Summary      Reporte
// @Description  kind: orders, items o productions. format: json (por defecto), html, pdf o xlsx.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Produce      html
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        kind      path   string  true   "orders | items | productions"
// @Param        from      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        status    query  string  false  "Estados de pedido separados por coma"
// @Param        category  query  string  false  "RAW_MATERIAL o FINISHED_GOOD"
// @Param        format    query  string  false  "json | html | pdf | xlsx"
// @Success      200  {object}  dto.Report
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/{kind} [get]
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	req := dto.ReportRequest{
		Kind:     c.Params("kind"),
		From:     from,
		To:       to,
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}

	switch format := c.Query("format", report.FormatJSON); format {
	case report.FormatJSON:
		r, err := h.uc.Build(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(r)
	case report.FormatHTML:
		r, err := h.uc.Build(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.Render("report", fiber.Map{"ShopName": h.shopName, "Report": r}, "layouts/print")
	default:
		data, contentType, filename, err := h.uc.Export(c.UserContext(), req, format)
		if err != nil {
			return writeError(c, err)
		}
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(data)
	}
}
