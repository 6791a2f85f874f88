package report

import (
	"go-reqdesk/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	Service ReportService
}

func NewReportController(service ReportService) *ReportController {
	return &ReportController{Service: service}
}

func (c *ReportController) ExportItemRequests(ctx *fiber.Ctx) error {
	data, filename, err := c.Service.ExportItemRequests(ctx.UserContext(), ctx.Query("status"))
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	ctx.Set("Content-Disposition", "attachment; filename="+filename)
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return ctx.Send(data)
}

func (c *ReportController) ExportVehicleRequests(ctx *fiber.Ctx) error {
	data, filename, err := c.Service.ExportVehicleRequests(ctx.UserContext(), ctx.Query("status"))
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	ctx.Set("Content-Disposition", "attachment; filename="+filename)
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return ctx.Send(data)
}
