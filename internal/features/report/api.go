package report

import (
	"go-reqdesk/internal/common/models"
	"go-reqdesk/internal/config"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	controller *ReportController
	config     *config.Config
}

func NewReportApi(controller *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{controller: controller, config: config}
}

func (h *ReportApi) Setup(app *fiber.App) {
	reports := app.Group("/api/reports",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(models.RoleAdmin, models.RoleITManager, models.RoleServiceDesk, models.RoleDispatcher))

	reports.Get("/item-requests.xlsx", h.controller.ExportItemRequests)
	reports.Get("/vehicle-requests.xlsx", h.controller.ExportVehicleRequests)
}
