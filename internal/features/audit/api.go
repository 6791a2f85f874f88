package audit

import (
	"go-reqdesk/internal/common/models"
	"go-reqdesk/internal/config"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, config *config.Config) *AuditApi {
	return &AuditApi{controller: controller, config: config}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/audit",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(models.RoleAdmin))

	audit.Get("/", h.controller.ListLogs)
}
