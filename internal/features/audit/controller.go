package audit

import (
	"go-reqdesk/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

func (c *AuditController) ListLogs(ctx *fiber.Ctx) error {
	filters := map[string]interface{}{}
	if module := ctx.Query("module"); module != "" {
		filters["module"] = module
	}
	if recordID := ctx.Query("record_id"); recordID != "" {
		filters["record_id"] = recordID
	}

	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 20))

	logs, err := c.Service.ListLogs(ctx.UserContext(), filters, page, limit)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(logs)
}
