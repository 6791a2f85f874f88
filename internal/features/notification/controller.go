package notification

import (
	"go-reqdesk/internal/common/apperr"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	Service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{Service: service}
}

func (c *NotificationController) ListNotifications(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	unreadOnly := ctx.Query("unread") == "true"
	notifications, err := c.Service.ListForUser(ctx.UserContext(), actor.ID, unreadOnly)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(notifications)
}

func (c *NotificationController) MarkRead(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	if err := c.Service.MarkRead(ctx.UserContext(), ctx.Params("id"), actor.ID); err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "Notification marked as read"})
}
