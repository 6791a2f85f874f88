package notification

import (
	"go-reqdesk/internal/config"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
	config     *config.Config
}

func NewNotificationApi(controller *NotificationController, config *config.Config) *NotificationApi {
	return &NotificationApi{controller: controller, config: config}
}

func (h *NotificationApi) Setup(app *fiber.App) {
	notifications := app.Group("/api/notifications", middleware.AuthMiddleware(h.config.SkipAuth))

	notifications.Get("/", h.controller.ListNotifications)
	notifications.Post("/:id/read", h.controller.MarkRead)
}
