package request

import (
	"go-reqdesk/internal/config"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RequestApi struct {
	controller *RequestController
	config     *config.Config
}

func NewRequestApi(controller *RequestController, config *config.Config) *RequestApi {
	return &RequestApi{controller: controller, config: config}
}

func (h *RequestApi) Setup(app *fiber.App) {
	requests := app.Group("/api/requests", middleware.AuthMiddleware(h.config.SkipAuth))

	requests.Post("/", h.controller.CreateDraft)
	requests.Get("/", h.controller.ListRequests)
	requests.Get("/:id", h.controller.GetRequest)
	requests.Put("/:id", h.controller.UpdateDraft)
	requests.Delete("/:id", h.controller.DeleteDraft)

	requests.Post("/:id/submit", h.controller.Submit)
	requests.Post("/:id/approve", h.controller.Approve)
	requests.Post("/:id/decline", h.controller.Decline)
	requests.Post("/:id/return", h.controller.Return)
}
