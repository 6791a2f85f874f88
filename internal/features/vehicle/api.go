package vehicle

import (
	"go-reqdesk/internal/config"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type VehicleApi struct {
	controller *VehicleController
	config     *config.Config
}

func NewVehicleApi(controller *VehicleController, config *config.Config) *VehicleApi {
	return &VehicleApi{controller: controller, config: config}
}

func (h *VehicleApi) Setup(app *fiber.App) {
	requests := app.Group("/api/vehicle-requests", middleware.AuthMiddleware(h.config.SkipAuth))

	requests.Post("/", h.controller.CreateDraft)
	requests.Get("/", h.controller.ListRequests)
	requests.Get("/:id", h.controller.GetRequest)
	requests.Put("/:id", h.controller.UpdateDraft)
	requests.Delete("/:id", h.controller.DeleteDraft)

	requests.Post("/:id/submit", h.controller.Submit)
	requests.Post("/:id/approve", h.controller.Approve)
	requests.Post("/:id/decline", h.controller.Decline)
	requests.Post("/:id/return", h.controller.Return)

	requests.Post("/:id/dispatch", h.controller.SetDispatchDetails)
	requests.Post("/:id/assign-verifier", h.controller.AssignVerifier)
	requests.Post("/:id/verify", h.controller.Verify)
}
