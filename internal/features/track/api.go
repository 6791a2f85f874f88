package track

import (
	"github.com/gofiber/fiber/v2"
)

type TrackApi struct {
	controller *TrackController
}

func NewTrackApi(controller *TrackController) *TrackApi {
	return &TrackApi{controller: controller}
}

// Setup registers the public tracking endpoint. Deliberately unauthenticated:
// the reference code is the only credential.
func (h *TrackApi) Setup(app *fiber.App) {
	app.Get("/track/:code", h.controller.Track)
}
