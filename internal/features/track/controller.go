package track

import (
	"go-reqdesk/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type TrackController struct {
	Service TrackService
}

func NewTrackController(service TrackService) *TrackController {
	return &TrackController{Service: service}
}

func (c *TrackController) Track(ctx *fiber.Ctx) error {
	result, err := c.Service.Track(ctx.UserContext(), ctx.Params("code"))
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(result)
}
