package vehicle

import (
	"go-reqdesk/internal/common/apperr"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type VehicleController struct {
	Service VehicleService
}

func NewVehicleController(service VehicleService) *VehicleController {
	return &VehicleController{Service: service}
}

func (c *VehicleController) CreateDraft(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	var input DraftInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	req, err := c.Service.CreateDraft(ctx.UserContext(), actor, input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(req)
}

func (c *VehicleController) UpdateDraft(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	var input DraftInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	req, err := c.Service.UpdateDraft(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(req)
}

func (c *VehicleController) GetRequest(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	detail, err := c.Service.GetRequest(ctx.UserContext(), actor, ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(detail)
}

func (c *VehicleController) ListRequests(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 20))

	requests, total, err := c.Service.ListRequests(ctx.UserContext(), actor, ctx.Query("status"), page, limit)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"data":  requests,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (c *VehicleController) Submit(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	req, err := c.Service.Submit(ctx.UserContext(), actor, ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(req)
}

func (c *VehicleController) Approve(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	var input ActionInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	req, err := c.Service.Approve(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(req)
}

func (c *VehicleController) Decline(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	var input ActionInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	req, err := c.Service.Decline(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(req)
}

func (c *VehicleController) Return(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	var input ReturnInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	req, err := c.Service.Return(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(req)
}

func (c *VehicleController) DeleteDraft(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	if err := c.Service.DeleteDraft(ctx.UserContext(), actor, ctx.Params("id")); err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "request deleted"})
}

func (c *VehicleController) SetDispatchDetails(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	var input DispatchInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	req, err := c.Service.SetDispatchDetails(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(req)
}

func (c *VehicleController) AssignVerifier(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	var input AssignVerifierInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	req, err := c.Service.AssignVerifier(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(req)
}

func (c *VehicleController) Verify(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	var input VerifyInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	req, err := c.Service.Verify(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(req)
}
