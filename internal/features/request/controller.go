package request

import (
	"go-reqdesk/internal/common/apperr"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RequestController struct {
	Service RequestService
}

func NewRequestController(service RequestService) *RequestController {
	return &RequestController{Service: service}
}

func (c *RequestController) CreateDraft(ctx *fiber.Ctx) error {
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

func (c *RequestController) UpdateDraft(ctx *fiber.Ctx) error {
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

func (c *RequestController) GetRequest(ctx *fiber.Ctx) error {
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

func (c *RequestController) ListRequests(ctx *fiber.Ctx) error {
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

func (c *RequestController) Submit(ctx *fiber.Ctx) error {
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

func (c *RequestController) Approve(ctx *fiber.Ctx) error {
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

func (c *RequestController) Decline(ctx *fiber.Ctx) error {
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

func (c *RequestController) Return(ctx *fiber.Ctx) error {
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

func (c *RequestController) DeleteDraft(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	if err := c.Service.DeleteDraft(ctx.UserContext(), actor, ctx.Params("id")); err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "request deleted"})
}
