package user

import (
	"go-reqdesk/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{Service: service}
}

func (c *UserController) CreateUser(ctx *fiber.Ctx) error {
	var req CreateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	user, err := c.Service.CreateUser(ctx.UserContext(), req)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(user)
}

func (c *UserController) GetUser(ctx *fiber.Ctx) error {
	user, err := c.Service.GetUser(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(user)
}

func (c *UserController) ListUsers(ctx *fiber.Ctx) error {
	page := int64(ctx.QueryInt("page", 1))
	limit := int64(ctx.QueryInt("limit", 20))

	users, total, err := c.Service.ListUsers(ctx.UserContext(),
		ctx.Query("role"), ctx.Query("status"), page, limit)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"data":  users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (c *UserController) UpdateUser(ctx *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	user, err := c.Service.UpdateUser(ctx.UserContext(), ctx.Params("id"), req)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(user)
}

func (c *UserController) DeactivateUser(ctx *fiber.Ctx) error {
	if err := c.Service.DeactivateUser(ctx.UserContext(), ctx.Params("id")); err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "user deactivated"})
}
