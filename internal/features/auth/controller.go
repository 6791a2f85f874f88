package auth

import (
	"go-reqdesk/internal/common/apperr"
	"go-reqdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Service AuthService
}

func NewAuthController(service AuthService) *AuthController {
	return &AuthController{Service: service}
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var req LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	res, err := c.Service.Login(ctx.UserContext(), req)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(res)
}

func (c *AuthController) Register(ctx *fiber.Ctx) error {
	var req RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	u, err := c.Service.Register(ctx.UserContext(), req)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(u)
}

func (c *AuthController) Me(ctx *fiber.Ctx) error {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return apperr.Respond(ctx, apperr.Unauthorized("missing claims"))
	}

	u, err := c.Service.Me(ctx.UserContext(), claims.UserID)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(u)
}
