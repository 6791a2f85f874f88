package department

import (
	"go-reqdesk/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type DepartmentController struct {
	Service DepartmentService
}

func NewDepartmentController(service DepartmentService) *DepartmentController {
	return &DepartmentController{Service: service}
}

func (c *DepartmentController) CreateDepartment(ctx *fiber.Ctx) error {
	var req UpsertDepartmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	dept, err := c.Service.CreateDepartment(ctx.UserContext(), req)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(dept)
}

func (c *DepartmentController) GetDepartment(ctx *fiber.Ctx) error {
	dept, err := c.Service.GetDepartment(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(dept)
}

func (c *DepartmentController) ListDepartments(ctx *fiber.Ctx) error {
	depts, err := c.Service.ListDepartments(ctx.UserContext())
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(depts)
}

func (c *DepartmentController) UpdateDepartment(ctx *fiber.Ctx) error {
	var req UpsertDepartmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Respond(ctx, apperr.Validation("invalid request body"))
	}

	dept, err := c.Service.UpdateDepartment(ctx.UserContext(), ctx.Params("id"), req)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(dept)
}

func (c *DepartmentController) DeleteDepartment(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteDepartment(ctx.UserContext(), ctx.Params("id")); err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "department deleted"})
}
