package workflow

import (
	"go-reqdesk/internal/common/apperr"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkflowController struct {
	Service WorkflowService
}

func NewWorkflowController(service WorkflowService) *WorkflowController {
	return &WorkflowController{Service: service}
}

// CreateWorkflow accepts the workflow and its steps as one nested payload.
func (c *WorkflowController) CreateWorkflow(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	var input WorkflowDefinition
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.CreateWorkflow(ctx.UserContext(), actor, &input); err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(input)
}

func (c *WorkflowController) UpdateWorkflow(ctx *fiber.Ctx) error {
	actor, ok := middleware.Actor(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	id := ctx.Params("id")
	var input WorkflowDefinition
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateWorkflow(ctx.UserContext(), actor, id, &input); err != nil {
		return apperr.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"message": "Workflow updated successfully"})
}

func (c *WorkflowController) DeleteWorkflow(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if err := c.Service.DeleteWorkflow(ctx.UserContext(), id); err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *WorkflowController) GetWorkflowByID(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	wf, err := c.Service.GetWorkflowByID(ctx.UserContext(), id)
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	if wf == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Workflow not found"})
	}
	return ctx.JSON(wf)
}

func (c *WorkflowController) ListWorkflows(ctx *fiber.Ctx) error {
	workflows, err := c.Service.ListWorkflows(ctx.UserContext())
	if err != nil {
		return apperr.Respond(ctx, err)
	}
	return ctx.JSON(workflows)
}
