package department

import (
	"go-reqdesk/internal/common/models"
	"go-reqdesk/internal/config"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DepartmentApi struct {
	controller *DepartmentController
	config     *config.Config
}

func NewDepartmentApi(controller *DepartmentController, config *config.Config) *DepartmentApi {
	return &DepartmentApi{controller: controller, config: config}
}

func (h *DepartmentApi) Setup(app *fiber.App) {
	depts := app.Group("/api/departments", middleware.AuthMiddleware(h.config.SkipAuth))

	depts.Get("/", h.controller.ListDepartments)
	depts.Get("/:id", h.controller.GetDepartment)

	admin := depts.Group("/", middleware.RequireRole(models.RoleAdmin))
	admin.Post("/", h.controller.CreateDepartment)
	admin.Put("/:id", h.controller.UpdateDepartment)
	admin.Delete("/:id", h.controller.DeleteDepartment)
}
