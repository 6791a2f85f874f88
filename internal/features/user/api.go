package user

import (
	"go-reqdesk/internal/common/models"
	"go-reqdesk/internal/config"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) *UserApi {
	return &UserApi{controller: controller, config: config}
}

func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(models.RoleAdmin))

	users.Post("/", h.controller.CreateUser)
	users.Get("/", h.controller.ListUsers)
	users.Get("/:id", h.controller.GetUser)
	users.Put("/:id", h.controller.UpdateUser)
	users.Delete("/:id", h.controller.DeactivateUser)
}
