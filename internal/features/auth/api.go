package auth

import (
	"go-reqdesk/internal/config"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	config     *config.Config
}

func NewAuthApi(controller *AuthController, config *config.Config) *AuthApi {
	return &AuthApi{controller: controller, config: config}
}

func (h *AuthApi) Setup(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/login", h.controller.Login)
	authGroup.Post("/register", h.controller.Register)
	authGroup.Get("/me", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.Me)
}
