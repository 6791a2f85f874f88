package file

import (
	"go-reqdesk/internal/config"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FileApi struct {
	controller *FileController
	config     *config.Config
}

func NewFileApi(controller *FileController, config *config.Config) *FileApi {
	return &FileApi{
		controller: controller,
		config:     config,
	}
}

func (h *FileApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	app.Post("/api/attachments", auth, h.controller.UploadAttachment)
	app.Get("/api/attachments/:formType/:requestId", auth, h.controller.ListAttachments)
	app.Get("/api/attachments/:id/download", auth, h.controller.DownloadAttachment)
	app.Delete("/api/attachments/:id", auth, h.controller.DeleteAttachment)

	app.Static(h.config.FSURL, h.config.FSPath)
}
