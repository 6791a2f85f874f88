package file

import (
	"os"
	"path/filepath"
	"time"

	"go-reqdesk/internal/common/apperr"
	"go-reqdesk/internal/config"
	"go-reqdesk/internal/features/workflow"
	"go-reqdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FileController struct {
	UploadDir   string
	FileService FileService
	Config      *config.Config
}

func NewFileController(fileService FileService, cfg *config.Config) *FileController {
	if _, err := os.Stat(cfg.FSPath); os.IsNotExist(err) {
		os.MkdirAll(cfg.FSPath, 0755)
	}
	return &FileController{
		UploadDir:   cfg.FSPath,
		FileService: fileService,
		Config:      cfg,
	}
}

func (ctrl *FileController) UploadAttachment(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return apperr.Respond(c, apperr.Unauthorized("missing claims"))
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.Respond(c, apperr.Validation("no file in request"))
	}

	formType := workflow.FormType(c.FormValue("form_type"))
	requestID, err := primitive.ObjectIDFromHex(c.FormValue("request_id"))
	if err != nil {
		return apperr.Respond(c, apperr.Validation("invalid request_id"))
	}

	if err := ctrl.FileService.ValidateUpload(c.UserContext(), formType, requestID, fh.Size); err != nil {
		return apperr.Respond(c, err)
	}

	// Stored under a fresh uuid so uploads can never collide or traverse
	// outside the upload dir.
	storedName := uuid.NewString() + filepath.Ext(fh.Filename)
	dstPath := filepath.Join(ctrl.UploadDir, storedName)
	if err := c.SaveFile(fh, dstPath); err != nil {
		return apperr.Respond(c, err)
	}

	att := &Attachment{
		OriginalFilename: filepath.Base(fh.Filename),
		URL:              ctrl.Config.FSURL + "/" + storedName,
		Path:             dstPath,
		Size:             fh.Size,
		MimeType:         fh.Header.Get("Content-Type"),
		FormType:         formType,
		RequestID:        requestID,
		UploadedBy:       actor.ID,
		Description:      c.FormValue("description"),
		CreatedAt:        time.Now(),
	}
	if err := ctrl.FileService.SaveAttachment(c.UserContext(), att); err != nil {
		os.Remove(dstPath)
		return apperr.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(att)
}

func (ctrl *FileController) ListAttachments(c *fiber.Ctx) error {
	formType := workflow.FormType(c.Params("formType"))
	requestID, err := primitive.ObjectIDFromHex(c.Params("requestId"))
	if err != nil {
		return apperr.Respond(c, apperr.Validation("invalid request id"))
	}

	atts, err := ctrl.FileService.ListAttachments(c.UserContext(), formType, requestID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(atts)
}

func (ctrl *FileController) DownloadAttachment(c *fiber.Ctx) error {
	att, err := ctrl.FileService.GetAttachment(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Download(att.Path, att.OriginalFilename)
}

func (ctrl *FileController) DeleteAttachment(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return apperr.Respond(c, apperr.Unauthorized("missing claims"))
	}

	att, err := ctrl.FileService.DeleteAttachment(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	os.Remove(att.Path)
	return c.JSON(fiber.Map{"message": "attachment deleted"})
}
