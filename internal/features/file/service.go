package file

import (
	"context"

	"go-reqdesk/internal/common/apperr"
	common_models "go-reqdesk/internal/common/models"
	"go-reqdesk/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxUploadSize = 20 << 20 // 20 MiB

// RequestFinder checks that the request an upload targets actually exists.
type RequestFinder interface {
	Exists(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID) (bool, error)
}

type FileService interface {
	ValidateUpload(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID, size int64) error
	SaveAttachment(ctx context.Context, att *Attachment) error
	GetAttachment(ctx context.Context, id string) (*Attachment, error)
	ListAttachments(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID) ([]Attachment, error)
	DeleteAttachment(ctx context.Context, actor common_models.ActingUser, id string) (*Attachment, error)
}

type FileServiceImpl struct {
	Repo     FileRepository
	Requests RequestFinder
}

func NewFileService(repo FileRepository, requests RequestFinder) FileService {
	return &FileServiceImpl{Repo: repo, Requests: requests}
}

func (s *FileServiceImpl) ValidateUpload(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID, size int64) error {
	if formType != workflow.FormTypeItemRequest && formType != workflow.FormTypeVehicleRequest {
		return apperr.Validation("unknown form_type")
	}
	if size <= 0 || size > maxUploadSize {
		return apperr.Validation("file size must be between 1 byte and 20 MiB")
	}

	exists, err := s.Requests.Exists(ctx, formType, requestID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("request not found")
	}
	return nil
}

func (s *FileServiceImpl) SaveAttachment(ctx context.Context, att *Attachment) error {
	return s.Repo.Create(ctx, att)
}

func (s *FileServiceImpl) GetAttachment(ctx context.Context, id string) (*Attachment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("attachment not found")
	}
	att, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, apperr.NotFound("attachment not found")
	}
	return att, nil
}

func (s *FileServiceImpl) ListAttachments(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID) ([]Attachment, error) {
	return s.Repo.ListByRequest(ctx, formType, requestID)
}

func (s *FileServiceImpl) DeleteAttachment(ctx context.Context, actor common_models.ActingUser, id string) (*Attachment, error) {
	att, err := s.GetAttachment(ctx, id)
	if err != nil {
		return nil, err
	}
	if att.UploadedBy != actor.ID && actor.Role != common_models.RoleAdmin {
		return nil, apperr.Unauthorized("only the uploader may delete this attachment")
	}
	if err := s.Repo.Delete(ctx, att.ID); err != nil {
		return nil, err
	}
	return att, nil
}
