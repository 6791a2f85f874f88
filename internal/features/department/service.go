package department

import (
	"context"
	"time"

	"go-reqdesk/internal/common/apperr"
	common_models "go-reqdesk/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UpsertDepartmentRequest struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	ApproverID string `json:"approver_id"`
}

type DepartmentService interface {
	CreateDepartment(ctx context.Context, req UpsertDepartmentRequest) (*common_models.Department, error)
	GetDepartment(ctx context.Context, id string) (*common_models.Department, error)
	ListDepartments(ctx context.Context) ([]common_models.Department, error)
	UpdateDepartment(ctx context.Context, id string, req UpsertDepartmentRequest) (*common_models.Department, error)
	DeleteDepartment(ctx context.Context, id string) error
}

type DepartmentServiceImpl struct {
	Repo DepartmentRepository
}

func NewDepartmentService(repo DepartmentRepository) DepartmentService {
	return &DepartmentServiceImpl{Repo: repo}
}

func (s *DepartmentServiceImpl) CreateDepartment(ctx context.Context, req UpsertDepartmentRequest) (*common_models.Department, error) {
	if req.Name == "" || req.Code == "" {
		return nil, apperr.Validation("name and code are required")
	}

	existing, err := s.Repo.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("department code already in use")
	}

	dept := common_models.Department{
		Name:      req.Name,
		Code:      req.Code,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if req.ApproverID != "" {
		oid, err := primitive.ObjectIDFromHex(req.ApproverID)
		if err != nil {
			return nil, apperr.Validation("invalid approver_id")
		}
		dept.ApproverID = oid
	}

	return s.Repo.Create(ctx, dept)
}

func (s *DepartmentServiceImpl) GetDepartment(ctx context.Context, id string) (*common_models.Department, error) {
	dept, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, apperr.NotFound("department not found")
	}
	return dept, nil
}

func (s *DepartmentServiceImpl) ListDepartments(ctx context.Context) ([]common_models.Department, error) {
	return s.Repo.List(ctx)
}

func (s *DepartmentServiceImpl) UpdateDepartment(ctx context.Context, id string, req UpsertDepartmentRequest) (*common_models.Department, error) {
	if _, err := s.GetDepartment(ctx, id); err != nil {
		return nil, err
	}

	update := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Code != "" {
		update["code"] = req.Code
	}
	if req.ApproverID != "" {
		oid, err := primitive.ObjectIDFromHex(req.ApproverID)
		if err != nil {
			return nil, apperr.Validation("invalid approver_id")
		}
		update["approver_id"] = oid
	}

	if err := s.Repo.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(ctx, id)
}

func (s *DepartmentServiceImpl) DeleteDepartment(ctx context.Context, id string) error {
	if _, err := s.GetDepartment(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}
