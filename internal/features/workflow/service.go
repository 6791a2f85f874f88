package workflow

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go-reqdesk/internal/common/apperr"
	"go-reqdesk/internal/common/models"
	"go-reqdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkflowService interface {
	CreateWorkflow(ctx context.Context, actor models.ActingUser, wf *WorkflowDefinition) error
	UpdateWorkflow(ctx context.Context, actor models.ActingUser, id string, wf *WorkflowDefinition) error
	DeleteWorkflow(ctx context.Context, id string) error
	GetWorkflowByID(ctx context.Context, id string) (*WorkflowDefinition, error)
	ListWorkflows(ctx context.Context) ([]WorkflowDefinition, error)

	// ResolveForFormType returns the active default workflow with its steps
	// sorted, or nil when none is configured (callers fall back to the
	// legacy fixed chain).
	ResolveForFormType(ctx context.Context, formType FormType) (*WorkflowDefinition, error)
}

type WorkflowServiceImpl struct {
	Repo WorkflowRepository
	DB   *database.MongodbDB
}

func NewWorkflowService(repo WorkflowRepository, db *database.MongodbDB) WorkflowService {
	return &WorkflowServiceImpl{Repo: repo, DB: db}
}

func (s *WorkflowServiceImpl) CreateWorkflow(ctx context.Context, actor models.ActingUser, wf *WorkflowDefinition) error {
	if err := ValidateDefinition(wf); err != nil {
		return err
	}

	if wf.ID.IsZero() {
		wf.ID = primitive.NewObjectID()
	}
	wf.CreatedBy = actor.ID
	wf.UpdatedBy = actor.ID
	wf.CreatedAt = time.Now()
	wf.UpdatedAt = time.Now()

	// Setting a new default must unset the previous holder atomically so at
	// most one default exists per form type.
	if wf.IsDefault {
		return s.DB.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.Repo.UnsetDefault(txCtx, wf.FormType, wf.ID); err != nil {
				return err
			}
			return s.Repo.Create(txCtx, wf)
		})
	}
	return s.Repo.Create(ctx, wf)
}

func (s *WorkflowServiceImpl) UpdateWorkflow(ctx context.Context, actor models.ActingUser, id string, wf *WorkflowDefinition) error {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("workflow not found")
	}

	// form_type is immutable; in-flight requests reference the workflow id
	wf.FormType = existing.FormType
	if err := ValidateDefinition(wf); err != nil {
		return err
	}
	wf.ID = existing.ID
	wf.UpdatedBy = actor.ID

	if wf.IsDefault {
		return s.DB.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.Repo.UnsetDefault(txCtx, wf.FormType, wf.ID); err != nil {
				return err
			}
			return s.Repo.Update(txCtx, id, wf)
		})
	}
	return s.Repo.Update(ctx, id, wf)
}

func (s *WorkflowServiceImpl) DeleteWorkflow(ctx context.Context, id string) error {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("workflow not found")
	}
	return s.Repo.Delete(ctx, id)
}

func (s *WorkflowServiceImpl) GetWorkflowByID(ctx context.Context, id string) (*WorkflowDefinition, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *WorkflowServiceImpl) ListWorkflows(ctx context.Context) ([]WorkflowDefinition, error) {
	return s.Repo.List(ctx)
}

func (s *WorkflowServiceImpl) ResolveForFormType(ctx context.Context, formType FormType) (*WorkflowDefinition, error) {
	wf, err := s.Repo.FindActiveDefault(ctx, formType)
	if err != nil {
		return nil, err
	}
	if wf != nil {
		SortSteps(wf)
	}
	return wf, nil
}

// ValidateDefinition checks the structural invariants of a workflow before it
// is written: contiguous unique step_order starting at 1, and exactly the
// approver fields its approver_type demands.
func ValidateDefinition(wf *WorkflowDefinition) error {
	if wf.Name == "" {
		return apperr.Validation("workflow name is required")
	}
	if wf.FormType != FormTypeItemRequest && wf.FormType != FormTypeVehicleRequest {
		return apperr.Validation(fmt.Sprintf("unknown form_type %q", wf.FormType))
	}
	if len(wf.Steps) == 0 {
		return apperr.Validation("workflow must define at least one step")
	}

	SortSteps(wf)
	for i, step := range wf.Steps {
		if step.StepOrder != i+1 {
			return apperr.Validation(fmt.Sprintf("step_order values must be contiguous starting at 1, got %d at position %d", step.StepOrder, i+1))
		}
		if step.StepName == "" {
			return apperr.Validation(fmt.Sprintf("step %d: step_name is required", step.StepOrder))
		}
		if step.StatusOnApproval == "" {
			return apperr.Validation(fmt.Sprintf("step %d: status_on_approval is required", step.StepOrder))
		}
		if err := validateApproverFields(step); err != nil {
			return err
		}
	}
	return nil
}

func validateApproverFields(step StepDefinition) error {
	switch step.ApproverType {
	case ApproverTypeRole:
		if step.ApproverRole == "" {
			return apperr.Validation(fmt.Sprintf("step %d: approver_role is required for approver_type=role", step.StepOrder))
		}
	case ApproverTypeUser:
		if step.ApproverUserID.IsZero() {
			return apperr.Validation(fmt.Sprintf("step %d: approver_user_id is required for approver_type=user", step.StepOrder))
		}
	case ApproverTypeDepartment, ApproverTypeDepartmentApprover:
		// requires_same_department redirects resolution to the requestor's
		// own department, so the fixed department id is optional then.
		if step.ApproverDepartmentID.IsZero() && !step.RequiresSameDept {
			return apperr.Validation(fmt.Sprintf("step %d: approver_department_id is required for approver_type=%s", step.StepOrder, step.ApproverType))
		}
	default:
		return apperr.Validation(fmt.Sprintf("step %d: unknown approver_type %q", step.StepOrder, step.ApproverType))
	}
	return nil
}

// SortSteps orders steps by step_order in place.
func SortSteps(wf *WorkflowDefinition) {
	slices.SortFunc(wf.Steps, func(a, b StepDefinition) int {
		return a.StepOrder - b.StepOrder
	})
}
