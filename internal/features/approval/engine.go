package approval

import (
	"context"
	"fmt"
	"time"

	"go-reqdesk/internal/common/apperr"
	"go-reqdesk/internal/common/models"
	"go-reqdesk/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserDirectory is the slice of the user repository the engine needs to
// resolve step approvers.
type UserDirectory interface {
	FindByObjectID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	HasActiveWithRole(ctx context.Context, role string) (bool, error)
	HasActiveApproverInDepartment(ctx context.Context, departmentID primitive.ObjectID) (bool, error)
}

// DepartmentDirectory resolves a department's designated approver.
type DepartmentDirectory interface {
	FindDepartmentByObjectID(ctx context.Context, id primitive.ObjectID) (*models.Department, error)
}

// WorkflowSource resolves workflow configuration for the engine.
type WorkflowSource interface {
	ResolveForFormType(ctx context.Context, formType workflow.FormType) (*workflow.WorkflowDefinition, error)
	GetWorkflowByID(ctx context.Context, id string) (*workflow.WorkflowDefinition, error)
}

// Engine materializes approval records against workflow configuration and
// plans status transitions. Records are materialized lazily, one at a time:
// only the current step exists as a pending row, so a return never leaves
// stale future-step rows behind.
type Engine struct {
	Workflows   WorkflowSource
	Users       UserDirectory
	Departments DepartmentDirectory
}

func NewEngine(workflows WorkflowSource, users UserDirectory, departments DepartmentDirectory) *Engine {
	return &Engine{
		Workflows:   workflows,
		Users:       users,
		Departments: departments,
	}
}

// StartResult is the outcome of submitting (or resubmitting) a request.
// Record is nil when every applicable step was skippable and skipped, in
// which case RequestStatus is already terminal.
type StartResult struct {
	Record        *ApprovalRecord
	RequestStatus string
}

// Advance is the outcome of approving the current step.
type Advance struct {
	Next          *ApprovalRecord // nil when the chain is finished
	RequestStatus string
	Terminal      bool
}

// Start materializes the first applicable approval record at or after
// fromOrder (1 for a fresh submit; the return target's order on resubmit).
// Steps whose approver cannot be resolved are skipped when skippable and
// fail submission with WorkflowMisconfigured when required.
func (e *Engine) Start(ctx context.Context, sub Subject, fromOrder int) (*StartResult, error) {
	steps, wfID, err := e.stepsFor(ctx, sub.FormType, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if fromOrder < 1 {
		fromOrder = 1
	}
	if len(steps) == 0 {
		return nil, apperr.Misconfigured("workflow defines no steps")
	}

	// prevStatus is the request status that holds while the materialized
	// step is pending: "submitted" at the head of the chain, otherwise the
	// status_on_approval of the last step already approved in a prior cycle.
	// A step below the resume point that cannot resolve an approver was
	// skipped rather than approved and contributes no status.
	prevStatus := StatusSubmitted
	for _, step := range steps {
		if step.StepOrder < fromOrder {
			if _, ok, err := e.resolveApprover(ctx, sub, step); err != nil {
				return nil, err
			} else if ok {
				prevStatus = step.StatusOnApproval
			}
			continue
		}
		rec, ok, err := e.materialize(ctx, sub, wfID, step)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		return &StartResult{Record: rec, RequestStatus: prevStatus}, nil
	}

	// Every remaining step was skipped: the request completes with no
	// pending record.
	last := steps[len(steps)-1]
	status := last.StatusOnCompletion
	if status == "" {
		status = StatusCompleted
	}
	return &StartResult{RequestStatus: status}, nil
}

// PlanAdvance computes what follows the approval of the given record: the
// lazily materialized next pending record and the request's new status, or a
// terminal status when no applicable step remains. The caller commits the
// plan in the same transaction as the approval itself.
func (e *Engine) PlanAdvance(ctx context.Context, sub Subject, approved *ApprovalRecord) (*Advance, error) {
	var steps []workflow.StepDefinition
	wfID := approved.WorkflowID
	if wfID.IsZero() {
		// A zero workflow id marks a record materialized under the legacy
		// fixed chain. The chain keeps governing the request even if a
		// workflow was configured after submission.
		steps = LegacyChain(sub.FormType)
	} else {
		var err error
		steps, wfID, err = e.stepsFor(ctx, sub.FormType, approved.WorkflowID)
		if err != nil {
			return nil, err
		}
	}

	for _, step := range steps {
		if step.StepOrder <= approved.StepOrder {
			continue
		}
		rec, ok, err := e.materialize(ctx, sub, wfID, step)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		return &Advance{Next: rec, RequestStatus: approved.StatusOnApproval}, nil
	}

	status := approved.StatusOnCompletion
	if status == "" {
		status = approved.StatusOnApproval
	}
	return &Advance{RequestStatus: status, Terminal: true}, nil
}

// stepsFor returns the ordered step definitions governing a request. A zero
// workflowID means "resolve the active default now" (submit time); otherwise
// the request is pinned to the workflow it started under. When no workflow is
// configured the hardcoded legacy chain for the form type applies.
func (e *Engine) stepsFor(ctx context.Context, formType workflow.FormType, workflowID primitive.ObjectID) ([]workflow.StepDefinition, primitive.ObjectID, error) {
	if !workflowID.IsZero() {
		wf, err := e.Workflows.GetWorkflowByID(ctx, workflowID.Hex())
		if err != nil {
			return nil, primitive.NilObjectID, err
		}
		if wf == nil {
			return nil, primitive.NilObjectID, apperr.Misconfigured("workflow governing this request no longer exists")
		}
		workflow.SortSteps(wf)
		return wf.Steps, wf.ID, nil
	}

	wf, err := e.Workflows.ResolveForFormType(ctx, formType)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	if wf == nil {
		return LegacyChain(formType), primitive.NilObjectID, nil
	}
	return wf.Steps, wf.ID, nil
}

// materialize builds the pending record for one step, resolving its approver.
// ok=false means the step is skipped (approver unresolvable and the step is
// skippable or optional). A required unresolvable step is a configuration
// error.
func (e *Engine) materialize(ctx context.Context, sub Subject, wfID primitive.ObjectID, step workflow.StepDefinition) (*ApprovalRecord, bool, error) {
	approverID, ok, err := e.resolveApprover(ctx, sub, step)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		if step.CanSkip || !step.IsRequired {
			return nil, false, nil
		}
		return nil, false, apperr.Misconfigured(
			fmt.Sprintf("no approver can be resolved for required step %d (%s)", step.StepOrder, step.StepName))
	}

	// Snapshot the effective department, not the raw rule: for same-dept
	// rules the eligible approvers live in the requestor's department, and
	// notification fan-out reads this field.
	deptID := step.ApproverDepartmentID
	switch step.ApproverType {
	case workflow.ApproverTypeDepartment:
		if step.RequiresSameDept {
			deptID = sub.DepartmentID
		}
	case workflow.ApproverTypeDepartmentApprover:
		if step.RequiresSameDept || deptID.IsZero() {
			deptID = sub.DepartmentID
		}
	}

	rec := &ApprovalRecord{
		ID:                   primitive.NewObjectID(),
		FormType:             sub.FormType,
		RequestID:            sub.RequestID,
		WorkflowID:           wfID,
		Cycle:                sub.Cycle,
		StepOrder:            step.StepOrder,
		StepName:             step.StepName,
		ApproverType:         step.ApproverType,
		ApproverRole:         step.ApproverRole,
		ApproverUserID:       step.ApproverUserID,
		ApproverDepartmentID: deptID,
		RequiresSameDept:     step.RequiresSameDept,
		ApproverID:           approverID,
		StatusOnApproval:     step.StatusOnApproval,
		StatusOnCompletion:   step.StatusOnCompletion,
		StatusOnDecline:      declineStatusFor(step),
		Status:               RecordPending,
		CreatedAt:            time.Now(),
	}
	return rec, true, nil
}

// resolveApprover applies the step's approver-resolution rule. The returned
// id is zero for set-membership rules (role, department) where no single
// person is pinned up front.
func (e *Engine) resolveApprover(ctx context.Context, sub Subject, step workflow.StepDefinition) (primitive.ObjectID, bool, error) {
	switch step.ApproverType {
	case workflow.ApproverTypeRole:
		ok, err := e.Users.HasActiveWithRole(ctx, step.ApproverRole)
		return primitive.NilObjectID, ok, err

	case workflow.ApproverTypeUser:
		u, err := e.Users.FindByObjectID(ctx, step.ApproverUserID)
		if err != nil {
			return primitive.NilObjectID, false, err
		}
		if u == nil || u.Status != models.UserStatusActive {
			return primitive.NilObjectID, false, nil
		}
		return u.ID, true, nil

	case workflow.ApproverTypeDepartment:
		deptID := step.ApproverDepartmentID
		if step.RequiresSameDept {
			deptID = sub.DepartmentID
		}
		ok, err := e.Users.HasActiveApproverInDepartment(ctx, deptID)
		return primitive.NilObjectID, ok, err

	case workflow.ApproverTypeDepartmentApprover:
		deptID := step.ApproverDepartmentID
		if step.RequiresSameDept || deptID.IsZero() {
			deptID = sub.DepartmentID
		}
		dept, err := e.Departments.FindDepartmentByObjectID(ctx, deptID)
		if err != nil {
			return primitive.NilObjectID, false, err
		}
		if dept == nil || dept.ApproverID.IsZero() {
			return primitive.NilObjectID, false, nil
		}
		u, err := e.Users.FindByObjectID(ctx, dept.ApproverID)
		if err != nil {
			return primitive.NilObjectID, false, err
		}
		if u == nil || u.Status != models.UserStatusActive {
			return primitive.NilObjectID, false, nil
		}
		return dept.ApproverID, true, nil
	}
	return primitive.NilObjectID, false, apperr.Misconfigured(fmt.Sprintf("unknown approver_type %q", step.ApproverType))
}

// declineStatusFor picks the terminal status a decline at this step produces.
// Department and IT-manager tiers keep their historical per-tier values.
func declineStatusFor(step workflow.StepDefinition) string {
	switch {
	case step.ApproverType == workflow.ApproverTypeDepartment,
		step.ApproverType == workflow.ApproverTypeDepartmentApprover,
		step.ApproverRole == models.RoleDepartmentApprover:
		return StatusDepartmentDeclined
	case step.ApproverRole == models.RoleITManager:
		return StatusITManagerDeclined
	default:
		return StatusDeclined
	}
}
