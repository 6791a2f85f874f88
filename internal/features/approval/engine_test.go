package approval

import (
	"context"
	"testing"

	"go-reqdesk/internal/common/apperr"
	"go-reqdesk/internal/common/models"
	"go-reqdesk/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUsers struct {
	users         map[primitive.ObjectID]*models.User
	activeRoles   map[string]bool
	deptApprovers map[primitive.ObjectID]bool
}

func (f *fakeUsers) FindByObjectID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUsers) HasActiveWithRole(_ context.Context, role string) (bool, error) {
	return f.activeRoles[role], nil
}

func (f *fakeUsers) HasActiveApproverInDepartment(_ context.Context, deptID primitive.ObjectID) (bool, error) {
	return f.deptApprovers[deptID], nil
}

type fakeDepartments struct {
	depts map[primitive.ObjectID]*models.Department
}

func (f *fakeDepartments) FindDepartmentByObjectID(_ context.Context, id primitive.ObjectID) (*models.Department, error) {
	return f.depts[id], nil
}

type fakeWorkflows struct {
	byFormType map[workflow.FormType]*workflow.WorkflowDefinition
	byID       map[string]*workflow.WorkflowDefinition
}

func (f *fakeWorkflows) ResolveForFormType(_ context.Context, ft workflow.FormType) (*workflow.WorkflowDefinition, error) {
	return f.byFormType[ft], nil
}

func (f *fakeWorkflows) GetWorkflowByID(_ context.Context, id string) (*workflow.WorkflowDefinition, error) {
	return f.byID[id], nil
}

func twoStepWorkflow() *workflow.WorkflowDefinition {
	return &workflow.WorkflowDefinition{
		ID:       primitive.NewObjectID(),
		FormType: workflow.FormTypeItemRequest,
		Name:     "Standard",
		IsActive: true,
		Steps: []workflow.StepDefinition{
			{
				StepOrder:        1,
				StepName:         "Department Approval",
				ApproverType:     workflow.ApproverTypeRole,
				ApproverRole:     models.RoleDepartmentApprover,
				RequiresSameDept: true,
				IsRequired:       true,
				StatusOnApproval: StatusDepartmentApproved,
			},
			{
				StepOrder:          2,
				StepName:           "IT Manager Approval",
				ApproverType:       workflow.ApproverTypeRole,
				ApproverRole:       models.RoleITManager,
				IsRequired:         true,
				StatusOnApproval:   StatusITManagerApproved,
				StatusOnCompletion: StatusCompleted,
			},
		},
	}
}

func newTestEngine(wf *workflow.WorkflowDefinition, users *fakeUsers) *Engine {
	flows := &fakeWorkflows{
		byFormType: map[workflow.FormType]*workflow.WorkflowDefinition{},
		byID:       map[string]*workflow.WorkflowDefinition{},
	}
	if wf != nil {
		flows.byFormType[wf.FormType] = wf
		flows.byID[wf.ID.Hex()] = wf
	}
	if users == nil {
		users = &fakeUsers{activeRoles: map[string]bool{}}
	}
	return NewEngine(flows, users, &fakeDepartments{depts: map[primitive.ObjectID]*models.Department{}})
}

func testSubject(cycle int) Subject {
	return Subject{
		FormType:     workflow.FormTypeItemRequest,
		RequestID:    primitive.NewObjectID(),
		RequestorID:  primitive.NewObjectID(),
		DepartmentID: primitive.NewObjectID(),
		Cycle:        cycle,
	}
}

func TestEngineStartMaterializesFirstStep(t *testing.T) {
	wf := twoStepWorkflow()
	sub := testSubject(1)
	users := &fakeUsers{activeRoles: map[string]bool{models.RoleDepartmentApprover: true, models.RoleITManager: true}}
	eng := newTestEngine(wf, users)

	start, err := eng.Start(context.Background(), sub, 1)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if start.Record == nil {
		t.Fatal("Start() record = nil, want first step")
	}
	if start.Record.StepOrder != 1 {
		t.Errorf("StepOrder = %d, want 1", start.Record.StepOrder)
	}
	if start.Record.Status != RecordPending {
		t.Errorf("record status = %s, want pending", start.Record.Status)
	}
	if start.Record.Cycle != 1 {
		t.Errorf("record cycle = %d, want 1", start.Record.Cycle)
	}
	if start.Record.WorkflowID != wf.ID {
		t.Error("record not pinned to the governing workflow")
	}
	if start.RequestStatus != StatusSubmitted {
		t.Errorf("request status = %s, want submitted", start.RequestStatus)
	}
	if start.Record.StatusOnDecline != StatusDepartmentDeclined {
		t.Errorf("StatusOnDecline = %s, want department_declined", start.Record.StatusOnDecline)
	}
}

func TestEngineStartAfterReturnSkipsEarlierSteps(t *testing.T) {
	wf := twoStepWorkflow()
	sub := testSubject(2)
	users := &fakeUsers{activeRoles: map[string]bool{models.RoleDepartmentApprover: true, models.RoleITManager: true}}
	eng := newTestEngine(wf, users)

	// Return target was step 2: regeneration starts there, and the request
	// status reflects step 1's approval from the earlier cycle.
	start, err := eng.Start(context.Background(), sub, 2)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if start.Record == nil || start.Record.StepOrder != 2 {
		t.Fatalf("Start() record = %+v, want step 2", start.Record)
	}
	if start.RequestStatus != StatusDepartmentApproved {
		t.Errorf("request status = %s, want department_approved", start.RequestStatus)
	}
}

func TestEngineStartRequiredStepUnresolvable(t *testing.T) {
	wf := twoStepWorkflow()
	sub := testSubject(1)
	users := &fakeUsers{activeRoles: map[string]bool{}} // nobody holds any role
	eng := newTestEngine(wf, users)

	_, err := eng.Start(context.Background(), sub, 1)
	if err == nil {
		t.Fatal("Start() error = nil, want workflow_misconfigured")
	}
	if apperr.KindOf(err) != apperr.KindMisconfigured {
		t.Errorf("error kind = %v, want misconfigured", apperr.KindOf(err))
	}
}

func TestEngineStartSkippableStep(t *testing.T) {
	wf := twoStepWorkflow()
	wf.Steps[0].IsRequired = false
	wf.Steps[0].CanSkip = true
	sub := testSubject(1)
	users := &fakeUsers{activeRoles: map[string]bool{models.RoleITManager: true}}
	eng := newTestEngine(wf, users)

	start, err := eng.Start(context.Background(), sub, 1)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if start.Record == nil || start.Record.StepOrder != 2 {
		t.Fatalf("record = %+v, want step 2 after skipping step 1", start.Record)
	}
	// A skipped step contributes no status; the chain is still at its head.
	if start.RequestStatus != StatusSubmitted {
		t.Errorf("request status = %s, want submitted", start.RequestStatus)
	}
}

func TestEngineStartAllStepsSkipped(t *testing.T) {
	wf := twoStepWorkflow()
	for i := range wf.Steps {
		wf.Steps[i].IsRequired = false
		wf.Steps[i].CanSkip = true
	}
	sub := testSubject(1)
	eng := newTestEngine(wf, &fakeUsers{activeRoles: map[string]bool{}})

	start, err := eng.Start(context.Background(), sub, 1)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if start.Record != nil {
		t.Fatalf("record = %+v, want nil when every step is skipped", start.Record)
	}
	if start.RequestStatus != StatusCompleted {
		t.Errorf("request status = %s, want completed", start.RequestStatus)
	}
}

func TestEngineStartLegacyFallback(t *testing.T) {
	// No workflow configured for the form type: the fixed legacy chain
	// applies and records carry a zero workflow id.
	sub := testSubject(1)
	approverID := primitive.NewObjectID()
	users := &fakeUsers{
		users: map[primitive.ObjectID]*models.User{
			approverID: {ID: approverID, Status: models.UserStatusActive, Role: models.RoleDepartmentApprover},
		},
		activeRoles: map[string]bool{models.RoleITManager: true, models.RoleServiceDesk: true},
	}
	flows := &fakeWorkflows{
		byFormType: map[workflow.FormType]*workflow.WorkflowDefinition{},
		byID:       map[string]*workflow.WorkflowDefinition{},
	}
	depts := &fakeDepartments{depts: map[primitive.ObjectID]*models.Department{
		sub.DepartmentID: {ID: sub.DepartmentID, Name: "Ops", ApproverID: approverID},
	}}
	eng := NewEngine(flows, users, depts)

	start, err := eng.Start(context.Background(), sub, 1)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if start.Record == nil {
		t.Fatal("Start() record = nil")
	}
	if !start.Record.WorkflowID.IsZero() {
		t.Error("legacy record should carry a zero workflow id")
	}
	if start.Record.StepName != "Department Approval" {
		t.Errorf("first legacy step = %s, want Department Approval", start.Record.StepName)
	}
	if start.Record.ApproverID != approverID {
		t.Error("legacy department step should pin the department's approver")
	}
}

func TestEngineStartAfterReturnIgnoresSkippedSteps(t *testing.T) {
	wf := twoStepWorkflow()
	wf.Steps[0].IsRequired = false
	wf.Steps[0].CanSkip = true
	sub := testSubject(2)
	// Nobody holds the department approver role, so step 1 was skipped in
	// the prior cycle and never approved.
	users := &fakeUsers{activeRoles: map[string]bool{models.RoleITManager: true}}
	eng := newTestEngine(wf, users)

	start, err := eng.Start(context.Background(), sub, 2)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if start.Record == nil || start.Record.StepOrder != 2 {
		t.Fatalf("record = %+v, want step 2", start.Record)
	}
	// A skipped step must not lend its status_on_approval to the resumed
	// cycle; the request never reached department_approved.
	if start.RequestStatus != StatusSubmitted {
		t.Errorf("request status = %s, want submitted", start.RequestStatus)
	}
}

func TestEngineSameDeptStepPinsRequestDepartment(t *testing.T) {
	wf := twoStepWorkflow()
	wf.Steps[0].ApproverType = workflow.ApproverTypeDepartment
	wf.Steps[0].ApproverRole = ""
	sub := testSubject(1)
	users := &fakeUsers{
		activeRoles:   map[string]bool{models.RoleITManager: true},
		deptApprovers: map[primitive.ObjectID]bool{sub.DepartmentID: true},
	}
	eng := newTestEngine(wf, users)

	start, err := eng.Start(context.Background(), sub, 1)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if start.Record == nil || start.Record.StepOrder != 1 {
		t.Fatalf("record = %+v, want step 1", start.Record)
	}
	// Same-dept rules snapshot the requestor's department so notification
	// fan-out reaches the approvers the step actually authorizes.
	if start.Record.ApproverDepartmentID != sub.DepartmentID {
		t.Errorf("ApproverDepartmentID = %s, want the request's department %s",
			start.Record.ApproverDepartmentID.Hex(), sub.DepartmentID.Hex())
	}
}

func TestEnginePlanAdvance(t *testing.T) {
	wf := twoStepWorkflow()
	sub := testSubject(1)
	users := &fakeUsers{activeRoles: map[string]bool{models.RoleDepartmentApprover: true, models.RoleITManager: true}}
	eng := newTestEngine(wf, users)

	start, err := eng.Start(context.Background(), sub, 1)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	plan, err := eng.PlanAdvance(context.Background(), sub, start.Record)
	if err != nil {
		t.Fatalf("PlanAdvance() error = %v", err)
	}
	if plan.Terminal {
		t.Fatal("Terminal = true after step 1 of 2")
	}
	if plan.Next == nil || plan.Next.StepOrder != 2 {
		t.Fatalf("Next = %+v, want step 2", plan.Next)
	}
	if plan.RequestStatus != StatusDepartmentApproved {
		t.Errorf("request status = %s, want department_approved", plan.RequestStatus)
	}

	final, err := eng.PlanAdvance(context.Background(), sub, plan.Next)
	if err != nil {
		t.Fatalf("PlanAdvance() error = %v", err)
	}
	if !final.Terminal || final.Next != nil {
		t.Fatalf("final plan = %+v, want terminal with no next", final)
	}
	if final.RequestStatus != StatusCompleted {
		t.Errorf("final status = %s, want completed", final.RequestStatus)
	}
}

func TestEnginePlanAdvanceLegacyChainIgnoresNewWorkflow(t *testing.T) {
	sub := testSubject(1)
	approverID := primitive.NewObjectID()
	users := &fakeUsers{
		users: map[primitive.ObjectID]*models.User{
			approverID: {ID: approverID, Status: models.UserStatusActive, Role: models.RoleDepartmentApprover},
		},
		activeRoles: map[string]bool{models.RoleITManager: true, models.RoleServiceDesk: true},
	}
	flows := &fakeWorkflows{
		byFormType: map[workflow.FormType]*workflow.WorkflowDefinition{},
		byID:       map[string]*workflow.WorkflowDefinition{},
	}
	depts := &fakeDepartments{depts: map[primitive.ObjectID]*models.Department{
		sub.DepartmentID: {ID: sub.DepartmentID, Name: "Ops", ApproverID: approverID},
	}}
	eng := NewEngine(flows, users, depts)

	start, err := eng.Start(context.Background(), sub, 1)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// A workflow configured after submission must not hijack an in-flight
	// legacy request; the fixed chain keeps governing it.
	wf := twoStepWorkflow()
	flows.byFormType[wf.FormType] = wf
	flows.byID[wf.ID.Hex()] = wf

	plan, err := eng.PlanAdvance(context.Background(), sub, start.Record)
	if err != nil {
		t.Fatalf("PlanAdvance() error = %v", err)
	}
	if plan.Terminal {
		t.Fatal("Terminal = true after legacy step 1 of 3")
	}
	if plan.Next == nil || plan.Next.StepName != "IT Manager Approval" {
		t.Fatalf("Next = %+v, want the legacy IT Manager step", plan.Next)
	}
	if !plan.Next.WorkflowID.IsZero() {
		t.Error("legacy continuation record should keep a zero workflow id")
	}

	final, err := eng.PlanAdvance(context.Background(), sub, plan.Next)
	if err != nil {
		t.Fatalf("PlanAdvance() error = %v", err)
	}
	if final.Next == nil || final.Next.StepName != "Service Desk Processing" {
		t.Fatalf("Next = %+v, want the legacy Service Desk step", final.Next)
	}
}

func TestEnginePlanAdvanceDeletedWorkflow(t *testing.T) {
	wf := twoStepWorkflow()
	sub := testSubject(1)
	users := &fakeUsers{activeRoles: map[string]bool{models.RoleDepartmentApprover: true, models.RoleITManager: true}}
	eng := newTestEngine(wf, users)

	start, err := eng.Start(context.Background(), sub, 1)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Workflow disappears between submit and approval.
	eng.Workflows.(*fakeWorkflows).byID = map[string]*workflow.WorkflowDefinition{}
	_, err = eng.PlanAdvance(context.Background(), sub, start.Record)
	if apperr.KindOf(err) != apperr.KindMisconfigured {
		t.Errorf("error kind = %v, want misconfigured", apperr.KindOf(err))
	}
}

func TestEngineResolveDepartmentApprover(t *testing.T) {
	deptID := primitive.NewObjectID()
	approverID := primitive.NewObjectID()
	wf := &workflow.WorkflowDefinition{
		ID:       primitive.NewObjectID(),
		FormType: workflow.FormTypeVehicleRequest,
		Name:     "Vehicle",
		Steps: []workflow.StepDefinition{{
			StepOrder:        1,
			StepName:         "Department Approval",
			ApproverType:     workflow.ApproverTypeDepartmentApprover,
			RequiresSameDept: true,
			IsRequired:       true,
			StatusOnApproval: StatusDepartmentApproved,
		}},
	}

	users := &fakeUsers{users: map[primitive.ObjectID]*models.User{
		approverID: {ID: approverID, Status: models.UserStatusActive, Role: models.RoleDepartmentApprover},
	}}
	flows := &fakeWorkflows{
		byFormType: map[workflow.FormType]*workflow.WorkflowDefinition{wf.FormType: wf},
		byID:       map[string]*workflow.WorkflowDefinition{wf.ID.Hex(): wf},
	}
	depts := &fakeDepartments{depts: map[primitive.ObjectID]*models.Department{
		deptID: {ID: deptID, Name: "Finance", ApproverID: approverID},
	}}
	eng := NewEngine(flows, users, depts)

	sub := Subject{
		FormType:     workflow.FormTypeVehicleRequest,
		RequestID:    primitive.NewObjectID(),
		RequestorID:  primitive.NewObjectID(),
		DepartmentID: deptID,
		Cycle:        1,
	}
	start, err := eng.Start(context.Background(), sub, 1)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if start.Record.ApproverID != approverID {
		t.Errorf("ApproverID = %s, want the department's designated approver", start.Record.ApproverID.Hex())
	}
}
