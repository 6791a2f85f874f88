package approval

import (
	"testing"

	"go-reqdesk/internal/common/models"
	"go-reqdesk/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanAct(t *testing.T) {
	deptA := primitive.NewObjectID()
	deptB := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	pendingRole := func(role string, sameDept bool) *ApprovalRecord {
		return &ApprovalRecord{
			Status:           RecordPending,
			ApproverType:     workflow.ApproverTypeRole,
			ApproverRole:     role,
			RequiresSameDept: sameDept,
		}
	}

	tests := []struct {
		name          string
		actor         models.ActingUser
		requestDeptID primitive.ObjectID
		requestStatus string
		rec           *ApprovalRecord
		wantApprove   bool
	}{
		{
			name:          "nil record",
			actor:         models.ActingUser{ID: alice, Role: models.RoleITManager},
			requestStatus: StatusSubmitted,
			rec:           nil,
		},
		{
			name:          "record not pending",
			actor:         models.ActingUser{ID: alice, Role: models.RoleITManager},
			requestStatus: StatusSubmitted,
			rec:           &ApprovalRecord{Status: RecordApproved, ApproverType: workflow.ApproverTypeRole, ApproverRole: models.RoleITManager},
		},
		{
			name:          "terminal request status",
			actor:         models.ActingUser{ID: alice, Role: models.RoleITManager},
			requestStatus: StatusDeclined,
			rec:           pendingRole(models.RoleITManager, false),
		},
		{
			name:          "role match",
			actor:         models.ActingUser{ID: alice, Role: models.RoleITManager},
			requestStatus: StatusDepartmentApproved,
			rec:           pendingRole(models.RoleITManager, false),
			wantApprove:   true,
		},
		{
			name:          "role mismatch",
			actor:         models.ActingUser{ID: alice, Role: models.RoleServiceDesk},
			requestStatus: StatusDepartmentApproved,
			rec:           pendingRole(models.RoleITManager, false),
		},
		{
			name:          "role with same-dept constraint, wrong department",
			actor:         models.ActingUser{ID: alice, Role: models.RoleDepartmentApprover, DepartmentID: deptB},
			requestDeptID: deptA,
			requestStatus: StatusSubmitted,
			rec:           pendingRole(models.RoleDepartmentApprover, true),
		},
		{
			name:          "role with same-dept constraint, right department",
			actor:         models.ActingUser{ID: alice, Role: models.RoleDepartmentApprover, DepartmentID: deptA},
			requestDeptID: deptA,
			requestStatus: StatusSubmitted,
			rec:           pendingRole(models.RoleDepartmentApprover, true),
			wantApprove:   true,
		},
		{
			name:          "pinned user match",
			actor:         models.ActingUser{ID: alice, Role: models.RoleEmployee},
			requestStatus: StatusSubmitted,
			rec: &ApprovalRecord{
				Status:         RecordPending,
				ApproverType:   workflow.ApproverTypeUser,
				ApproverUserID: alice,
			},
			wantApprove: true,
		},
		{
			name:          "pinned user mismatch",
			actor:         models.ActingUser{ID: bob, Role: models.RoleAdmin},
			requestStatus: StatusSubmitted,
			rec: &ApprovalRecord{
				Status:         RecordPending,
				ApproverType:   workflow.ApproverTypeUser,
				ApproverUserID: alice,
			},
		},
		{
			name:          "department rule needs approver role",
			actor:         models.ActingUser{ID: alice, Role: models.RoleEmployee, DepartmentID: deptA},
			requestDeptID: deptA,
			requestStatus: StatusSubmitted,
			rec: &ApprovalRecord{
				Status:           RecordPending,
				ApproverType:     workflow.ApproverTypeDepartment,
				RequiresSameDept: true,
			},
		},
		{
			name:          "department rule with fixed department",
			actor:         models.ActingUser{ID: alice, Role: models.RoleDepartmentApprover, DepartmentID: deptB},
			requestDeptID: deptA,
			requestStatus: StatusSubmitted,
			rec: &ApprovalRecord{
				Status:               RecordPending,
				ApproverType:         workflow.ApproverTypeDepartment,
				ApproverDepartmentID: deptB,
			},
			wantApprove: true,
		},
		{
			name:          "department approver resolved person",
			actor:         models.ActingUser{ID: alice, Role: models.RoleDepartmentApprover, DepartmentID: deptA},
			requestDeptID: deptA,
			requestStatus: StatusSubmitted,
			rec: &ApprovalRecord{
				Status:       RecordPending,
				ApproverType: workflow.ApproverTypeDepartmentApprover,
				ApproverID:   alice,
			},
			wantApprove: true,
		},
		{
			name:          "department approver wrong person",
			actor:         models.ActingUser{ID: bob, Role: models.RoleDepartmentApprover, DepartmentID: deptA},
			requestDeptID: deptA,
			requestStatus: StatusSubmitted,
			rec: &ApprovalRecord{
				Status:       RecordPending,
				ApproverType: workflow.ApproverTypeDepartmentApprover,
				ApproverID:   alice,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAct(tt.actor, tt.requestDeptID, tt.requestStatus, tt.rec)
			if got.CanApprove != tt.wantApprove {
				t.Errorf("CanApprove = %v, want %v", got.CanApprove, tt.wantApprove)
			}
			if got.CanApprove != got.CanDecline || got.CanApprove != got.CanReturn {
				t.Errorf("approve/decline/return should move together, got %+v", got)
			}
		})
	}
}

func TestCanActSignOnce(t *testing.T) {
	alice := primitive.NewObjectID()
	rec := &ApprovalRecord{
		Status:         RecordPending,
		ApproverType:   workflow.ApproverTypeUser,
		ApproverUserID: alice,
	}
	actor := models.ActingUser{ID: alice, Role: models.RoleEmployee}

	if got := CanAct(actor, primitive.NilObjectID, StatusSubmitted, rec); !got.CanSign {
		t.Error("CanSign = false for unsigned record, want true")
	}
	rec.Signature = "blob://sig"
	if got := CanAct(actor, primitive.NilObjectID, StatusSubmitted, rec); got.CanSign {
		t.Error("CanSign = true for already-signed record, want false")
	}
}
