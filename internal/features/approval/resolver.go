package approval

import (
	"go-reqdesk/internal/common/models"
	"go-reqdesk/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanAct is the authorization resolver: a pure predicate deciding what the
// acting user may do with the current pending record. It returns all-false
// when there is nothing to act on. Callers use it both to enforce actions
// server-side and to expose advisory permissions to the UI.
func CanAct(actor models.ActingUser, requestDeptID primitive.ObjectID, requestStatus string, rec *ApprovalRecord) Permissions {
	if rec == nil || rec.Status != RecordPending {
		return Permissions{}
	}
	if IsTerminal(requestStatus) {
		return Permissions{}
	}

	match := false
	switch rec.ApproverType {
	case workflow.ApproverTypeRole:
		match = actor.Role == rec.ApproverRole
		if match && rec.RequiresSameDept {
			match = actor.DepartmentID == requestDeptID
		}
	case workflow.ApproverTypeUser:
		match = actor.ID == rec.ApproverUserID
	case workflow.ApproverTypeDepartment:
		deptID := rec.ApproverDepartmentID
		if rec.RequiresSameDept {
			deptID = requestDeptID
		}
		match = actor.Role == models.RoleDepartmentApprover && actor.DepartmentID == deptID
	case workflow.ApproverTypeDepartmentApprover:
		// Resolved to a single person at materialization time.
		match = !rec.ApproverID.IsZero() && actor.ID == rec.ApproverID
	}

	if !match {
		return Permissions{}
	}

	return Permissions{
		CanApprove: true,
		CanDecline: true,
		CanReturn:  true,
		CanSign:    rec.Signature == "",
	}
}
