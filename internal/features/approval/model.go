package approval

import (
	"time"

	"go-reqdesk/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record statuses. Once a record leaves pending it is immutable; corrections
// happen by returning and resubmitting, never by editing history.
const (
	RecordPending  = "pending"
	RecordApproved = "approved"
	RecordDeclined = "declined"
	RecordReturned = "returned"
)

// Request statuses shared by both request kinds. Configured workflows may
// introduce their own status_on_approval values; these are the fixed ones the
// engine and the legacy chains rely on.
const (
	StatusDraft              = "draft"
	StatusSubmitted          = "submitted"
	StatusDepartmentApproved = "department_approved"
	StatusITManagerApproved  = "it_manager_approved"
	StatusDispatchApproved   = "odhc_approved"
	StatusCompleted          = "completed"
	StatusReturned           = "returned"
	StatusDeclined           = "declined"
	StatusDepartmentDeclined = "department_declined"
	StatusITManagerDeclined  = "it_manager_declined"
)

// IsTerminal reports whether a request status permits no further main-chain
// action.
func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusDeclined, StatusDepartmentDeclined, StatusITManagerDeclined:
		return true
	}
	return false
}

// ApprovalRecord is the per-request, per-step audit row. It snapshots the
// step definition at materialization time so later workflow edits never
// rewrite in-flight history, and carries its own approver-resolution rule so
// authorization works without refetching configuration.
type ApprovalRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FormType   workflow.FormType  `bson:"form_type" json:"form_type"`
	RequestID  primitive.ObjectID `bson:"request_id" json:"request_id"`
	WorkflowID primitive.ObjectID `bson:"workflow_id,omitempty" json:"workflow_id,omitempty"` // zero for the legacy fixed chain
	Cycle      int                `bson:"cycle" json:"cycle"`
	StepOrder  int                `bson:"step_order" json:"step_order"`
	StepName   string             `bson:"step_name" json:"step_name"`

	// Approver-rule snapshot
	ApproverType         workflow.ApproverType `bson:"approver_type" json:"approver_type"`
	ApproverRole         string                `bson:"approver_role,omitempty" json:"approver_role,omitempty"`
	ApproverUserID       primitive.ObjectID    `bson:"approver_user_id,omitempty" json:"approver_user_id,omitempty"`
	ApproverDepartmentID primitive.ObjectID    `bson:"approver_department_id,omitempty" json:"approver_department_id,omitempty"`
	RequiresSameDept     bool                  `bson:"requires_same_department" json:"requires_same_department"`

	// ApproverID names the resolved person where the rule pins one
	// (user / department_approver types). For role and department rules it
	// is filled with the acting user once the record resolves.
	ApproverID   primitive.ObjectID `bson:"approver_id,omitempty" json:"approver_id,omitempty"`
	ApproverName string             `bson:"-" json:"approver_name,omitempty"`

	// Resulting-status snapshot
	StatusOnApproval   string `bson:"status_on_approval" json:"status_on_approval"`
	StatusOnCompletion string `bson:"status_on_completion,omitempty" json:"status_on_completion,omitempty"`
	StatusOnDecline    string `bson:"status_on_decline" json:"status_on_decline"`

	Status    string `bson:"status" json:"status"`
	Comments  string `bson:"comments,omitempty" json:"comments,omitempty"`
	Signature string `bson:"signature,omitempty" json:"signature,omitempty"`

	ReturnReason      string `bson:"return_reason,omitempty" json:"return_reason,omitempty"`
	ReturnTargetOrder int    `bson:"return_target_order,omitempty" json:"return_target_order,omitempty"` // 0 = requestor

	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	ApprovedAt *time.Time `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	DeclinedAt *time.Time `bson:"declined_at,omitempty" json:"declined_at,omitempty"`
	ReturnedAt *time.Time `bson:"returned_at,omitempty" json:"returned_at,omitempty"`
}

// Permissions is the output of the authorization resolver: what the calling
// user may do with the current pending record. The server-side check is
// authoritative; the copy returned to clients only drives UI affordances.
type Permissions struct {
	CanApprove bool `json:"can_approve"`
	CanDecline bool `json:"can_decline"`
	CanReturn  bool `json:"can_return"`
	CanSign    bool `json:"can_sign"`
}

// Subject identifies the request a workflow operation acts on.
type Subject struct {
	FormType     workflow.FormType
	RequestID    primitive.ObjectID
	RequestorID  primitive.ObjectID
	DepartmentID primitive.ObjectID
	Cycle        int
}
