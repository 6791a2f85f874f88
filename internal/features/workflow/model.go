package workflow

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormType selects which request kind a workflow applies to.
type FormType string

const (
	FormTypeItemRequest    FormType = "item_request"
	FormTypeVehicleRequest FormType = "vehicle_request"
)

// ApproverType declares how a step resolves its approver.
type ApproverType string

const (
	// ApproverTypeRole: any active user holding the configured role may act.
	ApproverTypeRole ApproverType = "role"
	// ApproverTypeUser: exactly the named user may act.
	ApproverTypeUser ApproverType = "user"
	// ApproverTypeDepartment: any active department_approver of the
	// configured department may act.
	ApproverTypeDepartment ApproverType = "department"
	// ApproverTypeDepartmentApprover: the designated approver of a
	// department — the requestor's own department when
	// requires_same_department is set, the configured one otherwise.
	ApproverTypeDepartmentApprover ApproverType = "department_approver"
)

// WorkflowDefinition is a named, ordered sequence of approval steps for one
// form type. At most one definition per form type is the active default.
type WorkflowDefinition struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FormType  FormType           `bson:"form_type" json:"form_type"`
	Name      string             `bson:"name" json:"name"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	IsDefault bool               `bson:"is_default" json:"is_default"`
	Steps     []StepDefinition   `bson:"steps" json:"steps"`
	CreatedBy primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy primitive.ObjectID `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// StepDefinition is one ordered stage within a workflow. Editing a step never
// rewrites approval records already materialized for in-flight requests —
// those carry their own snapshot of the step.
type StepDefinition struct {
	StepOrder            int                `bson:"step_order" json:"step_order"`
	StepName             string             `bson:"step_name" json:"step_name"`
	ApproverType         ApproverType       `bson:"approver_type" json:"approver_type"`
	ApproverRole         string             `bson:"approver_role,omitempty" json:"approver_role,omitempty"`
	ApproverUserID       primitive.ObjectID `bson:"approver_user_id,omitempty" json:"approver_user_id,omitempty"`
	ApproverDepartmentID primitive.ObjectID `bson:"approver_department_id,omitempty" json:"approver_department_id,omitempty"`
	RequiresSameDept     bool               `bson:"requires_same_department" json:"requires_same_department"`
	IsRequired           bool               `bson:"is_required" json:"is_required"`
	CanSkip              bool               `bson:"can_skip" json:"can_skip"`
	StatusOnApproval     string             `bson:"status_on_approval" json:"status_on_approval"`
	StatusOnCompletion   string             `bson:"status_on_completion,omitempty" json:"status_on_completion,omitempty"`
}
