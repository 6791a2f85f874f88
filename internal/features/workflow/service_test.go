package workflow

import (
	"testing"

	"go-reqdesk/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func roleStep(order int, role, statusOnApproval string) StepDefinition {
	return StepDefinition{
		StepOrder:        order,
		StepName:         "Step",
		ApproverType:     ApproverTypeRole,
		ApproverRole:     role,
		IsRequired:       true,
		StatusOnApproval: statusOnApproval,
	}
}

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name    string
		wf      WorkflowDefinition
		wantErr bool
	}{
		{
			name: "valid two step",
			wf: WorkflowDefinition{
				Name:     "Standard",
				FormType: FormTypeItemRequest,
				Steps: []StepDefinition{
					roleStep(1, "department_approver", "department_approved"),
					roleStep(2, "it_manager", "it_manager_approved"),
				},
			},
		},
		{
			name: "steps out of order are sorted before checking",
			wf: WorkflowDefinition{
				Name:     "Reversed",
				FormType: FormTypeItemRequest,
				Steps: []StepDefinition{
					roleStep(2, "it_manager", "it_manager_approved"),
					roleStep(1, "department_approver", "department_approved"),
				},
			},
		},
		{
			name: "missing name",
			wf: WorkflowDefinition{
				FormType: FormTypeItemRequest,
				Steps:    []StepDefinition{roleStep(1, "it_manager", "approved")},
			},
			wantErr: true,
		},
		{
			name:    "unknown form type",
			wf:      WorkflowDefinition{Name: "X", FormType: "purchase_order", Steps: []StepDefinition{roleStep(1, "it_manager", "approved")}},
			wantErr: true,
		},
		{
			name:    "no steps",
			wf:      WorkflowDefinition{Name: "Empty", FormType: FormTypeVehicleRequest},
			wantErr: true,
		},
		{
			name: "gap in step order",
			wf: WorkflowDefinition{
				Name:     "Gapped",
				FormType: FormTypeItemRequest,
				Steps: []StepDefinition{
					roleStep(1, "department_approver", "department_approved"),
					roleStep(3, "it_manager", "it_manager_approved"),
				},
			},
			wantErr: true,
		},
		{
			name: "duplicate step order",
			wf: WorkflowDefinition{
				Name:     "Duped",
				FormType: FormTypeItemRequest,
				Steps: []StepDefinition{
					roleStep(1, "department_approver", "department_approved"),
					roleStep(1, "it_manager", "it_manager_approved"),
				},
			},
			wantErr: true,
		},
		{
			name: "missing status_on_approval",
			wf: WorkflowDefinition{
				Name:     "NoStatus",
				FormType: FormTypeItemRequest,
				Steps:    []StepDefinition{roleStep(1, "it_manager", "")},
			},
			wantErr: true,
		},
		{
			name: "role step without role",
			wf: WorkflowDefinition{
				Name:     "NoRole",
				FormType: FormTypeItemRequest,
				Steps:    []StepDefinition{roleStep(1, "", "approved")},
			},
			wantErr: true,
		},
		{
			name: "user step without user id",
			wf: WorkflowDefinition{
				Name:     "NoUser",
				FormType: FormTypeItemRequest,
				Steps: []StepDefinition{{
					StepOrder:        1,
					StepName:         "Named person",
					ApproverType:     ApproverTypeUser,
					StatusOnApproval: "approved",
				}},
			},
			wantErr: true,
		},
		{
			name: "department step with same-dept flag needs no department id",
			wf: WorkflowDefinition{
				Name:     "SameDept",
				FormType: FormTypeVehicleRequest,
				Steps: []StepDefinition{{
					StepOrder:        1,
					StepName:         "Department Approval",
					ApproverType:     ApproverTypeDepartment,
					RequiresSameDept: true,
					StatusOnApproval: "department_approved",
				}},
			},
		},
		{
			name: "department step without department id or same-dept flag",
			wf: WorkflowDefinition{
				Name:     "NoDept",
				FormType: FormTypeVehicleRequest,
				Steps: []StepDefinition{{
					StepOrder:        1,
					StepName:         "Department Approval",
					ApproverType:     ApproverTypeDepartment,
					StatusOnApproval: "department_approved",
				}},
			},
			wantErr: true,
		},
		{
			name: "unknown approver type",
			wf: WorkflowDefinition{
				Name:     "Unknown",
				FormType: FormTypeItemRequest,
				Steps: []StepDefinition{{
					StepOrder:        1,
					StepName:         "Mystery",
					ApproverType:     "committee",
					StatusOnApproval: "approved",
				}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDefinition(&tt.wf)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDefinition() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && apperr.KindOf(err) != apperr.KindValidation {
				t.Errorf("ValidateDefinition() kind = %v, want validation", apperr.KindOf(err))
			}
		})
	}
}

func TestValidateDefinitionUserStep(t *testing.T) {
	wf := WorkflowDefinition{
		Name:     "Pinned",
		FormType: FormTypeItemRequest,
		Steps: []StepDefinition{{
			StepOrder:        1,
			StepName:         "CFO sign-off",
			ApproverType:     ApproverTypeUser,
			ApproverUserID:   primitive.NewObjectID(),
			StatusOnApproval: "approved",
		}},
	}
	if err := ValidateDefinition(&wf); err != nil {
		t.Fatalf("ValidateDefinition() = %v, want nil", err)
	}
}

func TestSortSteps(t *testing.T) {
	wf := WorkflowDefinition{
		Steps: []StepDefinition{
			{StepOrder: 3, StepName: "c"},
			{StepOrder: 1, StepName: "a"},
			{StepOrder: 2, StepName: "b"},
		},
	}
	SortSteps(&wf)
	for i, want := range []string{"a", "b", "c"} {
		if wf.Steps[i].StepName != want {
			t.Errorf("steps[%d] = %s, want %s", i, wf.Steps[i].StepName, want)
		}
	}
}
