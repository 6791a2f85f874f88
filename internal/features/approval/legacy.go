package approval

import (
	"go-reqdesk/internal/common/models"
	"go-reqdesk/internal/features/workflow"
)

// LegacyChain is the hardcoded approval pipeline used when no workflow has
// been configured for a form type, preserving behavior for deployments that
// predate configurable workflows.
//
// Item requests: department approver -> IT manager -> service desk.
// Vehicle requests: department approver -> ODHC dispatcher.
func LegacyChain(formType workflow.FormType) []workflow.StepDefinition {
	if formType == workflow.FormTypeVehicleRequest {
		return []workflow.StepDefinition{
			{
				StepOrder:        1,
				StepName:         "Department Approval",
				ApproverType:     workflow.ApproverTypeDepartmentApprover,
				RequiresSameDept: true,
				IsRequired:       true,
				StatusOnApproval: StatusDepartmentApproved,
			},
			{
				StepOrder:          2,
				StepName:           "ODHC Dispatch",
				ApproverType:       workflow.ApproverTypeRole,
				ApproverRole:       models.RoleDispatcher,
				IsRequired:         true,
				StatusOnApproval:   StatusDispatchApproved,
				StatusOnCompletion: StatusCompleted,
			},
		}
	}

	return []workflow.StepDefinition{
		{
			StepOrder:        1,
			StepName:         "Department Approval",
			ApproverType:     workflow.ApproverTypeDepartmentApprover,
			RequiresSameDept: true,
			IsRequired:       true,
			StatusOnApproval: StatusDepartmentApproved,
		},
		{
			StepOrder:        2,
			StepName:         "IT Manager Approval",
			ApproverType:     workflow.ApproverTypeRole,
			ApproverRole:     models.RoleITManager,
			IsRequired:       true,
			StatusOnApproval: StatusITManagerApproved,
		},
		{
			StepOrder:          3,
			StepName:           "Service Desk Processing",
			ApproverType:       workflow.ApproverTypeRole,
			ApproverRole:       models.RoleServiceDesk,
			IsRequired:         true,
			StatusOnApproval:   StatusCompleted,
			StatusOnCompletion: StatusCompleted,
		},
	}
}
