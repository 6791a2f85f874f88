package vehicle

import (
	"testing"
	"time"

	"go-reqdesk/internal/common/apperr"
	common_models "go-reqdesk/internal/common/models"
	"go-reqdesk/internal/features/approval"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsSameDay(t *testing.T) {
	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	sameDayLater := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)

	tests := []struct {
		name     string
		prepared *time.Time
		travel   *time.Time
		want     bool
	}{
		{"same calendar day", &day, &sameDayLater, true},
		{"different days", &day, &nextDay, false},
		{"nil prepared", nil, &day, false},
		{"nil travel", &day, nil, false},
		{"both nil", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSameDay(tt.prepared, tt.travel); got != tt.want {
				t.Errorf("isSameDay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidRequestType(t *testing.T) {
	valid := []RequestType{TypeDropPassenger, TypePointToPoint, TypePickupOnly, TypeItemPickup, TypeItemDelivery, TypeCarOnly}
	for _, rt := range valid {
		if !ValidRequestType(rt) {
			t.Errorf("ValidRequestType(%q) = false, want true", rt)
		}
	}
	for _, rt := range []RequestType{"", "helicopter", "DROP_PASSENGER"} {
		if ValidRequestType(rt) {
			t.Errorf("ValidRequestType(%q) = true, want false", rt)
		}
	}
}

func TestEditableBy(t *testing.T) {
	requestor := primitive.NewObjectID()

	returnedToRequestor := VehicleRequest{RequestorID: requestor, Status: approval.StatusReturned}
	if err := editableBy(&returnedToRequestor, requestor); err != nil {
		t.Errorf("editableBy() error = %v for a request returned to the requestor, want nil", err)
	}

	// A return aimed at an earlier approver step leaves the content frozen
	// for the requestor.
	returnedToStep := VehicleRequest{RequestorID: requestor, Status: approval.StatusReturned, ReturnTargetOrder: 1}
	if err := editableBy(&returnedToStep, requestor); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("editableBy() error = %v, want unauthorized", err)
	}
}

func TestIsDispatchStep(t *testing.T) {
	tests := []struct {
		name string
		rec  approval.ApprovalRecord
		want bool
	}{
		{
			name: "dispatcher role step",
			rec:  approval.ApprovalRecord{ApproverRole: common_models.RoleDispatcher},
			want: true,
		},
		{
			name: "configured step landing on odhc_approved",
			rec:  approval.ApprovalRecord{StatusOnApproval: approval.StatusDispatchApproved},
			want: true,
		},
		{
			name: "department step",
			rec:  approval.ApprovalRecord{ApproverRole: common_models.RoleDepartmentApprover, StatusOnApproval: approval.StatusDepartmentApproved},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDispatchStep(&tt.rec); got != tt.want {
				t.Errorf("isDispatchStep() = %v, want %v", got, tt.want)
			}
		})
	}
}
