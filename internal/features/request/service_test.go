package request

import (
	"testing"

	"go-reqdesk/internal/common/apperr"
	"go-reqdesk/internal/features/approval"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEditableBy(t *testing.T) {
	requestor := primitive.NewObjectID()
	other := primitive.NewObjectID()

	tests := []struct {
		name     string
		req      ItemRequest
		actorID  primitive.ObjectID
		wantKind apperr.Kind
		wantOK   bool
	}{
		{
			name:    "draft by requestor",
			req:     ItemRequest{RequestorID: requestor, Status: approval.StatusDraft},
			actorID: requestor,
			wantOK:  true,
		},
		{
			name:    "returned to requestor",
			req:     ItemRequest{RequestorID: requestor, Status: approval.StatusReturned, ReturnTargetOrder: 0},
			actorID: requestor,
			wantOK:  true,
		},
		{
			name:     "returned to an earlier approver step",
			req:      ItemRequest{RequestorID: requestor, Status: approval.StatusReturned, ReturnTargetOrder: 1},
			actorID:  requestor,
			wantKind: apperr.KindUnauthorized,
		},
		{
			name:     "not the requestor",
			req:      ItemRequest{RequestorID: requestor, Status: approval.StatusDraft},
			actorID:  other,
			wantKind: apperr.KindUnauthorized,
		},
		{
			name:     "submitted request",
			req:      ItemRequest{RequestorID: requestor, Status: approval.StatusSubmitted},
			actorID:  requestor,
			wantKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := editableBy(&tt.req, tt.actorID)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("editableBy() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("editableBy() error = nil, want error")
			}
			if apperr.KindOf(err) != tt.wantKind {
				t.Errorf("error kind = %v, want %v", apperr.KindOf(err), tt.wantKind)
			}
		})
	}
}
