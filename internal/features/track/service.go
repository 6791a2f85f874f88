package track

import (
	"context"
	"strings"
	"time"

	"go-reqdesk/internal/common/apperr"
	"go-reqdesk/internal/features/approval"
	"go-reqdesk/internal/features/request"
	"go-reqdesk/internal/features/vehicle"
	"go-reqdesk/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimelineEntry is one resolved or pending step in the public view. It hides
// approver identities; the tracking page only shows progress.
type TimelineEntry struct {
	StepName   string     `json:"step_name"`
	Status     string     `json:"status"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

type TrackResult struct {
	ReferenceCode string          `json:"reference_code"`
	FormType      string          `json:"form_type"`
	Status        string          `json:"status"`
	SubmittedAt   *time.Time      `json:"submitted_at,omitempty"`
	Timeline      []TimelineEntry `json:"timeline"`
}

type TrackService interface {
	Track(ctx context.Context, code string) (*TrackResult, error)
}

type TrackServiceImpl struct {
	Requests  request.RequestRepository
	Vehicles  vehicle.VehicleRepository
	Approvals approval.ApprovalRepository
}

func NewTrackService(requests request.RequestRepository, vehicles vehicle.VehicleRepository, approvals approval.ApprovalRepository) TrackService {
	return &TrackServiceImpl{
		Requests:  requests,
		Vehicles:  vehicles,
		Approvals: approvals,
	}
}

// Track looks a request up by its reference code. The code's prefix picks the
// collection.
func (s *TrackServiceImpl) Track(ctx context.Context, code string) (*TrackResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	switch {
	case strings.HasPrefix(code, vehicle.ReferencePrefix+"-"):
		req, err := s.Vehicles.FindByReference(ctx, code)
		if err != nil {
			return nil, err
		}
		if req == nil {
			return nil, apperr.NotFound("no request with that reference code")
		}
		timeline, err := s.timeline(ctx, workflow.FormTypeVehicleRequest, req.ID, req.Cycle)
		if err != nil {
			return nil, err
		}
		return &TrackResult{
			ReferenceCode: req.ReferenceCode,
			FormType:      string(workflow.FormTypeVehicleRequest),
			Status:        req.Status,
			SubmittedAt:   req.SubmittedAt,
			Timeline:      timeline,
		}, nil

	case strings.HasPrefix(code, request.ReferencePrefix+"-"):
		req, err := s.Requests.FindByReference(ctx, code)
		if err != nil {
			return nil, err
		}
		if req == nil {
			return nil, apperr.NotFound("no request with that reference code")
		}
		timeline, err := s.timeline(ctx, workflow.FormTypeItemRequest, req.ID, req.Cycle)
		if err != nil {
			return nil, err
		}
		return &TrackResult{
			ReferenceCode: req.ReferenceCode,
			FormType:      string(workflow.FormTypeItemRequest),
			Status:        req.Status,
			SubmittedAt:   req.SubmittedAt,
			Timeline:      timeline,
		}, nil
	}
	return nil, apperr.NotFound("no request with that reference code")
}

// timeline projects the current cycle's records into the anonymous public
// shape.
func (s *TrackServiceImpl) timeline(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID, cycle int) ([]TimelineEntry, error) {
	records, err := s.Approvals.ListByRequest(ctx, formType, requestID)
	if err != nil {
		return nil, err
	}

	entries := make([]TimelineEntry, 0, len(records))
	for _, rec := range records {
		if rec.Cycle != cycle {
			continue
		}
		entry := TimelineEntry{StepName: rec.StepName, Status: rec.Status}
		switch rec.Status {
		case approval.RecordApproved:
			entry.ResolvedAt = rec.ApprovedAt
		case approval.RecordDeclined:
			entry.ResolvedAt = rec.DeclinedAt
		case approval.RecordReturned:
			entry.ResolvedAt = rec.ReturnedAt
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
