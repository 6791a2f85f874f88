package vehicle

import (
	"context"
	"fmt"
	"time"

	"go-reqdesk/internal/common/apperr"
	common_models "go-reqdesk/internal/common/models"
	"go-reqdesk/internal/database"
	"go-reqdesk/internal/features/approval"
	"go-reqdesk/internal/features/audit"
	"go-reqdesk/internal/features/notification"
	"go-reqdesk/internal/features/request"
	"go-reqdesk/internal/features/workflow"
	"go-reqdesk/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type DraftInput struct {
	RequestType          RequestType `json:"request_type"`
	Purpose              string      `json:"purpose"`
	Comments             string      `json:"comments"`
	DatePrepared         *time.Time  `json:"date_prepared"`
	TravelDateFrom       *time.Time  `json:"travel_date_from"`
	TravelDateTo         *time.Time  `json:"travel_date_to"`
	Passengers           []Passenger `json:"passengers"`
	Signature            string      `json:"signature"`
	UrgencyJustification string      `json:"urgency_justification"`
}

type ActionInput struct {
	Comments  string `json:"comments"`
	Signature string `json:"signature"`
}

type ReturnInput struct {
	Reason      string `json:"reason"`
	TargetOrder int    `json:"target_order"`
}

type DispatchInput struct {
	AssignedDriver  string     `json:"assigned_driver"`
	AssignedVehicle string     `json:"assigned_vehicle"`
	ApprovalDate    *time.Time `json:"approval_date"`
}

type AssignVerifierInput struct {
	VerifierID string `json:"verifier_id"`
}

type VerifyInput struct {
	Verified bool   `json:"verified"`
	Comments string `json:"comments"`
}

type VehicleDetail struct {
	Request     *VehicleRequest           `json:"request"`
	Records     []approval.ApprovalRecord `json:"records"`
	Permissions approval.Permissions      `json:"permissions"`
}

type VehicleService interface {
	CreateDraft(ctx context.Context, actor common_models.ActingUser, input DraftInput) (*VehicleRequest, error)
	UpdateDraft(ctx context.Context, actor common_models.ActingUser, id string, input DraftInput) (*VehicleRequest, error)
	GetRequest(ctx context.Context, actor common_models.ActingUser, id string) (*VehicleDetail, error)
	ListRequests(ctx context.Context, actor common_models.ActingUser, status string, page, limit int64) ([]VehicleRequest, int64, error)
	Submit(ctx context.Context, actor common_models.ActingUser, id string) (*VehicleRequest, error)
	Approve(ctx context.Context, actor common_models.ActingUser, id string, input ActionInput) (*VehicleRequest, error)
	Decline(ctx context.Context, actor common_models.ActingUser, id string, input ActionInput) (*VehicleRequest, error)
	Return(ctx context.Context, actor common_models.ActingUser, id string, input ReturnInput) (*VehicleRequest, error)
	DeleteDraft(ctx context.Context, actor common_models.ActingUser, id string) error
	SetDispatchDetails(ctx context.Context, actor common_models.ActingUser, id string, input DispatchInput) (*VehicleRequest, error)
	AssignVerifier(ctx context.Context, actor common_models.ActingUser, id string, input AssignVerifierInput) (*VehicleRequest, error)
	Verify(ctx context.Context, actor common_models.ActingUser, id string, input VerifyInput) (*VehicleRequest, error)
}

type VehicleServiceImpl struct {
	Repo          VehicleRepository
	Approvals     approval.ApprovalRepository
	Engine        *approval.Engine
	Users         request.ApproverDirectory
	DB            *database.MongodbDB
	Notifications notification.NotificationService
	Audit         audit.AuditService
	Logger        *zap.Logger
}

func NewVehicleService(
	repo VehicleRepository,
	approvals approval.ApprovalRepository,
	engine *approval.Engine,
	users request.ApproverDirectory,
	db *database.MongodbDB,
	notifications notification.NotificationService,
	auditSvc audit.AuditService,
	logger *zap.Logger,
) VehicleService {
	return &VehicleServiceImpl{
		Repo:          repo,
		Approvals:     approvals,
		Engine:        engine,
		Users:         users,
		DB:            db,
		Notifications: notifications,
		Audit:         auditSvc,
		Logger:        logger,
	}
}

func (s *VehicleServiceImpl) CreateDraft(ctx context.Context, actor common_models.ActingUser, input DraftInput) (*VehicleRequest, error) {
	if actor.DepartmentID.IsZero() {
		return nil, apperr.Validation("requestor has no department assigned")
	}
	if !ValidRequestType(input.RequestType) {
		return nil, apperr.Validation("unknown request_type")
	}

	now := time.Now()
	req := &VehicleRequest{
		ID:                   primitive.NewObjectID(),
		ReferenceCode:        utils.NewReferenceCode(ReferencePrefix),
		RequestorID:          actor.ID,
		DepartmentID:         actor.DepartmentID,
		Status:               approval.StatusDraft,
		RequestType:          input.RequestType,
		Purpose:              input.Purpose,
		Comments:             input.Comments,
		DatePrepared:         input.DatePrepared,
		TravelDateFrom:       input.TravelDateFrom,
		TravelDateTo:         input.TravelDateTo,
		Passengers:           input.Passengers,
		Signature:            input.Signature,
		UrgencyJustification: input.UrgencyJustification,
		VerificationStatus:   VerificationNone,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.Repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logAction(actor, common_models.AuditActionCreate, req.ID.Hex(), nil)
	return req, nil
}

func (s *VehicleServiceImpl) UpdateDraft(ctx context.Context, actor common_models.ActingUser, id string, input DraftInput) (*VehicleRequest, error) {
	req, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := editableBy(req, actor.ID); err != nil {
		return nil, err
	}
	if !ValidRequestType(input.RequestType) {
		return nil, apperr.Validation("unknown request_type")
	}

	req.RequestType = input.RequestType
	req.Purpose = input.Purpose
	req.Comments = input.Comments
	req.DatePrepared = input.DatePrepared
	req.TravelDateFrom = input.TravelDateFrom
	req.TravelDateTo = input.TravelDateTo
	req.Passengers = input.Passengers
	req.Signature = input.Signature
	req.UrgencyJustification = input.UrgencyJustification

	if err := s.Repo.UpdateDraft(ctx, req.ID, req); err != nil {
		return nil, err
	}

	s.logAction(actor, common_models.AuditActionUpdate, req.ID.Hex(), nil)
	return s.Repo.FindByID(ctx, id)
}

func (s *VehicleServiceImpl) GetRequest(ctx context.Context, actor common_models.ActingUser, id string) (*VehicleDetail, error) {
	req, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	records, err := s.Approvals.ListByRequest(ctx, workflow.FormTypeVehicleRequest, req.ID)
	if err != nil {
		return nil, err
	}
	s.populateApproverNames(ctx, records)

	var pending *approval.ApprovalRecord
	for i := range records {
		if records[i].Status == approval.RecordPending {
			pending = &records[i]
			break
		}
	}

	return &VehicleDetail{
		Request:     req,
		Records:     records,
		Permissions: approval.CanAct(actor, req.DepartmentID, req.Status, pending),
	}, nil
}

func (s *VehicleServiceImpl) ListRequests(ctx context.Context, actor common_models.ActingUser, status string, page, limit int64) ([]VehicleRequest, int64, error) {
	filter := map[string]interface{}{}
	if status != "" {
		filter["status"] = status
	}
	if actor.Role == common_models.RoleEmployee {
		filter["requestor_id"] = actor.ID
	}
	return s.Repo.List(ctx, filter, page, limit)
}

func (s *VehicleServiceImpl) Submit(ctx context.Context, actor common_models.ActingUser, id string) (*VehicleRequest, error) {
	req, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RequestorID != actor.ID {
		return nil, apperr.Unauthorized("only the requestor may submit this request")
	}
	if req.Status != approval.StatusDraft && req.Status != approval.StatusReturned {
		return nil, apperr.Validation("request is not in a submittable state")
	}
	if len(req.Passengers) == 0 {
		return nil, apperr.Validation("request must list at least one passenger")
	}
	if req.Signature == "" {
		return nil, apperr.Validation("requestor signature is required to submit")
	}
	if isSameDay(req.DatePrepared, req.TravelDateFrom) && req.UrgencyJustification == "" {
		return nil, apperr.Validation("same-day requests require an urgency justification")
	}

	cycle := req.Cycle + 1
	sub := approval.Subject{
		FormType:     workflow.FormTypeVehicleRequest,
		RequestID:    req.ID,
		RequestorID:  req.RequestorID,
		DepartmentID: req.DepartmentID,
		Cycle:        cycle,
	}
	fromOrder := 1
	if req.Status == approval.StatusReturned && req.ReturnTargetOrder > 0 {
		fromOrder = req.ReturnTargetOrder
	}

	start, err := s.Engine.Start(ctx, sub, fromOrder)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithTransaction(ctx, func(txCtx context.Context) error {
		if start.Record != nil {
			if err := s.Approvals.Insert(txCtx, start.Record); err != nil {
				return err
			}
		}
		return s.Repo.MarkSubmitted(txCtx, req.ID, start.RequestStatus, cycle)
	})
	if err != nil {
		return nil, err
	}

	s.logAction(actor, common_models.AuditActionSubmit, req.ID.Hex(), map[string]common_models.Change{
		"status": {Old: req.Status, New: start.RequestStatus},
	})
	if start.Record != nil {
		s.notifyApprovers(start.Record, req.ReferenceCode)
	}
	return s.Repo.FindByID(ctx, id)
}

func (s *VehicleServiceImpl) Approve(ctx context.Context, actor common_models.ActingUser, id string, input ActionInput) (*VehicleRequest, error) {
	req, rec, err := s.pendingFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	perms := approval.CanAct(actor, req.DepartmentID, req.Status, rec)
	if !perms.CanApprove {
		return nil, apperr.Unauthorized("you are not the approver for the current step")
	}
	if isDispatchStep(rec) && (req.AssignedDriver == "" || req.AssignedVehicle == "" || req.ApprovalDate == nil) {
		return nil, apperr.Validation("driver, vehicle and approval date must be assigned before dispatch approval")
	}

	sub := approval.Subject{
		FormType:     workflow.FormTypeVehicleRequest,
		RequestID:    req.ID,
		RequestorID:  req.RequestorID,
		DepartmentID: req.DepartmentID,
		Cycle:        req.Cycle,
	}
	plan, err := s.Engine.PlanAdvance(ctx, sub, rec)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Approvals.Resolve(txCtx, rec.ID, approval.Resolution{
			Status:    approval.RecordApproved,
			ActorID:   actor.ID,
			Comments:  input.Comments,
			Signature: input.Signature,
		}); err != nil {
			return err
		}
		if plan.Next != nil {
			if err := s.Approvals.Insert(txCtx, plan.Next); err != nil {
				return err
			}
		}
		return s.Repo.UpdateStatus(txCtx, req.ID, plan.RequestStatus, nil)
	})
	if err != nil {
		return nil, err
	}

	s.logAction(actor, common_models.AuditActionApprove, req.ID.Hex(), map[string]common_models.Change{
		"status": {Old: req.Status, New: plan.RequestStatus},
	})
	s.notifyRequestor(req, fmt.Sprintf("Vehicle request %s moved to %s", req.ReferenceCode, plan.RequestStatus))
	if plan.Next != nil {
		s.notifyApprovers(plan.Next, req.ReferenceCode)
	}
	return s.Repo.FindByID(ctx, id)
}

func (s *VehicleServiceImpl) Decline(ctx context.Context, actor common_models.ActingUser, id string, input ActionInput) (*VehicleRequest, error) {
	req, rec, err := s.pendingFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	perms := approval.CanAct(actor, req.DepartmentID, req.Status, rec)
	if !perms.CanDecline {
		return nil, apperr.Unauthorized("you are not the approver for the current step")
	}
	if input.Comments == "" {
		return nil, apperr.Validation("a comment is required when declining")
	}

	err = s.DB.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Approvals.Resolve(txCtx, rec.ID, approval.Resolution{
			Status:   approval.RecordDeclined,
			ActorID:  actor.ID,
			Comments: input.Comments,
		}); err != nil {
			return err
		}
		return s.Repo.UpdateStatus(txCtx, req.ID, rec.StatusOnDecline, nil)
	})
	if err != nil {
		return nil, err
	}

	s.logAction(actor, common_models.AuditActionDecline, req.ID.Hex(), map[string]common_models.Change{
		"status": {Old: req.Status, New: rec.StatusOnDecline},
	})
	s.notifyRequestor(req, fmt.Sprintf("Vehicle request %s was declined", req.ReferenceCode))
	return s.Repo.FindByID(ctx, id)
}

func (s *VehicleServiceImpl) Return(ctx context.Context, actor common_models.ActingUser, id string, input ReturnInput) (*VehicleRequest, error) {
	req, rec, err := s.pendingFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	perms := approval.CanAct(actor, req.DepartmentID, req.Status, rec)
	if !perms.CanReturn {
		return nil, apperr.Unauthorized("you are not the approver for the current step")
	}
	if input.Reason == "" {
		return nil, apperr.Validation("a reason is required when returning")
	}
	if input.TargetOrder < 0 || input.TargetOrder >= rec.StepOrder {
		return nil, apperr.Validation("return target must precede the current step")
	}

	err = s.DB.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Approvals.Resolve(txCtx, rec.ID, approval.Resolution{
			Status:            approval.RecordReturned,
			ActorID:           actor.ID,
			ReturnReason:      input.Reason,
			ReturnTargetOrder: input.TargetOrder,
		}); err != nil {
			return err
		}
		return s.Repo.UpdateStatus(txCtx, req.ID, approval.StatusReturned, bson.M{
			"return_target_order": input.TargetOrder,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logAction(actor, common_models.AuditActionReturn, req.ID.Hex(), map[string]common_models.Change{
		"status": {Old: req.Status, New: approval.StatusReturned},
	})
	s.notifyRequestor(req, fmt.Sprintf("Vehicle request %s was returned: %s", req.ReferenceCode, input.Reason))
	return s.Repo.FindByID(ctx, id)
}

func (s *VehicleServiceImpl) DeleteDraft(ctx context.Context, actor common_models.ActingUser, id string) error {
	req, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}
	if req.RequestorID != actor.ID && actor.Role != common_models.RoleAdmin {
		return apperr.Unauthorized("only the requestor may delete this request")
	}
	if req.Status != approval.StatusDraft {
		return apperr.Validation("only draft requests can be deleted")
	}

	err = s.DB.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Approvals.DeleteByRequest(txCtx, workflow.FormTypeVehicleRequest, req.ID); err != nil {
			return err
		}
		return s.Repo.Delete(txCtx, req.ID)
	})
	if err != nil {
		return err
	}

	s.logAction(actor, common_models.AuditActionDelete, req.ID.Hex(), nil)
	return nil
}

// SetDispatchDetails fills the dispatch section. Only the approver of the
// current pending step may do so, while that step is dispatch-tier.
func (s *VehicleServiceImpl) SetDispatchDetails(ctx context.Context, actor common_models.ActingUser, id string, input DispatchInput) (*VehicleRequest, error) {
	req, rec, err := s.pendingFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	perms := approval.CanAct(actor, req.DepartmentID, req.Status, rec)
	if !perms.CanApprove || !isDispatchStep(rec) {
		return nil, apperr.Unauthorized("only the dispatch approver may set dispatch details")
	}
	if input.AssignedDriver == "" || input.AssignedVehicle == "" {
		return nil, apperr.Validation("assigned_driver and assigned_vehicle are required")
	}

	set := bson.M{
		"assigned_driver":  input.AssignedDriver,
		"assigned_vehicle": input.AssignedVehicle,
	}
	if input.ApprovalDate != nil {
		set["approval_date"] = input.ApprovalDate
	} else {
		set["approval_date"] = time.Now()
	}
	if err := s.Repo.UpdateFields(ctx, req.ID, set); err != nil {
		return nil, err
	}

	s.logAction(actor, common_models.AuditActionUpdate, req.ID.Hex(), map[string]common_models.Change{
		"assigned_driver":  {Old: req.AssignedDriver, New: input.AssignedDriver},
		"assigned_vehicle": {Old: req.AssignedVehicle, New: input.AssignedVehicle},
	})
	return s.Repo.FindByID(ctx, id)
}

// AssignVerifier starts the verification sub-flow. A dispatch-tier approver
// may hand the request to any active user for an out-of-band check; the
// sub-flow never touches request.status.
func (s *VehicleServiceImpl) AssignVerifier(ctx context.Context, actor common_models.ActingUser, id string, input AssignVerifierInput) (*VehicleRequest, error) {
	req, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != common_models.RoleDispatcher && actor.Role != common_models.RoleAdmin {
		return nil, apperr.Unauthorized("only the dispatch tier may assign a verifier")
	}
	if req.Status != approval.StatusSubmitted && req.Status != approval.StatusDepartmentApproved {
		return nil, apperr.Validation("verifier can only be assigned while the request is in the approval chain")
	}
	if req.VerificationStatus == VerificationVerified || req.VerificationStatus == VerificationDeclined {
		return nil, apperr.Validation("verification has already concluded")
	}

	verifierID, err := primitive.ObjectIDFromHex(input.VerifierID)
	if err != nil {
		return nil, apperr.Validation("invalid verifier_id")
	}
	verifier, err := s.Users.FindByObjectID(ctx, verifierID)
	if err != nil {
		return nil, err
	}
	if verifier == nil || verifier.Status != common_models.UserStatusActive {
		return nil, apperr.Validation("verifier must be an active user")
	}

	if err := s.Repo.UpdateFields(ctx, req.ID, bson.M{
		"verifier_id":         verifierID,
		"verification_status": VerificationPending,
		"verifier_comments":   "",
		"verified_at":         nil,
	}); err != nil {
		return nil, err
	}

	s.logAction(actor, common_models.AuditActionUpdate, req.ID.Hex(), map[string]common_models.Change{
		"verification_status": {Old: req.VerificationStatus, New: VerificationPending},
	})
	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.Notifications.Notify(nctx, verifierID, notification.NotificationTypeApproval,
			"Verification requested: "+req.ReferenceCode,
			fmt.Sprintf("You have been asked to verify vehicle request %s.", req.ReferenceCode),
			"/vehicle-requests/"+req.ID.Hex())
	}()
	return s.Repo.FindByID(ctx, id)
}

// Verify concludes the sub-flow. Only the assigned verifier may act, and only
// while verification is pending.
func (s *VehicleServiceImpl) Verify(ctx context.Context, actor common_models.ActingUser, id string, input VerifyInput) (*VehicleRequest, error) {
	req, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.VerifierID.IsZero() || req.VerifierID != actor.ID {
		return nil, apperr.Unauthorized("only the assigned verifier may verify this request")
	}
	if req.VerificationStatus != VerificationPending {
		return nil, apperr.Validation("verification is not pending")
	}

	status := VerificationVerified
	if !input.Verified {
		status = VerificationDeclined
		if input.Comments == "" {
			return nil, apperr.Validation("comments are required when declining verification")
		}
	}

	if err := s.Repo.UpdateFields(ctx, req.ID, bson.M{
		"verification_status": status,
		"verifier_comments":   input.Comments,
		"verified_at":         time.Now(),
	}); err != nil {
		return nil, err
	}

	s.logAction(actor, common_models.AuditActionVerify, req.ID.Hex(), map[string]common_models.Change{
		"verification_status": {Old: req.VerificationStatus, New: status},
	})
	s.notifyRequestor(req, fmt.Sprintf("Vehicle request %s verification: %s", req.ReferenceCode, status))
	return s.Repo.FindByID(ctx, id)
}

// editableBy reports whether the requestor may still edit the request. A
// returned request is only editable when the return targeted the requestor;
// a return to an earlier approver step keeps the content frozen.
func editableBy(req *VehicleRequest, actorID primitive.ObjectID) error {
	if req.RequestorID != actorID {
		return apperr.Unauthorized("only the requestor may edit this request")
	}
	switch req.Status {
	case approval.StatusDraft:
		return nil
	case approval.StatusReturned:
		if req.ReturnTargetOrder != 0 {
			return apperr.Unauthorized("request was returned to an approver step, not to the requestor")
		}
		return nil
	}
	return apperr.Validation("only draft or returned requests can be edited")
}

func (s *VehicleServiceImpl) mustFind(ctx context.Context, id string) (*VehicleRequest, error) {
	req, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperr.NotFound("request not found")
	}
	return req, nil
}

func (s *VehicleServiceImpl) pendingFor(ctx context.Context, actor common_models.ActingUser, id string) (*VehicleRequest, *approval.ApprovalRecord, error) {
	req, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rec, err := s.Approvals.FindPending(ctx, workflow.FormTypeVehicleRequest, req.ID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, apperr.AlreadyResolved("request has no pending approval step")
	}
	return req, rec, nil
}

// isDispatchStep identifies the step where the dispatch section must be
// filled. The legacy chain and sensibly configured workflows both route
// dispatch through the odhc_dispatcher role.
func isDispatchStep(rec *approval.ApprovalRecord) bool {
	return rec.ApproverRole == common_models.RoleDispatcher ||
		rec.StatusOnApproval == approval.StatusDispatchApproved
}

func isSameDay(prepared, travelFrom *time.Time) bool {
	if prepared == nil || travelFrom == nil {
		return false
	}
	py, pm, pd := prepared.Date()
	ty, tm, td := travelFrom.Date()
	return py == ty && pm == tm && pd == td
}

func (s *VehicleServiceImpl) populateApproverNames(ctx context.Context, records []approval.ApprovalRecord) {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, rec := range records {
		if !rec.ApproverID.IsZero() && !seen[rec.ApproverID.Hex()] {
			seen[rec.ApproverID.Hex()] = true
			ids = append(ids, rec.ApproverID.Hex())
		}
	}
	if len(ids) == 0 {
		return
	}

	users, err := s.Users.FindByIDs(ctx, ids)
	if err != nil {
		return
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID.Hex()] = u.FullName
	}
	for i := range records {
		records[i].ApproverName = names[records[i].ApproverID.Hex()]
	}
}

func (s *VehicleServiceImpl) notifyApprovers(rec *approval.ApprovalRecord, refCode string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		title := fmt.Sprintf("Approval needed: %s", refCode)
		message := fmt.Sprintf("Vehicle request %s is waiting at step %q.", refCode, rec.StepName)
		link := "/vehicle-requests/" + rec.RequestID.Hex()

		var targets []common_models.User
		switch {
		case !rec.ApproverID.IsZero():
			if u, err := s.Users.FindByObjectID(ctx, rec.ApproverID); err == nil && u != nil {
				targets = append(targets, *u)
			}
		case rec.ApproverType == workflow.ApproverTypeRole:
			if users, err := s.Users.ListActiveWithRole(ctx, rec.ApproverRole); err == nil {
				targets = users
			}
		case rec.ApproverType == workflow.ApproverTypeDepartment:
			if users, err := s.Users.ListActiveApproversInDepartment(ctx, rec.ApproverDepartmentID); err == nil {
				targets = users
			}
		}
		for _, u := range targets {
			s.Notifications.Notify(ctx, u.ID, notification.NotificationTypeApproval, title, message, link)
		}
	}()
}

func (s *VehicleServiceImpl) notifyRequestor(req *VehicleRequest, message string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.Notifications.Notify(ctx, req.RequestorID, notification.NotificationTypeInfo,
			"Request update: "+req.ReferenceCode, message, "/vehicle-requests/"+req.ID.Hex())
	}()
}

func (s *VehicleServiceImpl) logAction(actor common_models.ActingUser, action common_models.AuditAction, recordID string, changes map[string]common_models.Change) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.Audit.LogAction(ctx, actor, action, "vehicle_request", recordID, changes); err != nil {
			s.Logger.Warn("failed to write audit log", zap.Error(err))
		}
	}()
}
