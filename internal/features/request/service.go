package request

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
	"go-reqdesk/internal/features/workflow"
	"go-reqdesk/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ApproverDirectory is the slice of the user repository this service needs to
// name approvers in responses and fan out notifications.
type ApproverDirectory interface {
	FindByObjectID(ctx context.Context, id primitive.ObjectID) (*common_models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error)
	ListActiveWithRole(ctx context.Context, role string) ([]common_models.User, error)
	ListActiveApproversInDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]common_models.User, error)
}

type DraftInput struct {
	Priority     string     `json:"priority"`
	Reason       string     `json:"reason"`
	Comments     string     `json:"comments"`
	RequiredDate *time.Time `json:"required_date"`
	Items        []LineItem `json:"items"`
	Signature    string     `json:"signature"`
}

type ActionInput struct {
	Comments  string `json:"comments"`
	Signature string `json:"signature"`
}

type ReturnInput struct {
	Reason      string `json:"reason"`
	TargetOrder int    `json:"target_order"` // 0 = back to the requestor
}

// RequestDetail is the full read model: the request, its approval history and
// what the calling user may do with the current step.
type RequestDetail struct {
	Request     *ItemRequest              `json:"request"`
	Records     []approval.ApprovalRecord `json:"records"`
	Permissions approval.Permissions      `json:"permissions"`
}

type RequestService interface {
	CreateDraft(ctx context.Context, actor common_models.ActingUser, input DraftInput) (*ItemRequest, error)
	UpdateDraft(ctx context.Context, actor common_models.ActingUser, id string, input DraftInput) (*ItemRequest, error)
	GetRequest(ctx context.Context, actor common_models.ActingUser, id string) (*RequestDetail, error)
	ListRequests(ctx context.Context, actor common_models.ActingUser, status string, page, limit int64) ([]ItemRequest, int64, error)
	Submit(ctx context.Context, actor common_models.ActingUser, id string) (*ItemRequest, error)
	Approve(ctx context.Context, actor common_models.ActingUser, id string, input ActionInput) (*ItemRequest, error)
	Decline(ctx context.Context, actor common_models.ActingUser, id string, input ActionInput) (*ItemRequest, error)
	Return(ctx context.Context, actor common_models.ActingUser, id string, input ReturnInput) (*ItemRequest, error)
	DeleteDraft(ctx context.Context, actor common_models.ActingUser, id string) error
}

type RequestServiceImpl struct {
	Repo          RequestRepository
	Approvals     approval.ApprovalRepository
	Engine        *approval.Engine
	Users         ApproverDirectory
	DB            *database.MongodbDB
	Notifications notification.NotificationService
	Audit         audit.AuditService
	Logger        *zap.Logger
}

func NewRequestService(
	repo RequestRepository,
	approvals approval.ApprovalRepository,
	engine *approval.Engine,
	users ApproverDirectory,
	db *database.MongodbDB,
	notifications notification.NotificationService,
	auditSvc audit.AuditService,
	logger *zap.Logger,
) RequestService {
	return &RequestServiceImpl{
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

func (s *RequestServiceImpl) CreateDraft(ctx context.Context, actor common_models.ActingUser, input DraftInput) (*ItemRequest, error) {
	if actor.DepartmentID.IsZero() {
		return nil, apperr.Validation("requestor has no department assigned")
	}
	if input.Priority == "" {
		input.Priority = PriorityMedium
	}

	now := time.Now()
	req := &ItemRequest{
		ID:            primitive.NewObjectID(),
		ReferenceCode: utils.NewReferenceCode(ReferencePrefix),
		RequestorID:   actor.ID,
		DepartmentID:  actor.DepartmentID,
		Status:        approval.StatusDraft,
		Priority:      input.Priority,
		Reason:        input.Reason,
		Comments:      input.Comments,
		RequiredDate:  input.RequiredDate,
		Items:         input.Items,
		Signature:     input.Signature,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logAction(actor, common_models.AuditActionCreate, req.ID.Hex(), nil)
	return req, nil
}

func (s *RequestServiceImpl) UpdateDraft(ctx context.Context, actor common_models.ActingUser, id string, input DraftInput) (*ItemRequest, error) {
	req, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := editableBy(req, actor.ID); err != nil {
		return nil, err
	}

	req.Priority = input.Priority
	req.Reason = input.Reason
	req.Comments = input.Comments
	req.RequiredDate = input.RequiredDate
	req.Items = input.Items
	req.Signature = input.Signature

	if err := s.Repo.UpdateDraft(ctx, req.ID, req); err != nil {
		return nil, err
	}

	s.logAction(actor, common_models.AuditActionUpdate, req.ID.Hex(), nil)
	return s.Repo.FindByID(ctx, id)
}

func (s *RequestServiceImpl) GetRequest(ctx context.Context, actor common_models.ActingUser, id string) (*RequestDetail, error) {
	req, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	records, err := s.Approvals.ListByRequest(ctx, workflow.FormTypeItemRequest, req.ID)
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

	return &RequestDetail{
		Request:     req,
		Records:     records,
		Permissions: approval.CanAct(actor, req.DepartmentID, req.Status, pending),
	}, nil
}

// ListRequests scopes results by role: employees see only their own requests,
// approval-side roles and admins see everything.
func (s *RequestServiceImpl) ListRequests(ctx context.Context, actor common_models.ActingUser, status string, page, limit int64) ([]ItemRequest, int64, error) {
	filter := map[string]interface{}{}
	if status != "" {
		filter["status"] = status
	}
	if actor.Role == common_models.RoleEmployee {
		filter["requestor_id"] = actor.ID
	}
	return s.Repo.List(ctx, filter, page, limit)
}

// Submit moves a draft or returned request into the approval chain. After a
// return, regeneration starts at the return target's step order in a new
// cycle; records from earlier cycles stay behind as immutable history.
func (s *RequestServiceImpl) Submit(ctx context.Context, actor common_models.ActingUser, id string) (*ItemRequest, error) {
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
	if len(req.Items) == 0 {
		return nil, apperr.Validation("request must contain at least one item")
	}
	if req.Signature == "" {
		return nil, apperr.Validation("requestor signature is required to submit")
	}

	cycle := req.Cycle + 1
	sub := approval.Subject{
		FormType:     workflow.FormTypeItemRequest,
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

func (s *RequestServiceImpl) Approve(ctx context.Context, actor common_models.ActingUser, id string, input ActionInput) (*ItemRequest, error) {
	req, rec, err := s.pendingFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	perms := approval.CanAct(actor, req.DepartmentID, req.Status, rec)
	if !perms.CanApprove {
		return nil, apperr.Unauthorized("you are not the approver for the current step")
	}

	sub := approval.Subject{
		FormType:     workflow.FormTypeItemRequest,
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
	s.notifyRequestor(req, fmt.Sprintf("Request %s moved to %s", req.ReferenceCode, plan.RequestStatus))
	if plan.Next != nil {
		s.notifyApprovers(plan.Next, req.ReferenceCode)
	}
	return s.Repo.FindByID(ctx, id)
}

func (s *RequestServiceImpl) Decline(ctx context.Context, actor common_models.ActingUser, id string, input ActionInput) (*ItemRequest, error) {
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
	s.notifyRequestor(req, fmt.Sprintf("Request %s was declined", req.ReferenceCode))
	return s.Repo.FindByID(ctx, id)
}

// Return sends the request back for rework. The target may be the requestor
// (order 0) or any step earlier in the chain than the current one.
func (s *RequestServiceImpl) Return(ctx context.Context, actor common_models.ActingUser, id string, input ReturnInput) (*ItemRequest, error) {
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
	s.notifyRequestor(req, fmt.Sprintf("Request %s was returned: %s", req.ReferenceCode, input.Reason))
	return s.Repo.FindByID(ctx, id)
}

func (s *RequestServiceImpl) DeleteDraft(ctx context.Context, actor common_models.ActingUser, id string) error {
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
		if err := s.Approvals.DeleteByRequest(txCtx, workflow.FormTypeItemRequest, req.ID); err != nil {
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

// editableBy reports whether the requestor may still edit the request. A
// returned request is only editable when the return targeted the requestor;
// a return to an earlier approver step keeps the content frozen.
func editableBy(req *ItemRequest, actorID primitive.ObjectID) error {
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

func (s *RequestServiceImpl) mustFind(ctx context.Context, id string) (*ItemRequest, error) {
	req, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperr.NotFound("request not found")
	}
	return req, nil
}

func (s *RequestServiceImpl) pendingFor(ctx context.Context, actor common_models.ActingUser, id string) (*ItemRequest, *approval.ApprovalRecord, error) {
	req, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rec, err := s.Approvals.FindPending(ctx, workflow.FormTypeItemRequest, req.ID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, apperr.AlreadyResolved("request has no pending approval step")
	}
	return req, rec, nil
}

func (s *RequestServiceImpl) populateApproverNames(ctx context.Context, records []approval.ApprovalRecord) {
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

// notifyApprovers fans out to everyone the pending record's rule could match.
// Fire-and-forget; a lost notification never blocks the transition.
func (s *RequestServiceImpl) notifyApprovers(rec *approval.ApprovalRecord, refCode string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		title := fmt.Sprintf("Approval needed: %s", refCode)
		message := fmt.Sprintf("Request %s is waiting at step %q.", refCode, rec.StepName)
		link := "/requests/" + rec.RequestID.Hex()

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

func (s *RequestServiceImpl) notifyRequestor(req *ItemRequest, message string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.Notifications.Notify(ctx, req.RequestorID, notification.NotificationTypeInfo,
			"Request update: "+req.ReferenceCode, message, "/requests/"+req.ID.Hex())
	}()
}

func (s *RequestServiceImpl) logAction(actor common_models.ActingUser, action common_models.AuditAction, recordID string, changes map[string]common_models.Change) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.Audit.LogAction(ctx, actor, action, "item_request", recordID, changes); err != nil {
			s.Logger.Warn("failed to write audit log", zap.Error(err))
		}
	}()
}
