package approval

import (
	"context"
	"time"

	"go-reqdesk/internal/common/apperr"
	"go-reqdesk/internal/database"
	"go-reqdesk/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Resolution carries the outcome applied to a pending record.
type Resolution struct {
	Status            string // approved | declined | returned
	ActorID           primitive.ObjectID
	Comments          string
	Signature         string
	ReturnReason      string
	ReturnTargetOrder int
}

type ApprovalRepository interface {
	Insert(ctx context.Context, rec *ApprovalRecord) error
	FindPending(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID) (*ApprovalRecord, error)
	ListByRequest(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID) ([]ApprovalRecord, error)
	Resolve(ctx context.Context, id primitive.ObjectID, res Resolution) error
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]ApprovalRecord, error)
	DeleteByRequest(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID) error
}

type ApprovalRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewApprovalRepository(mongodb *database.MongodbDB) ApprovalRepository {
	return &ApprovalRepositoryImpl{
		Collection: mongodb.DB.Collection("approval_records"),
	}
}

func (r *ApprovalRepositoryImpl) Insert(ctx context.Context, rec *ApprovalRecord) error {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, rec)
	return err
}

func (r *ApprovalRepositoryImpl) FindPending(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID) (*ApprovalRecord, error) {
	var rec ApprovalRecord
	err := r.Collection.FindOne(ctx, bson.M{
		"form_type":  formType,
		"request_id": requestID,
		"status":     RecordPending,
	}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *ApprovalRepositoryImpl) ListByRequest(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID) ([]ApprovalRecord, error) {
	cursor, err := r.Collection.Find(ctx,
		bson.M{"form_type": formType, "request_id": requestID},
		options.Find().SetSort(bson.D{{Key: "cycle", Value: 1}, {Key: "step_order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var records []ApprovalRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Resolve applies the outcome with an optimistic guard: the update only
// matches while the record is still pending, so a second writer (two browser
// tabs, two approvers racing on a role step) gets AlreadyResolved instead of
// overwriting history.
func (r *ApprovalRepositoryImpl) Resolve(ctx context.Context, id primitive.ObjectID, res Resolution) error {
	now := time.Now()
	set := bson.M{
		"status":      res.Status,
		"comments":    res.Comments,
		"approver_id": res.ActorID,
	}
	if res.Signature != "" {
		set["signature"] = res.Signature
	}
	switch res.Status {
	case RecordApproved:
		set["approved_at"] = now
	case RecordDeclined:
		set["declined_at"] = now
	case RecordReturned:
		set["returned_at"] = now
		set["return_reason"] = res.ReturnReason
		set["return_target_order"] = res.ReturnTargetOrder
	}

	result, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": RecordPending},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.AlreadyResolved("approval step has already been resolved")
	}
	return nil
}

func (r *ApprovalRepositoryImpl) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]ApprovalRecord, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{
		"status":     RecordPending,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var records []ApprovalRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByRequest exists only for the cascade when a draft is deleted; drafts
// have no records yet, so in practice this removes nothing.
func (r *ApprovalRepositoryImpl) DeleteByRequest(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID) error {
	_, err := r.Collection.DeleteMany(ctx, bson.M{"form_type": formType, "request_id": requestID})
	return err
}
