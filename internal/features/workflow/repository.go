package workflow

import (
	"context"
	"time"

	"go-reqdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WorkflowRepository interface {
	Create(ctx context.Context, wf *WorkflowDefinition) error
	GetByID(ctx context.Context, id string) (*WorkflowDefinition, error)
	FindActiveDefault(ctx context.Context, formType FormType) (*WorkflowDefinition, error)
	List(ctx context.Context) ([]WorkflowDefinition, error)
	Update(ctx context.Context, id string, wf *WorkflowDefinition) error
	Delete(ctx context.Context, id string) error
	UnsetDefault(ctx context.Context, formType FormType, exceptID primitive.ObjectID) error
}

type WorkflowRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewWorkflowRepository(mongodb *database.MongodbDB) WorkflowRepository {
	return &WorkflowRepositoryImpl{
		Collection: mongodb.DB.Collection("workflows"),
	}
}

func (r *WorkflowRepositoryImpl) Create(ctx context.Context, wf *WorkflowDefinition) error {
	_, err := r.Collection.InsertOne(ctx, wf)
	return err
}

func (r *WorkflowRepositoryImpl) GetByID(ctx context.Context, id string) (*WorkflowDefinition, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var wf WorkflowDefinition
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&wf)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &wf, nil
}

func (r *WorkflowRepositoryImpl) FindActiveDefault(ctx context.Context, formType FormType) (*WorkflowDefinition, error) {
	var wf WorkflowDefinition
	err := r.Collection.FindOne(ctx, bson.M{
		"form_type":  formType,
		"is_active":  true,
		"is_default": true,
	}).Decode(&wf)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &wf, nil
}

func (r *WorkflowRepositoryImpl) List(ctx context.Context) ([]WorkflowDefinition, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "form_type", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var workflows []WorkflowDefinition
	if err = cursor.All(ctx, &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

func (r *WorkflowRepositoryImpl) Update(ctx context.Context, id string, wf *WorkflowDefinition) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"name":       wf.Name,
			"is_active":  wf.IsActive,
			"is_default": wf.IsDefault,
			"steps":      wf.Steps,
			"updated_by": wf.UpdatedBy,
			"updated_at": time.Now(),
		},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *WorkflowRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// UnsetDefault clears is_default on every workflow of the form type except the
// given one. Ran in the same transaction as the write that sets a new default.
func (r *WorkflowRepositoryImpl) UnsetDefault(ctx context.Context, formType FormType, exceptID primitive.ObjectID) error {
	filter := bson.M{"form_type": formType, "is_default": true}
	if !exceptID.IsZero() {
		filter["_id"] = bson.M{"$ne": exceptID}
	}
	_, err := r.Collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_default": false}})
	return err
}
