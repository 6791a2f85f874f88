package file

import (
	"context"

	"go-reqdesk/internal/database"
	"go-reqdesk/internal/features/workflow"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FileRepository interface {
	Create(ctx context.Context, att *Attachment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Attachment, error)
	ListByRequest(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID) ([]Attachment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type FileRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFileRepository(mongodb *database.MongodbDB) FileRepository {
	return &FileRepositoryImpl{
		Collection: mongodb.DB.Collection("files"),
	}
}

func (r *FileRepositoryImpl) Create(ctx context.Context, att *Attachment) error {
	if att.ID.IsZero() {
		att.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, att)
	return err
}

func (r *FileRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Attachment, error) {
	var att Attachment
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&att)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func (r *FileRepositoryImpl) ListByRequest(ctx context.Context, formType workflow.FormType, requestID primitive.ObjectID) ([]Attachment, error) {
	cursor, err := r.Collection.Find(ctx,
		bson.M{"form_type": formType, "request_id": requestID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var atts []Attachment
	if err = cursor.All(ctx, &atts); err != nil {
		return nil, err
	}
	return atts, nil
}

func (r *FileRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
