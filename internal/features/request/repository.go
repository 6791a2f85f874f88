package request

import (
	"context"
	"time"

	"go-reqdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RequestRepository interface {
	Create(ctx context.Context, req *ItemRequest) error
	FindByID(ctx context.Context, id string) (*ItemRequest, error)
	FindByReference(ctx context.Context, code string) (*ItemRequest, error)
	List(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]ItemRequest, int64, error)
	UpdateDraft(ctx context.Context, id primitive.ObjectID, req *ItemRequest) error
	MarkSubmitted(ctx context.Context, id primitive.ObjectID, status string, cycle int) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, extra bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type RequestRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRequestRepository(mongodb *database.MongodbDB) RequestRepository {
	return &RequestRepositoryImpl{
		Collection: mongodb.DB.Collection("item_requests"),
	}
}

func (r *RequestRepositoryImpl) Create(ctx context.Context, req *ItemRequest) error {
	_, err := r.Collection.InsertOne(ctx, req)
	return err
}

func (r *RequestRepositoryImpl) FindByID(ctx context.Context, id string) (*ItemRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var req ItemRequest
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepositoryImpl) FindByReference(ctx context.Context, code string) (*ItemRequest, error) {
	var req ItemRequest
	err := r.Collection.FindOne(ctx, bson.M{"reference_code": code}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]ItemRequest, int64, error) {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var requests []ItemRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *RequestRepositoryImpl) UpdateDraft(ctx context.Context, id primitive.ObjectID, req *ItemRequest) error {
	update := bson.M{
		"$set": bson.M{
			"priority":      req.Priority,
			"reason":        req.Reason,
			"comments":      req.Comments,
			"required_date": req.RequiredDate,
			"items":         req.Items,
			"signature":     req.Signature,
			"updated_at":    time.Now(),
		},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *RequestRepositoryImpl) MarkSubmitted(ctx context.Context, id primitive.ObjectID, status string, cycle int) error {
	now := time.Now()
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":              status,
			"cycle":               cycle,
			"submitted_at":        now,
			"return_target_order": 0,
			"updated_at":          now,
		},
	})
	return err
}

func (r *RequestRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, extra bson.M) error {
	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	for k, v := range extra {
		set[k] = v
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *RequestRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
