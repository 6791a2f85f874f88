package vehicle

import (
	"context"
	"time"

	"go-reqdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VehicleRepository interface {
	Create(ctx context.Context, req *VehicleRequest) error
	FindByID(ctx context.Context, id string) (*VehicleRequest, error)
	FindByReference(ctx context.Context, code string) (*VehicleRequest, error)
	List(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]VehicleRequest, int64, error)
	UpdateDraft(ctx context.Context, id primitive.ObjectID, req *VehicleRequest) error
	MarkSubmitted(ctx context.Context, id primitive.ObjectID, status string, cycle int) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, extra bson.M) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type VehicleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewVehicleRepository(mongodb *database.MongodbDB) VehicleRepository {
	return &VehicleRepositoryImpl{
		Collection: mongodb.DB.Collection("vehicle_requests"),
	}
}

func (r *VehicleRepositoryImpl) Create(ctx context.Context, req *VehicleRequest) error {
	_, err := r.Collection.InsertOne(ctx, req)
	return err
}

func (r *VehicleRepositoryImpl) FindByID(ctx context.Context, id string) (*VehicleRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var req VehicleRequest
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *VehicleRepositoryImpl) FindByReference(ctx context.Context, code string) (*VehicleRequest, error) {
	var req VehicleRequest
	err := r.Collection.FindOne(ctx, bson.M{"reference_code": code}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *VehicleRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]VehicleRequest, int64, error) {
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

	var requests []VehicleRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *VehicleRepositoryImpl) UpdateDraft(ctx context.Context, id primitive.ObjectID, req *VehicleRequest) error {
	update := bson.M{
		"$set": bson.M{
			"request_type":          req.RequestType,
			"purpose":               req.Purpose,
			"comments":              req.Comments,
			"date_prepared":         req.DatePrepared,
			"travel_date_from":      req.TravelDateFrom,
			"travel_date_to":        req.TravelDateTo,
			"passengers":            req.Passengers,
			"signature":             req.Signature,
			"urgency_justification": req.UrgencyJustification,
			"updated_at":            time.Now(),
		},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *VehicleRepositoryImpl) MarkSubmitted(ctx context.Context, id primitive.ObjectID, status string, cycle int) error {
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

func (r *VehicleRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, extra bson.M) error {
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

func (r *VehicleRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now()
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *VehicleRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
