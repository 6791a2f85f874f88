package department

import (
	"context"

	common_models "go-reqdesk/internal/common/models"
	"go-reqdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DepartmentRepository interface {
	Create(ctx context.Context, dept common_models.Department) (*common_models.Department, error)
	FindByID(ctx context.Context, id string) (*common_models.Department, error)
	FindDepartmentByObjectID(ctx context.Context, id primitive.ObjectID) (*common_models.Department, error)
	FindByCode(ctx context.Context, code string) (*common_models.Department, error)
	List(ctx context.Context) ([]common_models.Department, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
}

type DepartmentRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewDepartmentRepository(mongodb *database.MongodbDB) DepartmentRepository {
	return &DepartmentRepositoryImpl{
		Collection: mongodb.DB.Collection("departments"),
	}
}

func (r *DepartmentRepositoryImpl) Create(ctx context.Context, dept common_models.Department) (*common_models.Department, error) {
	res, err := r.Collection.InsertOne(ctx, dept)
	if err != nil {
		return nil, err
	}
	dept.ID = res.InsertedID.(primitive.ObjectID)
	return &dept, nil
}

func (r *DepartmentRepositoryImpl) FindByID(ctx context.Context, id string) (*common_models.Department, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.FindDepartmentByObjectID(ctx, oid)
}

func (r *DepartmentRepositoryImpl) FindDepartmentByObjectID(ctx context.Context, id primitive.ObjectID) (*common_models.Department, error) {
	var dept common_models.Department
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&dept)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepositoryImpl) FindByCode(ctx context.Context, code string) (*common_models.Department, error) {
	var dept common_models.Department
	err := r.Collection.FindOne(ctx, bson.M{"code": code}).Decode(&dept)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepositoryImpl) List(ctx context.Context) ([]common_models.Department, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var depts []common_models.Department
	if err = cursor.All(ctx, &depts); err != nil {
		return nil, err
	}
	return depts, nil
}

func (r *DepartmentRepositoryImpl) Update(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
	return err
}

func (r *DepartmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
