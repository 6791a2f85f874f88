package user

import (
	"context"

	common_models "go-reqdesk/internal/common/models"
	"go-reqdesk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user common_models.User) (*common_models.User, error)
	FindByID(ctx context.Context, id string) (*common_models.User, error)
	FindByObjectID(ctx context.Context, id primitive.ObjectID) (*common_models.User, error)
	FindByUsername(ctx context.Context, username string) (*common_models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error)
	FindEmailByObjectID(ctx context.Context, id primitive.ObjectID) (string, error)
	List(ctx context.Context, filter bson.M, page, limit int64) ([]common_models.User, int64, error)
	ListActiveWithRole(ctx context.Context, role string) ([]common_models.User, error)
	ListActiveApproversInDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]common_models.User, error)
	HasActiveWithRole(ctx context.Context, role string) (bool, error)
	HasActiveApproverInDepartment(ctx context.Context, departmentID primitive.ObjectID) (bool, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: mongodb.DB.Collection("users"),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user common_models.User) (*common_models.User, error) {
	res, err := r.Collection.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return &user, nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*common_models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.FindByObjectID(ctx, oid)
}

func (r *UserRepositoryImpl) FindByObjectID(ctx context.Context, id primitive.ObjectID) (*common_models.User, error) {
	var user common_models.User
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*common_models.User, error) {
	var user common_models.User
	err := r.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return nil, nil
	}

	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []common_models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) FindEmailByObjectID(ctx context.Context, id primitive.ObjectID) (string, error) {
	user, err := r.FindByObjectID(ctx, id)
	if err != nil || user == nil {
		return "", err
	}
	return user.Email, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context, filter bson.M, page, limit int64) ([]common_models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []common_models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepositoryImpl) ListActiveWithRole(ctx context.Context, role string) ([]common_models.User, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{
		"role":   role,
		"status": common_models.UserStatusActive,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []common_models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) ListActiveApproversInDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]common_models.User, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{
		"role":          common_models.RoleDepartmentApprover,
		"status":        common_models.UserStatusActive,
		"department_id": departmentID,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []common_models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) HasActiveWithRole(ctx context.Context, role string) (bool, error) {
	count, err := r.Collection.CountDocuments(ctx, bson.M{
		"role":   role,
		"status": common_models.UserStatusActive,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) HasActiveApproverInDepartment(ctx context.Context, departmentID primitive.ObjectID) (bool, error) {
	count, err := r.Collection.CountDocuments(ctx, bson.M{
		"role":          common_models.RoleDepartmentApprover,
		"status":        common_models.UserStatusActive,
		"department_id": departmentID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
	return err
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
