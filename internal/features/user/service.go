package user

import (
	"context"
	"time"

	"go-reqdesk/internal/common/apperr"
	common_models "go-reqdesk/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateUserRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	DepartmentID string `json:"department_id"`
}

type UpdateUserRequest struct {
	Email        *string `json:"email"`
	FullName     *string `json:"full_name"`
	Role         *string `json:"role"`
	DepartmentID *string `json:"department_id"`
	Status       *string `json:"status"`
}

type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*common_models.User, error)
	GetUser(ctx context.Context, id string) (*common_models.User, error)
	ListUsers(ctx context.Context, role, status string, page, limit int64) ([]common_models.User, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*common_models.User, error)
	DeactivateUser(ctx context.Context, id string) error
}

type UserServiceImpl struct {
	Repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &UserServiceImpl{Repo: repo}
}

var validRoles = map[string]bool{
	common_models.RoleEmployee:           true,
	common_models.RoleDepartmentApprover: true,
	common_models.RoleITManager:          true,
	common_models.RoleServiceDesk:        true,
	common_models.RoleDispatcher:         true,
	common_models.RoleAdmin:              true,
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, req CreateUserRequest) (*common_models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperr.Validation("username and password are required")
	}
	if !validRoles[req.Role] {
		return nil, apperr.Validation("unknown role")
	}

	existing, err := s.Repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("username already taken")
	}

	user := common_models.User{
		Username:  req.Username,
		Password:  req.Password, // TODO: hash with bcrypt before the pilot rollout
		Email:     req.Email,
		FullName:  req.FullName,
		Role:      req.Role,
		Status:    common_models.UserStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if req.DepartmentID != "" {
		oid, err := primitive.ObjectIDFromHex(req.DepartmentID)
		if err != nil {
			return nil, apperr.Validation("invalid department_id")
		}
		user.DepartmentID = oid
	}

	return s.Repo.Create(ctx, user)
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*common_models.User, error) {
	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, role, status string, page, limit int64) ([]common_models.User, int64, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	if status != "" {
		filter["status"] = status
	}
	return s.Repo.List(ctx, filter, page, limit)
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*common_models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"updated_at": time.Now()}
	if req.Email != nil {
		update["email"] = *req.Email
	}
	if req.FullName != nil {
		update["full_name"] = *req.FullName
	}
	if req.Role != nil {
		if !validRoles[*req.Role] {
			return nil, apperr.Validation("unknown role")
		}
		update["role"] = *req.Role
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			update["department_id"] = primitive.NilObjectID
		} else {
			oid, err := primitive.ObjectIDFromHex(*req.DepartmentID)
			if err != nil {
				return nil, apperr.Validation("invalid department_id")
			}
			update["department_id"] = oid
		}
	}
	if req.Status != nil {
		if *req.Status != common_models.UserStatusActive && *req.Status != common_models.UserStatusInactive {
			return nil, apperr.Validation("unknown status")
		}
		update["status"] = *req.Status
	}

	if err := s.Repo.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(ctx, user.ID.Hex())
}

// DeactivateUser soft-deletes. Accounts referenced from approval history
// must remain resolvable, so rows are never removed.
func (s *UserServiceImpl) DeactivateUser(ctx context.Context, id string) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	return s.Repo.Update(ctx, id, bson.M{
		"status":     common_models.UserStatusInactive,
		"updated_at": time.Now(),
	})
}
