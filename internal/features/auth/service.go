package auth

import (
	"context"
	"time"

	"go-reqdesk/internal/common/apperr"
	common_models "go-reqdesk/internal/common/models"
	"go-reqdesk/internal/features/user"
	"go-reqdesk/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string              `json:"token"`
	User  *common_models.User `json:"user"`
}

type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	DepartmentID string `json:"department_id"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*common_models.User, error)
	Me(ctx context.Context, userID string) (*common_models.User, error)
}

type AuthServiceImpl struct {
	Users user.UserRepository
}

func NewAuthService(users user.UserRepository) AuthService {
	return &AuthServiceImpl{Users: users}
}

func (s *AuthServiceImpl) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperr.Validation("username and password are required")
	}

	u, err := s.Users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	// TODO: compare bcrypt hashes once passwords are migrated
	if u == nil || u.Password != req.Password {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	if u.Status != common_models.UserStatusActive {
		return nil, apperr.Unauthorized("account is inactive")
	}

	token, err := utils.GenerateToken(u.ID, u.Role, u.DepartmentID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: token, User: u}, nil
}

// Register creates a self-service employee account. Elevated roles are only
// assignable through the admin user endpoints.
func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*common_models.User, error) {
	if req.Username == "" || req.Password == "" || req.FullName == "" {
		return nil, apperr.Validation("username, password and full_name are required")
	}

	existing, err := s.Users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("username already taken")
	}

	deptID := primitive.NilObjectID
	if req.DepartmentID != "" {
		deptID, err = primitive.ObjectIDFromHex(req.DepartmentID)
		if err != nil {
			return nil, apperr.Validation("invalid department_id")
		}
	}

	now := time.Now()
	return s.Users.Create(ctx, common_models.User{
		Username:     req.Username,
		Password:     req.Password, // TODO: hash with bcrypt before the pilot rollout
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         common_models.RoleEmployee,
		DepartmentID: deptID,
		Status:       common_models.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *AuthServiceImpl) Me(ctx context.Context, userID string) (*common_models.User, error) {
	u, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}
