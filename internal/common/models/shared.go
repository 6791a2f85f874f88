package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles an account can hold. A user carries exactly one role; the workflow
// engine matches step approver rules against it.
const (
	RoleEmployee           = "employee"
	RoleDepartmentApprover = "department_approver"
	RoleITManager          = "it_manager"
	RoleServiceDesk        = "service_desk"
	RoleDispatcher         = "odhc_dispatcher"
	RoleAdmin              = "admin"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Password     string             `bson:"password" json:"-"`
	Email        string             `bson:"email" json:"email"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Role         string             `bson:"role" json:"role"`
	DepartmentID primitive.ObjectID `bson:"department_id,omitempty" json:"department_id,omitempty"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Department groups requestors and names the single account that approves on
// its behalf. ApproverID may be zero when no approver has been designated.
type Department struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Code       string             `bson:"code" json:"code"`
	ApproverID primitive.ObjectID `bson:"approver_id,omitempty" json:"approver_id,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// ActingUser is the identity every workflow operation receives explicitly.
// It is built from validated JWT claims, never read from ambient state.
type ActingUser struct {
	ID           primitive.ObjectID
	Role         string
	DepartmentID primitive.ObjectID
}

type AuditAction string

const (
	AuditActionCreate   AuditAction = "CREATE"
	AuditActionUpdate   AuditAction = "UPDATE"
	AuditActionDelete   AuditAction = "DELETE"
	AuditActionLogin    AuditAction = "LOGIN"
	AuditActionSubmit   AuditAction = "SUBMIT"
	AuditActionApprove  AuditAction = "APPROVE"
	AuditActionDecline  AuditAction = "DECLINE"
	AuditActionReturn   AuditAction = "RETURN"
	AuditActionVerify   AuditAction = "VERIFY"
	AuditActionWorkflow AuditAction = "WORKFLOW"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`
	RecordID  string             `bson:"record_id" json:"record_id"`
	ActorID   string             `bson:"actor_id" json:"actor_id"`
	ActorName string             `bson:"-" json:"actor_name,omitempty"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Log is the row shape the async zap sink writes to the app_logs collection.
type Log struct {
	Message      string    `bson:"message"`
	Caller       string    `bson:"caller"`
	LogLevelId   int       `bson:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc"`
}
