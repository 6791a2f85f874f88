package request

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReferencePrefix distinguishes item-request tracking codes (REQ-...).
const ReferencePrefix = "REQ"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// LineItem is one requested piece of equipment.
type LineItem struct {
	Quantity    int    `bson:"quantity" json:"quantity"`
	Description string `bson:"description" json:"description"`
	Remarks     string `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

// ItemRequest is an IT-equipment request. Its status field is owned by the
// state machine in the service layer and only changes through validated
// transitions driven by approval-record outcomes.
type ItemRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReferenceCode string             `bson:"reference_code" json:"reference_code"`
	RequestorID   primitive.ObjectID `bson:"requestor_id" json:"requestor_id"`
	DepartmentID  primitive.ObjectID `bson:"department_id" json:"department_id"`
	Status        string             `bson:"status" json:"status"`
	Priority      string             `bson:"priority" json:"priority"`
	Reason        string             `bson:"reason" json:"reason"`
	Comments      string             `bson:"comments,omitempty" json:"comments,omitempty"`
	RequiredDate  *time.Time         `bson:"required_date,omitempty" json:"required_date,omitempty"`
	Items         []LineItem         `bson:"items" json:"items"`
	Signature     string             `bson:"signature,omitempty" json:"signature,omitempty"`

	// Cycle counts submissions; a resubmit after a return starts a new
	// cycle so regenerated approval records never collide with the
	// immutable ones from earlier cycles.
	Cycle             int `bson:"cycle" json:"cycle"`
	ReturnTargetOrder int `bson:"return_target_order,omitempty" json:"return_target_order,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	SubmittedAt *time.Time `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}
