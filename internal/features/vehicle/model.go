package vehicle

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReferencePrefix distinguishes vehicle-request tracking codes (SVR-...).
const ReferencePrefix = "SVR"

// RequestType selects which conditional section of the vehicle form applies.
type RequestType string

const (
	TypeDropPassenger RequestType = "drop_passenger"
	TypePointToPoint  RequestType = "point_to_point"
	TypePickupOnly    RequestType = "pickup_only"
	TypeItemPickup    RequestType = "item_pickup"
	TypeItemDelivery  RequestType = "item_delivery"
	TypeCarOnly       RequestType = "car_only"
)

// Verification sub-states. The sub-flow is independent of the main approval
// chain and never gates request.status.
const (
	VerificationNone     = "none"
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationDeclined = "declined"
)

// Passenger is one traveller (or item, for the pickup/delivery types) on the
// manifest.
type Passenger struct {
	Name        string `bson:"name" json:"name"`
	ContactNo   string `bson:"contact_no,omitempty" json:"contact_no,omitempty"`
	Destination string `bson:"destination,omitempty" json:"destination,omitempty"`
	Remarks     string `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

// VehicleRequest is a service-vehicle request. Same state machine as item
// requests; the dispatch fields and the verification sub-flow are extra.
type VehicleRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReferenceCode string             `bson:"reference_code" json:"reference_code"`
	RequestorID   primitive.ObjectID `bson:"requestor_id" json:"requestor_id"`
	DepartmentID  primitive.ObjectID `bson:"department_id" json:"department_id"`
	Status        string             `bson:"status" json:"status"`
	RequestType   RequestType        `bson:"request_type" json:"request_type"`
	Purpose       string             `bson:"purpose" json:"purpose"`
	Comments      string             `bson:"comments,omitempty" json:"comments,omitempty"`

	DatePrepared   *time.Time  `bson:"date_prepared,omitempty" json:"date_prepared,omitempty"`
	TravelDateFrom *time.Time  `bson:"travel_date_from,omitempty" json:"travel_date_from,omitempty"`
	TravelDateTo   *time.Time  `bson:"travel_date_to,omitempty" json:"travel_date_to,omitempty"`
	Passengers     []Passenger `bson:"passengers" json:"passengers"`
	Signature      string      `bson:"signature,omitempty" json:"signature,omitempty"`

	// Same-day requests (date_prepared == travel_date_from) must justify
	// the urgency at submit time.
	UrgencyJustification string `bson:"urgency_justification,omitempty" json:"urgency_justification,omitempty"`

	// Dispatch section, filled by the dispatching department during its
	// step. Must be set before the dispatch-tier approval goes through.
	AssignedDriver  string     `bson:"assigned_driver,omitempty" json:"assigned_driver,omitempty"`
	AssignedVehicle string     `bson:"assigned_vehicle,omitempty" json:"assigned_vehicle,omitempty"`
	ApprovalDate    *time.Time `bson:"approval_date,omitempty" json:"approval_date,omitempty"`

	// Verification sub-flow
	VerifierID         primitive.ObjectID `bson:"verifier_id,omitempty" json:"verifier_id,omitempty"`
	VerificationStatus string             `bson:"verification_status" json:"verification_status"`
	VerifierComments   string             `bson:"verifier_comments,omitempty" json:"verifier_comments,omitempty"`
	VerifiedAt         *time.Time         `bson:"verified_at,omitempty" json:"verified_at,omitempty"`

	Cycle             int `bson:"cycle" json:"cycle"`
	ReturnTargetOrder int `bson:"return_target_order,omitempty" json:"return_target_order,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	SubmittedAt *time.Time `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// ValidRequestType reports whether t is one of the form's known sections.
func ValidRequestType(t RequestType) bool {
	switch t {
	case TypeDropPassenger, TypePointToPoint, TypePickupOnly, TypeItemPickup, TypeItemDelivery, TypeCarOnly:
		return true
	}
	return false
}
