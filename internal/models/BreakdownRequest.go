package models

import "time"

// Breakdown request lifecycle states. Done and Cancelled are terminal.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusClaimed   RequestStatus = "claimed"
	StatusApproved  RequestStatus = "approved"
	StatusCancelled RequestStatus = "cancelled"
	StatusDone      RequestStatus = "done"
)

// Terminal reports whether no further lifecycle transition is defined.
func (s RequestStatus) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// Location is a WGS84 coordinate pair.
type Location struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// ClaimedBy identifies the mechanic who accepted a request.
type ClaimedBy struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// UserFeedback is the rider's rating of the assistance received.
type UserFeedback struct {
	Rating        int       `json:"rating" bson:"rating"`
	Text          string    `json:"text" bson:"text"`
	SubmittedAt   time.Time `json:"submitted_at" bson:"submitted_at"`
	// AutoConfirmed is set when the rider's client submitted the rating
	// on their behalf after the confirmation window lapsed.
	AutoConfirmed bool `json:"auto_confirmed" bson:"auto_confirmed"`
}

// MechanicFeedback is the mechanic's closing notes plus evidence photos.
type MechanicFeedback struct {
	Notes       string    `json:"notes" bson:"notes"`
	Photos      []string  `json:"photos" bson:"photos"` // blob URLs
	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"`
}

// BreakdownRequest is the one multi-writer document in the system: the
// owning rider writes reason/location/vehicle, the claiming mechanic
// writes claimedBy/mechanicFeedback, and both contribute confirmations.
// Requests are never deleted; they end in a terminal status.
type BreakdownRequest struct {
	ID                string            `json:"id" bson:"_id,omitempty"`
	UserID            string            `json:"user_id" bson:"userId"`
	UserName          string            `json:"user_name" bson:"userName"`
	PhoneNum          string            `json:"phone_num" bson:"phoneNum"`
	Location          Location          `json:"location" bson:"location"`
	Address           string            `json:"address" bson:"address"`
	VehicleID         string            `json:"vehicle_id,omitempty" bson:"vehicleId,omitempty"`
	Vehicle           *Vehicle          `json:"vehicle,omitempty" bson:"vehicle,omitempty"`
	Reason            string            `json:"reason" bson:"reason"`
	Timestamp         time.Time         `json:"timestamp" bson:"timestamp"`
	Status            RequestStatus     `json:"status" bson:"status"`
	ClaimedBy         *ClaimedBy        `json:"claimed_by,omitempty" bson:"claimedBy,omitempty"`
	CancelledBy       string            `json:"cancelled_by,omitempty" bson:"cancelledBy,omitempty"`
	CancelledAt       *time.Time        `json:"cancelled_at,omitempty" bson:"cancelledAt,omitempty"`
	UserConfirmed     bool              `json:"user_confirmed" bson:"userConfirmed"`
	UserConfirmedAt   *time.Time        `json:"user_confirmed_at,omitempty" bson:"userConfirmedAt,omitempty"`
	MechanicConfirmed bool              `json:"mechanic_confirmed" bson:"mechanicConfirmed"`
	UserFeedback      *UserFeedback     `json:"user_feedback,omitempty" bson:"userFeedback,omitempty"`
	MechanicFeedback  *MechanicFeedback `json:"mechanic_feedback,omitempty" bson:"mechanicFeedback,omitempty"`
}
