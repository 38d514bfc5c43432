package models

import "time"

// Mechanic approval workflow states.
const (
	MechanicStatusPending  = "pending"
	MechanicStatusApproved = "approved"
	MechanicStatusRejected = "rejected"
)

// Mechanic is an account document in the "mechanics" collection.
type Mechanic struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	Name             string    `json:"name" bson:"name"`
	Email            string    `json:"email" bson:"email"`
	Password         string    `json:"-" bson:"password"` // bcrypt hash
	Phone            string    `json:"phone" bson:"phone"`
	BusinessName     string    `json:"business_name" bson:"business_name"`
	LicenseNumber    string    `json:"license_number" bson:"license_number"`
	VerificationDocs []string  `json:"verification_docs" bson:"verification_docs"` // blob URLs
	Status           string    `json:"status" bson:"status"`                       // approval workflow
	Location         *Location `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}
