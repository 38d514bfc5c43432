package models

import "time"

// SystemNotification is a message pushed to a mechanic account, e.g. when
// a rider approves their claim or cancels a claimed request.
type SystemNotification struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	MechanicID string    `json:"mechanic_id" bson:"mechanicId"`
	Title      string    `json:"title" bson:"title"`
	Body       string    `json:"body" bson:"body"`
	Read       bool      `json:"read" bson:"read"`
	CreatedAt  time.Time `json:"created_at" bson:"createdAt"`
}
