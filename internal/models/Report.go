package models

import "time"

// MechanicReport is a rider complaint filed against a mechanic.
type MechanicReport struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	MechanicID string    `json:"mechanic_id" bson:"mechanicId"`
	ReporterID string    `json:"reporter_id" bson:"reporterId"`
	RequestID  string    `json:"request_id,omitempty" bson:"requestId,omitempty"`
	Reason     string    `json:"reason" bson:"reason"`
	Details    string    `json:"details" bson:"details"`
	CreatedAt  time.Time `json:"created_at" bson:"createdAt"`
}

// FeedbackEntry mirrors a rider rating into the mechanic_feedback
// collection so the read-side rating aggregation scans one collection
// instead of every request document.
type FeedbackEntry struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	MechanicID  string    `json:"mechanic_id" bson:"mechanicId"`
	RequestID   string    `json:"request_id" bson:"requestId"`
	RiderID     string    `json:"rider_id" bson:"riderId"`
	Rating      int       `json:"rating" bson:"rating"`
	Text        string    `json:"text" bson:"text"`
	SubmittedAt time.Time `json:"submitted_at" bson:"submittedAt"`
}
