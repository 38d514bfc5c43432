package models

import "time"

// Role discriminates the two disjoint account collections.
type Role string

const (
	RoleRider    Role = "rider"
	RoleMechanic Role = "mechanic"
)

// Rider is an account document in the "users" collection.
type Rider struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"` // bcrypt hash, never serialized out
	Phone     string    `json:"phone" bson:"phone"`
	Vehicles  []Vehicle `json:"vehicles" bson:"vehicles"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
