package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleMember  Role = "member"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

// User represents an account on the marketplace. Users are created the first
// time they sign in and are keyed by email.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name           string             `bson:"name,omitempty" json:"name,omitempty"`
	Email          string             `bson:"email" json:"email"` // Unique
	PhotoURL       string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role           Role               `bson:"role" json:"role"`
	AcceptanceDate *time.Time         `bson:"acceptanceDate,omitempty" json:"acceptanceDate,omitempty"` // Set when promoted to trainer
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}
