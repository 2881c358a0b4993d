package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationStatus type for the trainer application lifecycle
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted" // Set just before the record moves to trainers
)

// TrainerApplication is a pending request from a user to become a trainer.
// Promotion moves it into the trainers collection.
type TrainerApplication struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TrainerProfile `bson:",inline"`
	Status         ApplicationStatus `bson:"status" json:"status"`
	SubmittedAt    time.Time         `bson:"submittedAt" json:"submittedAt"`

	// Written by the promotion step.
	Role           Role          `bson:"role,omitempty" json:"role,omitempty"`
	Salary         float64       `bson:"salary,omitempty" json:"salary,omitempty"`
	Payment        PaymentStatus `bson:"payment,omitempty" json:"payment,omitempty"`
	AcceptanceDate *time.Time    `bson:"acceptanceDate,omitempty" json:"acceptanceDate,omitempty"`
}

// PromotionTerms are the values an admin sets when accepting an application.
type PromotionTerms struct {
	Salary     float64
	AcceptedAt time.Time
}

// ToTrainer converts an accepted application into the trainer record that
// replaces it.
func (a *TrainerApplication) ToTrainer() *Trainer {
	return &Trainer{
		ID:             a.ID,
		TrainerProfile: a.TrainerProfile,
		Role:           RoleTrainer,
		Salary:         a.Salary,
		Payment:        PaymentPending,
		AcceptanceDate: a.AcceptanceDate,
	}
}
