package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PackageRef is the package a member bought with a booking.
type PackageRef struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// Booking links a member to a trainer's slot. Bookings are never mutated.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	MemberName    string             `bson:"memberName,omitempty" json:"memberName,omitempty"`
	MemberEmail   string             `bson:"memberEmail" json:"memberEmail"`
	TrainerID     primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	TrainerName   string             `bson:"trainerName,omitempty" json:"trainerName,omitempty"`
	TrainerEmail  string             `bson:"trainerEmail" json:"trainerEmail"`
	Day           string             `bson:"day,omitempty" json:"day,omitempty"`
	SlotIndex     int                `bson:"slotIndex" json:"slotIndex"`
	Slot          *TimeSlot          `bson:"slot,omitempty" json:"slot,omitempty"`
	Package       PackageRef         `bson:"package" json:"package"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	BookedAt      time.Time          `bson:"bookedAt" json:"bookedAt"`
}

// Payment is an append-only record of a salary paid to a trainer.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TrainerID     primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	TrainerEmail  string             `bson:"trainerEmail" json:"trainerEmail"`
	TrainerName   string             `bson:"trainerName,omitempty" json:"trainerName,omitempty"`
	Amount        float64            `bson:"amount" json:"amount"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	PaidAt        time.Time          `bson:"paidAt" json:"paidAt"`
}

// PaymentIntent is what the payment processor hands back for a checkout.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	CheckoutURL  string `json:"checkoutUrl,omitempty"`
	SandboxURL   string `json:"sandboxUrl,omitempty"`
}
