package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus tracks whether a trainer's current salary has been paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// TimeSlot is one bookable slot in a trainer's day.
type TimeSlot struct {
	Time    string   `bson:"time" json:"time"`                           // e.g. "08:00 - 09:00"
	Classes []string `bson:"classes,omitempty" json:"classes,omitempty"` // Class names taught in this slot
}

// TrainerProfile holds the fields an applicant fills in. They are carried
// over unchanged when the application becomes a trainer.
type TrainerProfile struct {
	Name           string                `bson:"name" json:"name"`
	Email          string                `bson:"email" json:"email"`
	Age            int                   `bson:"age,omitempty" json:"age,omitempty"`
	Image          string                `bson:"image,omitempty" json:"image,omitempty"`
	Experience     string                `bson:"experience,omitempty" json:"experience,omitempty"`
	Bio            string                `bson:"bio,omitempty" json:"bio,omitempty"`
	Skills         []string              `bson:"skills,omitempty" json:"skills,omitempty"`
	AvailableDays  []string              `bson:"availableDays,omitempty" json:"availableDays,omitempty"`
	AvailableTime  string                `bson:"availableTime,omitempty" json:"availableTime,omitempty"`
	TimeSlotOfDays map[string][]TimeSlot `bson:"timeSlotOfDays,omitempty" json:"timeSlotOfDays,omitempty"`
	Socials        map[string]string     `bson:"socials,omitempty" json:"socials,omitempty"`
}

// Trainer is an accepted trainer. Its ID is the ID of the application it
// was promoted from.
type Trainer struct {
	ID             primitive.ObjectID `bson:"_id" json:"_id"`
	TrainerProfile `bson:",inline"`
	Role           Role          `bson:"role" json:"role"`
	Salary         float64       `bson:"salary" json:"salary"`
	Payment        PaymentStatus `bson:"payment" json:"payment"`
	AcceptanceDate *time.Time    `bson:"acceptanceDate,omitempty" json:"acceptanceDate,omitempty"`
}

// Slot returns the slot at index on day, or false when either is absent.
func (t *Trainer) Slot(day string, index int) (TimeSlot, bool) {
	slots, ok := t.TimeSlotOfDays[day]
	if !ok || index < 0 || index >= len(slots) {
		return TimeSlot{}, false
	}
	return slots[index], true
}
