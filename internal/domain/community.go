package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The records in this file are append/list-only and have no cross-entity
// invariants.

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	PhotoURL  string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Rating    float64            `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Subscriber is a newsletter subscription. The same email may subscribe
// more than once.
type Subscriber struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	Email        string             `bson:"email" json:"email"`
	SubscribedAt time.Time          `bson:"subscribedAt" json:"subscribedAt"`
}

type ForumPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Body        string             `bson:"body" json:"body"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	AuthorName  string             `bson:"authorName,omitempty" json:"authorName,omitempty"`
	AuthorEmail string             `bson:"authorEmail" json:"authorEmail"`
	AuthorRole  Role               `bson:"authorRole" json:"authorRole"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type Class struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Duration      string             `bson:"duration,omitempty" json:"duration,omitempty"`
	TrainerEmails []string           `bson:"trainerEmails,omitempty" json:"trainerEmails,omitempty"`
	CreatedBy     string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Package is a membership tier members buy when booking a slot.
type Package struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Benefits []string           `bson:"benefits,omitempty" json:"benefits,omitempty"`
	Classes  []string           `bson:"classes,omitempty" json:"classes,omitempty"`
}

// Image is a gallery picture. When ObjectKey is set the file lives in object
// storage and URL is filled with a presigned download link on read.
type Image struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title      string             `bson:"title,omitempty" json:"title,omitempty"`
	URL        string             `bson:"url,omitempty" json:"url,omitempty"`
	ObjectKey  string             `bson:"objectKey,omitempty" json:"-"`
	UploadedBy string             `bson:"uploadedBy,omitempty" json:"uploadedBy,omitempty"`
	UploadedAt time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}

// Keyed is implemented by records that carry their own ObjectID.
type Keyed interface {
	DocumentID() *primitive.ObjectID
}

func (r *Review) DocumentID() *primitive.ObjectID     { return &r.ID }
func (s *Subscriber) DocumentID() *primitive.ObjectID { return &s.ID }
func (p *ForumPost) DocumentID() *primitive.ObjectID  { return &p.ID }
func (c *Class) DocumentID() *primitive.ObjectID      { return &c.ID }
func (p *Package) DocumentID() *primitive.ObjectID    { return &p.ID }
func (i *Image) DocumentID() *primitive.ObjectID      { return &i.ID }
