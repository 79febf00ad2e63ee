package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Essay is a submitted piece of text to be scored. Text stays nil until
// the external OCR/correction pipeline delivers it. AutoScore is the
// machine baseline (0-1000); FinalScore is the authoritative grade and
// is only ever written by the grade aggregator.
type Essay struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Title       string              `json:"title" bson:"title"`
	AuthorID    primitive.ObjectID  `json:"authorId" bson:"authorId"`
	ClassroomID *primitive.ObjectID `json:"classroomId,omitempty" bson:"classroomId,omitempty"`
	ImagePath   string              `json:"imagePath,omitempty" bson:"imagePath,omitempty"`
	Text        *string             `json:"text" bson:"text"`
	AutoScore   *float64            `json:"autoScore" bson:"autoScore"`
	FinalScore  *float64            `json:"finalScore" bson:"finalScore"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}
