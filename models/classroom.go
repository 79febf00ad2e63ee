package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Classroom struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	TeacherID primitive.ObjectID `json:"teacherId" bson:"teacherId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Enrollment links a student to a classroom. Unique per pair.
type Enrollment struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ClassroomID primitive.ObjectID `json:"classroomId" bson:"classroomId"`
	StudentID   primitive.ObjectID `json:"studentId" bson:"studentId"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
