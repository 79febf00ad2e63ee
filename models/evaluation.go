package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Competency bounds for ENEM-style grading: five competencies, each
// scored 0-200, summing to the 0-1000 scale.
const (
	MinCompetency = 1
	MaxCompetency = 5
	MinScore      = 0
	MaxScore      = 200
)

// Evaluation is one reviewer's score for one competency of an essay.
// At most one evaluation exists per (essay, competency) pair.
type Evaluation struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EssayID    primitive.ObjectID `json:"essayId" bson:"essayId"`
	ReviewerID primitive.ObjectID `json:"reviewerId" bson:"reviewerId"`
	Competency int                `json:"competency" bson:"competency"`
	Score      int                `json:"score" bson:"score"`
	Comment    string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}
