package db

import (
	"context"
	"errors"

	"essayhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *Store) CreateEvaluation(ctx context.Context, ev *models.Evaluation) error {
	res, err := s.evaluations.InsertOne(ctx, ev)
	if err != nil {
		return persistErr("create evaluation", err)
	}
	ev.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) GetEvaluation(ctx context.Context, id string) (*models.Evaluation, error) {
	oid, err := parseID("evaluation", id)
	if err != nil {
		return nil, err
	}
	var ev models.Evaluation
	err = s.evaluations.FindOne(ctx, bson.M{"_id": oid}).Decode(&ev)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound("evaluation", id)
		}
		return nil, persistErr("get evaluation", err)
	}
	return &ev, nil
}

func (s *Store) GetEvaluations(ctx context.Context, essayID string) ([]models.Evaluation, error) {
	oid, err := parseID("essay", essayID)
	if err != nil {
		return nil, err
	}
	cursor, err := s.evaluations.Find(ctx, bson.M{"essayId": oid})
	if err != nil {
		return nil, persistErr("list evaluations", err)
	}
	defer cursor.Close(ctx)

	evaluations := []models.Evaluation{}
	if err := cursor.All(ctx, &evaluations); err != nil {
		return nil, persistErr("decode evaluations", err)
	}
	return evaluations, nil
}

// FindEvaluation returns the evaluation for a (essay, competency) pair,
// or nil when none exists.
func (s *Store) FindEvaluation(ctx context.Context, essayID string, competency int) (*models.Evaluation, error) {
	oid, err := parseID("essay", essayID)
	if err != nil {
		return nil, err
	}
	var ev models.Evaluation
	err = s.evaluations.FindOne(ctx, bson.M{"essayId": oid, "competency": competency}).Decode(&ev)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, persistErr("find evaluation", err)
	}
	return &ev, nil
}

func (s *Store) UpdateEvaluation(ctx context.Context, ev *models.Evaluation) error {
	res, err := s.evaluations.UpdateOne(ctx, bson.M{"_id": ev.ID}, bson.M{"$set": bson.M{
		"competency": ev.Competency,
		"score":      ev.Score,
		"comment":    ev.Comment,
	}})
	if err != nil {
		return persistErr("update evaluation", err)
	}
	if res.MatchedCount == 0 {
		return notFound("evaluation", ev.ID.Hex())
	}
	return nil
}

func (s *Store) DeleteEvaluation(ctx context.Context, id string) error {
	oid, err := parseID("evaluation", id)
	if err != nil {
		return err
	}
	res, err := s.evaluations.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return persistErr("delete evaluation", err)
	}
	if res.DeletedCount == 0 {
		return notFound("evaluation", id)
	}
	return nil
}
