package db

import (
	"context"
	"errors"
	"time"

	"essayhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *Store) CreateEssay(ctx context.Context, essay *models.Essay) error {
	essay.CreatedAt = time.Now()
	essay.UpdatedAt = essay.CreatedAt
	res, err := s.essays.InsertOne(ctx, essay)
	if err != nil {
		return persistErr("create essay", err)
	}
	essay.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) GetEssay(ctx context.Context, id string) (*models.Essay, error) {
	oid, err := parseID("essay", id)
	if err != nil {
		return nil, err
	}
	var essay models.Essay
	err = s.essays.FindOne(ctx, bson.M{"_id": oid}).Decode(&essay)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound("essay", id)
		}
		return nil, persistErr("get essay", err)
	}
	return &essay, nil
}

func (s *Store) ListEssaysByAuthor(ctx context.Context, authorID string) ([]models.Essay, error) {
	oid, err := parseID("user", authorID)
	if err != nil {
		return nil, err
	}
	return s.listEssays(ctx, bson.M{"authorId": oid})
}

func (s *Store) ListEssaysByClassroom(ctx context.Context, classroomID string) ([]models.Essay, error) {
	oid, err := parseID("classroom", classroomID)
	if err != nil {
		return nil, err
	}
	return s.listEssays(ctx, bson.M{"classroomId": oid})
}

func (s *Store) listEssays(ctx context.Context, filter bson.M) ([]models.Essay, error) {
	cursor, err := s.essays.Find(ctx, filter)
	if err != nil {
		return nil, persistErr("list essays", err)
	}
	defer cursor.Close(ctx)

	essays := []models.Essay{}
	if err := cursor.All(ctx, &essays); err != nil {
		return nil, persistErr("decode essays", err)
	}
	return essays, nil
}

// UpdateEssayText persists new text and resets both scores. This runs
// before the analysis registry is invalidated, so a stale cache read in
// between cannot surface an outdated score against fresh text.
func (s *Store) UpdateEssayText(ctx context.Context, id string, text *string, title string) error {
	oid, err := parseID("essay", id)
	if err != nil {
		return err
	}
	set := bson.M{
		"text":       text,
		"autoScore":  nil,
		"finalScore": nil,
		"updatedAt":  time.Now(),
	}
	if title != "" {
		set["title"] = title
	}
	res, err := s.essays.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return persistErr("update essay text", err)
	}
	if res.MatchedCount == 0 {
		return notFound("essay", id)
	}
	return nil
}

func (s *Store) UpdateEssayTitle(ctx context.Context, id string, title string) error {
	oid, err := parseID("essay", id)
	if err != nil {
		return err
	}
	res, err := s.essays.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"title":     title,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return persistErr("update essay title", err)
	}
	if res.MatchedCount == 0 {
		return notFound("essay", id)
	}
	return nil
}

func (s *Store) UpdateEssayAutoScore(ctx context.Context, essayID string, score float64) error {
	oid, err := parseID("essay", essayID)
	if err != nil {
		return err
	}
	res, err := s.essays.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"autoScore": score,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return persistErr("update auto score", err)
	}
	if res.MatchedCount == 0 {
		return notFound("essay", essayID)
	}
	return nil
}

func (s *Store) UpdateEssayFinalScore(ctx context.Context, essayID string, score *float64) error {
	oid, err := parseID("essay", essayID)
	if err != nil {
		return err
	}
	res, err := s.essays.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"finalScore": score,
		"updatedAt":  time.Now(),
	}})
	if err != nil {
		return persistErr("update final score", err)
	}
	if res.MatchedCount == 0 {
		return notFound("essay", essayID)
	}
	return nil
}

// DeleteEssay removes the essay and all of its evaluations. No
// cross-document transaction is assumed; evaluations go first so a
// failure cannot leave grades pointing at a missing essay unnoticed.
func (s *Store) DeleteEssay(ctx context.Context, id string) error {
	oid, err := parseID("essay", id)
	if err != nil {
		return err
	}
	if _, err := s.evaluations.DeleteMany(ctx, bson.M{"essayId": oid}); err != nil {
		return persistErr("delete evaluations", err)
	}
	res, err := s.essays.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return persistErr("delete essay", err)
	}
	if res.DeletedCount == 0 {
		return notFound("essay", id)
	}
	return nil
}
