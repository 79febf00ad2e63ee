package services

import (
	"context"
	"testing"

	"essayhub/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubGradeStore keeps essays and evaluations in maps keyed by hex id.
type stubGradeStore struct {
	essays      map[string]*models.Essay
	evaluations map[string]*models.Evaluation
	finalWrites int
}

func newStubGradeStore() *stubGradeStore {
	return &stubGradeStore{
		essays:      make(map[string]*models.Essay),
		evaluations: make(map[string]*models.Evaluation),
	}
}

func (s *stubGradeStore) addEssay(autoScore *float64) *models.Essay {
	essay := &models.Essay{ID: primitive.NewObjectID(), AutoScore: autoScore}
	s.essays[essay.ID.Hex()] = essay
	return essay
}

func (s *stubGradeStore) GetEssay(ctx context.Context, id string) (*models.Essay, error) {
	essay, ok := s.essays[id]
	if !ok {
		return nil, &NotFoundError{Entity: "essay", ID: id}
	}
	return essay, nil
}

func (s *stubGradeStore) UpdateEssayFinalScore(ctx context.Context, essayID string, score *float64) error {
	essay, ok := s.essays[essayID]
	if !ok {
		return &NotFoundError{Entity: "essay", ID: essayID}
	}
	essay.FinalScore = score
	s.finalWrites++
	return nil
}

func (s *stubGradeStore) GetEvaluation(ctx context.Context, id string) (*models.Evaluation, error) {
	ev, ok := s.evaluations[id]
	if !ok {
		return nil, &NotFoundError{Entity: "evaluation", ID: id}
	}
	copied := *ev
	return &copied, nil
}

func (s *stubGradeStore) GetEvaluations(ctx context.Context, essayID string) ([]models.Evaluation, error) {
	var out []models.Evaluation
	for _, ev := range s.evaluations {
		if ev.EssayID.Hex() == essayID {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (s *stubGradeStore) FindEvaluation(ctx context.Context, essayID string, competency int) (*models.Evaluation, error) {
	for _, ev := range s.evaluations {
		if ev.EssayID.Hex() == essayID && ev.Competency == competency {
			copied := *ev
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *stubGradeStore) CreateEvaluation(ctx context.Context, ev *models.Evaluation) error {
	if ev.ID.IsZero() {
		ev.ID = primitive.NewObjectID()
	}
	copied := *ev
	s.evaluations[ev.ID.Hex()] = &copied
	return nil
}

func (s *stubGradeStore) UpdateEvaluation(ctx context.Context, ev *models.Evaluation) error {
	if _, ok := s.evaluations[ev.ID.Hex()]; !ok {
		return &NotFoundError{Entity: "evaluation", ID: ev.ID.Hex()}
	}
	copied := *ev
	s.evaluations[ev.ID.Hex()] = &copied
	return nil
}

func (s *stubGradeStore) DeleteEvaluation(ctx context.Context, id string) error {
	if _, ok := s.evaluations[id]; !ok {
		return &NotFoundError{Entity: "evaluation", ID: id}
	}
	delete(s.evaluations, id)
	return nil
}

func evaluationFor(essay *models.Essay, competency, score int) *models.Evaluation {
	return &models.Evaluation{
		EssayID:    essay.ID,
		ReviewerID: primitive.NewObjectID(),
		Competency: competency,
		Score:      score,
	}
}

func TestFinalScoreIsMeanOfEvaluations(t *testing.T) {
	store := newStubGradeStore()
	auto := 845.0
	essay := store.addEssay(&auto)
	agg := NewAggregator(store)
	ctx := context.Background()

	scores := []int{120, 150, 100, 180, 90}
	for i, score := range scores {
		if err := agg.CreateEvaluation(ctx, evaluationFor(essay, i+1, score)); err != nil {
			t.Fatalf("Failed to create evaluation %d: %v", i+1, err)
		}
	}

	if essay.FinalScore == nil {
		t.Fatal("Expected final score to be set")
	}
	if *essay.FinalScore != 128 {
		t.Errorf("Expected final score 128, got %v", *essay.FinalScore)
	}
}

func TestFinalScoreFallsBackToAutoScore(t *testing.T) {
	store := newStubGradeStore()
	auto := 845.0
	essay := store.addEssay(&auto)
	agg := NewAggregator(store)

	if err := agg.RecalculateFinalScore(context.Background(), essay.ID.Hex()); err != nil {
		t.Fatalf("Recalculate failed: %v", err)
	}
	if essay.FinalScore == nil || *essay.FinalScore != 845 {
		t.Errorf("Expected final score 845 from auto score, got %v", essay.FinalScore)
	}
}

func TestFinalScoreNullWithoutAnyScore(t *testing.T) {
	store := newStubGradeStore()
	essay := store.addEssay(nil)
	agg := NewAggregator(store)

	if err := agg.RecalculateFinalScore(context.Background(), essay.ID.Hex()); err != nil {
		t.Fatalf("Recalculate failed: %v", err)
	}
	if essay.FinalScore != nil {
		t.Errorf("Expected null final score, got %v", *essay.FinalScore)
	}
	if store.finalWrites != 1 {
		t.Errorf("Expected the null score to be persisted, got %d writes", store.finalWrites)
	}
}

func TestDuplicateCompetencyRejected(t *testing.T) {
	store := newStubGradeStore()
	essay := store.addEssay(nil)
	agg := NewAggregator(store)
	ctx := context.Background()

	if err := agg.CreateEvaluation(ctx, evaluationFor(essay, 3, 120)); err != nil {
		t.Fatalf("First evaluation failed: %v", err)
	}
	err := agg.CreateEvaluation(ctx, evaluationFor(essay, 3, 160))
	if !IsValidation(err) {
		t.Fatalf("Expected validation error for duplicate competency, got %v", err)
	}
	if len(store.evaluations) != 1 {
		t.Errorf("Expected 1 stored evaluation, got %d", len(store.evaluations))
	}
}

func TestEvaluationBoundsChecked(t *testing.T) {
	store := newStubGradeStore()
	essay := store.addEssay(nil)
	agg := NewAggregator(store)
	ctx := context.Background()

	if err := agg.CreateEvaluation(ctx, evaluationFor(essay, 6, 100)); !IsValidation(err) {
		t.Errorf("Expected validation error for competency 6, got %v", err)
	}
	if err := agg.CreateEvaluation(ctx, evaluationFor(essay, 2, 250)); !IsValidation(err) {
		t.Errorf("Expected validation error for score 250, got %v", err)
	}
	if err := agg.CreateEvaluation(ctx, evaluationFor(essay, 1, -10)); !IsValidation(err) {
		t.Errorf("Expected validation error for score -10, got %v", err)
	}
	if len(store.evaluations) != 0 {
		t.Errorf("Expected no stored evaluations, got %d", len(store.evaluations))
	}
}

func TestUpdateEvaluationRecomputesFinalScore(t *testing.T) {
	store := newStubGradeStore()
	essay := store.addEssay(nil)
	agg := NewAggregator(store)
	ctx := context.Background()

	first := evaluationFor(essay, 1, 100)
	if err := agg.CreateEvaluation(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := agg.CreateEvaluation(ctx, evaluationFor(essay, 2, 200)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if *essay.FinalScore != 150 {
		t.Fatalf("Expected final score 150, got %v", *essay.FinalScore)
	}

	updated, err := agg.UpdateEvaluation(ctx, first.ID.Hex(), 1, 180, "better thesis")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Score != 180 || updated.Comment != "better thesis" {
		t.Errorf("Unexpected updated evaluation: %+v", updated)
	}
	if *essay.FinalScore != 190 {
		t.Errorf("Expected final score 190 after update, got %v", *essay.FinalScore)
	}
}

func TestUpdateCannotCollideWithExistingCompetency(t *testing.T) {
	store := newStubGradeStore()
	essay := store.addEssay(nil)
	agg := NewAggregator(store)
	ctx := context.Background()

	if err := agg.CreateEvaluation(ctx, evaluationFor(essay, 1, 100)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second := evaluationFor(essay, 2, 140)
	if err := agg.CreateEvaluation(ctx, second); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := agg.UpdateEvaluation(ctx, second.ID.Hex(), 1, 140, "")
	if !IsValidation(err) {
		t.Errorf("Expected validation error when moving onto an occupied competency, got %v", err)
	}
}

func TestDeleteEvaluationFallsBackToAutoScore(t *testing.T) {
	store := newStubGradeStore()
	auto := 620.0
	essay := store.addEssay(&auto)
	agg := NewAggregator(store)
	ctx := context.Background()

	ev := evaluationFor(essay, 4, 180)
	if err := agg.CreateEvaluation(ctx, ev); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if *essay.FinalScore != 180 {
		t.Fatalf("Expected final score 180, got %v", *essay.FinalScore)
	}

	deleted, err := agg.DeleteEvaluation(ctx, ev.ID.Hex())
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.Competency != 4 {
		t.Errorf("Expected deleted evaluation for competency 4, got %d", deleted.Competency)
	}
	if essay.FinalScore == nil || *essay.FinalScore != 620 {
		t.Errorf("Expected final score to fall back to 620, got %v", essay.FinalScore)
	}

	if _, err := agg.DeleteEvaluation(ctx, ev.ID.Hex()); !IsNotFound(err) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
}
