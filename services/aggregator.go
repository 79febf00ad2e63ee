package services

import (
	"context"
	"fmt"
	"time"

	"essayhub/models"
)

// GradeStore is the slice of the persistence gateway the aggregator
// needs: evaluation CRUD plus the essay's score fields.
type GradeStore interface {
	GetEssay(ctx context.Context, id string) (*models.Essay, error)
	UpdateEssayFinalScore(ctx context.Context, essayID string, score *float64) error
	GetEvaluation(ctx context.Context, id string) (*models.Evaluation, error)
	GetEvaluations(ctx context.Context, essayID string) ([]models.Evaluation, error)
	FindEvaluation(ctx context.Context, essayID string, competency int) (*models.Evaluation, error)
	CreateEvaluation(ctx context.Context, ev *models.Evaluation) error
	UpdateEvaluation(ctx context.Context, ev *models.Evaluation) error
	DeleteEvaluation(ctx context.Context, id string) error
}

// Aggregator owns evaluation writes and the authoritative final score.
// Every create, update or delete recomputes the owning essay's
// finalScore; human grading, when present, always wins over the
// machine baseline.
type Aggregator struct {
	store GradeStore
}

func NewAggregator(store GradeStore) *Aggregator {
	return &Aggregator{store: store}
}

// ValidateEvaluation rejects out-of-range fields before any write.
func ValidateEvaluation(competency, score int) error {
	if competency < models.MinCompetency || competency > models.MaxCompetency {
		return &ValidationError{
			Field:  "competency",
			Reason: fmt.Sprintf("must be between %d and %d", models.MinCompetency, models.MaxCompetency),
		}
	}
	if score < models.MinScore || score > models.MaxScore {
		return &ValidationError{
			Field:  "score",
			Reason: fmt.Sprintf("must be between %d and %d", models.MinScore, models.MaxScore),
		}
	}
	return nil
}

// CreateEvaluation validates, enforces competency uniqueness per essay,
// persists the evaluation and recomputes the final score.
func (a *Aggregator) CreateEvaluation(ctx context.Context, ev *models.Evaluation) error {
	if err := ValidateEvaluation(ev.Competency, ev.Score); err != nil {
		return err
	}
	existing, err := a.store.FindEvaluation(ctx, ev.EssayID.Hex(), ev.Competency)
	if err != nil {
		return err
	}
	if existing != nil {
		return &ValidationError{
			Field:  "competency",
			Reason: fmt.Sprintf("competency %d already evaluated for this essay", ev.Competency),
		}
	}
	ev.CreatedAt = time.Now()
	if err := a.store.CreateEvaluation(ctx, ev); err != nil {
		return err
	}
	return a.RecalculateFinalScore(ctx, ev.EssayID.Hex())
}

// UpdateEvaluation validates and rewrites an existing evaluation, then
// recomputes the final score of its essay.
func (a *Aggregator) UpdateEvaluation(ctx context.Context, id string, competency, score int, comment string) (*models.Evaluation, error) {
	if err := ValidateEvaluation(competency, score); err != nil {
		return nil, err
	}
	existing, err := a.store.GetEvaluation(ctx, id)
	if err != nil {
		return nil, err
	}
	if competency != existing.Competency {
		other, err := a.store.FindEvaluation(ctx, existing.EssayID.Hex(), competency)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, &ValidationError{
				Field:  "competency",
				Reason: fmt.Sprintf("competency %d already evaluated for this essay", competency),
			}
		}
	}
	existing.Competency = competency
	existing.Score = score
	existing.Comment = comment
	if err := a.store.UpdateEvaluation(ctx, existing); err != nil {
		return nil, err
	}
	if err := a.RecalculateFinalScore(ctx, existing.EssayID.Hex()); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteEvaluation removes an evaluation and recomputes the final score
// of its essay. Returns the deleted evaluation.
func (a *Aggregator) DeleteEvaluation(ctx context.Context, id string) (*models.Evaluation, error) {
	existing, err := a.store.GetEvaluation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.store.DeleteEvaluation(ctx, id); err != nil {
		return nil, err
	}
	if err := a.RecalculateFinalScore(ctx, existing.EssayID.Hex()); err != nil {
		return nil, err
	}
	return existing, nil
}

// RecalculateFinalScore computes the authoritative score for an essay:
// the unweighted mean of its evaluations, or the stored autoScore when
// no human evaluation exists (possibly null), and persists it.
func (a *Aggregator) RecalculateFinalScore(ctx context.Context, essayID string) error {
	evaluations, err := a.store.GetEvaluations(ctx, essayID)
	if err != nil {
		return err
	}

	var final *float64
	if len(evaluations) > 0 {
		sum := 0
		for _, ev := range evaluations {
			sum += ev.Score
		}
		mean := float64(sum) / float64(len(evaluations))
		final = &mean
	} else {
		essay, err := a.store.GetEssay(ctx, essayID)
		if err != nil {
			return err
		}
		final = essay.AutoScore
	}

	return a.store.UpdateEssayFinalScore(ctx, essayID, final)
}
