package services

import (
	"context"
	"fmt"

	"essayhub/models"
)

// CompetencyScore is one dimension of the automated breakdown.
type CompetencyScore struct {
	Competency int    `json:"competency"`
	Score      int    `json:"score"`
	Feedback   string `json:"feedback,omitempty"`
}

// AnalysisResult is the scored breakdown returned by the provider.
// TotalScore uses the 0-1000 ENEM scale.
type AnalysisResult struct {
	TotalScore   float64           `json:"totalScore"`
	Competencies []CompetencyScore `json:"competencies"`
	Summary      string            `json:"summary,omitempty"`
}

// AnalysisProvider produces a scored breakdown for essay text. Calls may
// be slow (seconds) and may fail; the orchestrator runs them in the
// background.
type AnalysisProvider interface {
	Analyze(ctx context.Context, text string) (*AnalysisResult, error)
}

// validateResult rejects provider output that is off-scale before it can
// reach the cache or the database.
func validateResult(result *AnalysisResult) error {
	if result.TotalScore < 0 || result.TotalScore > 1000 {
		return &ProviderError{Err: fmt.Errorf("total score %v out of range", result.TotalScore)}
	}
	for _, comp := range result.Competencies {
		if comp.Competency < models.MinCompetency || comp.Competency > models.MaxCompetency {
			return &ProviderError{Err: fmt.Errorf("unknown competency %d", comp.Competency)}
		}
		if comp.Score < models.MinScore || comp.Score > models.MaxScore {
			return &ProviderError{Err: fmt.Errorf("competency %d score %d out of range", comp.Competency, comp.Score)}
		}
	}
	return nil
}
