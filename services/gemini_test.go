package services

import "testing"

func TestCleanModelOutput(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"totalScore": 800}`, `{"totalScore": 800}`},
		{"```json\n{\"totalScore\": 800}\n```", `{"totalScore": 800}`},
		{"```\n{\"totalScore\": 800}\n```", `{"totalScore": 800}`},
		{"  \n{\"totalScore\": 800}\n  ", `{"totalScore": 800}`},
		{"", ""},
	}
	for _, c := range cases {
		if got := cleanModelOutput(c.in); got != c.want {
			t.Errorf("cleanModelOutput(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidateResultRanges(t *testing.T) {
	ok := &AnalysisResult{
		TotalScore: 820,
		Competencies: []CompetencyScore{
			{Competency: 1, Score: 160},
			{Competency: 5, Score: 200},
		},
	}
	if err := validateResult(ok); err != nil {
		t.Errorf("Expected valid result, got %v", err)
	}

	bad := []*AnalysisResult{
		{TotalScore: -1},
		{TotalScore: 1001},
		{TotalScore: 500, Competencies: []CompetencyScore{{Competency: 0, Score: 100}}},
		{TotalScore: 500, Competencies: []CompetencyScore{{Competency: 6, Score: 100}}},
		{TotalScore: 500, Competencies: []CompetencyScore{{Competency: 2, Score: 201}}},
	}
	for i, result := range bad {
		if err := validateResult(result); err == nil {
			t.Errorf("Case %d: expected provider error, got nil", i)
		}
	}
}
