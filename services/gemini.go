package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements AnalysisProvider on top of the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(apiKey, model string) (*GeminiProvider, error) {
	config := &genai.ClientConfig{}
	if apiKey != "" {
		config.APIKey = apiKey
	}
	client, err := genai.NewClient(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// Analyze asks the model for an ENEM-style correction and decodes the
// JSON-only response into an AnalysisResult.
func (g *GeminiProvider) Analyze(ctx context.Context, text string) (*AnalysisResult, error) {
	prompt := fmt.Sprintf(
		`Act as an ENEM essay grader. Evaluate the essay below across the five
official competencies, scoring each from 0 to 200, and compute the total
score (0-1000) as their sum.

Competencies:
1. Command of formal written language.
2. Comprehension of the essay prompt and applied knowledge.
3. Selection and organization of arguments.
4. Linguistic mechanisms for argumentation.
5. Proposal of an intervention respecting human rights.

Essay:
"""
%s
"""

Required Output Format (JSON):
{
  "totalScore": 0,
  "competencies": [
    {"competency": 1, "score": 0, "feedback": "short justification"}
  ],
  "summary": "two or three sentences of overall feedback"
}

Provide ONLY the JSON output without additional text or markdown formatting.`,
		text,
	)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	cleaned := cleanModelOutput(resp.Text())
	if cleaned == "" {
		return nil, &ProviderError{Err: fmt.Errorf("empty model response")}
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &ProviderError{Err: fmt.Errorf("malformed model response: %w", err)}
	}
	if err := validateResult(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
