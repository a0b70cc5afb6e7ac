package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lapsehq/lapse/internal/domain"
	"github.com/lapsehq/lapse/internal/llm"
)

// Classifier produces a validated classification for one session.
type Classifier interface {
	Classify(ctx context.Context, s domain.Session) (*domain.Classification, error)
}

// OpenAIClassifier asks the chat API to categorize a session under the
// fixed taxonomy and repairs the result onto the output contract.
type OpenAIClassifier struct {
	client llm.Client
}

// NewOpenAIClassifier creates a Classifier backed by an LLM client.
func NewOpenAIClassifier(client llm.Client) *OpenAIClassifier {
	return &OpenAIClassifier{client: client}
}

func (o *OpenAIClassifier) Classify(ctx context.Context, s domain.Session) (*domain.Classification, error) {
	userPrompt := buildClassifyUserPrompt(s)

	candidate, model, err := o.complete(ctx, userPrompt)
	if errors.Is(err, llm.ErrInvalidOutput) {
		// one corrective re-prompt before giving up on the API strategy
		candidate, model, err = o.complete(ctx, userPrompt+"\n\n"+repromptInstruction)
	}
	if err != nil {
		return nil, err
	}

	norm, repair := Normalize(candidate)
	return &domain.Classification{
		Category:   norm.Category,
		Title:      norm.Title,
		Preview:    norm.Preview,
		Confidence: ConfidenceFor(repair),
		Source:     domain.SourceOpenAI,
		Model:      model,
	}, nil
}

func (o *OpenAIClassifier) complete(ctx context.Context, userPrompt string) (Candidate, string, error) {
	resp, err := o.client.Complete(ctx, llm.Request{
		Task:         llm.TaskClassify,
		SystemPrompt: classifySystemPrompt,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		return Candidate{}, "", fmt.Errorf("classify call failed: %w", err)
	}

	candidate, err := llm.ExtractJSON[Candidate](resp.Text, validateCandidate)
	if err != nil {
		return Candidate{}, "", err
	}
	return candidate, resp.Model, nil
}

// validateCandidate is a schema validator for ExtractJSON.
func validateCandidate(c Candidate) error {
	if strings.TrimSpace(c.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(c.Preview) == "" {
		return fmt.Errorf("preview is required")
	}
	return nil
}

// KeywordClassifier scores taxonomy keywords against the session title and
// excerpt. It is pure, never fails, and always records low confidence.
type KeywordClassifier struct{}

// NewKeywordClassifier creates the local fallback Classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (k *KeywordClassifier) Classify(_ context.Context, s domain.Session) (*domain.Classification, error) {
	return &domain.Classification{
		Category:   scoreCategories(s.Title, s.Excerpt),
		Title:      s.Title,
		Preview:    domain.TruncateAtWord(domain.CollapseSpace(s.Excerpt), domain.PreviewMaxLen),
		Confidence: domain.ConfidenceLow,
		Source:     domain.SourceKeyword,
	}, nil
}

// scoreCategories awards 3 points for a keyword hit in the title and 1 for
// a hit elsewhere in the excerpt; the highest score wins, with ties broken
// by taxonomy priority order. No hits at all fall to the default category.
func scoreCategories(title, excerpt string) domain.Category {
	titleLower := strings.ToLower(title)
	text := titleLower + " " + strings.ToLower(excerpt)

	best := domain.DefaultCategory
	bestScore := 0
	for _, cat := range domain.Categories() {
		score := 0
		for _, kw := range cat.Keywords() {
			if !strings.Contains(text, kw) {
				continue
			}
			if strings.Contains(titleLower, kw) {
				score += 3
			} else {
				score++
			}
		}
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}
	return best
}
