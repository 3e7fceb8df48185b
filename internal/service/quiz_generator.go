package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/quizforge/config"
	"github.com/lshigami/quizforge/internal/dto"
	"github.com/lshigami/quizforge/internal/question"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const (
	DefaultDraftQuestions = 5
	MaxDraftQuestions     = 20
)

var (
	ErrGeneratorUnavailable = errors.New("quiz draft generation is not configured (set GEMINI_API_KEY)")
	ErrDraftRejected        = errors.New("generated draft could not be used")
)

// QuizGenerator drafts a creation request for a topic. Drafts are never
// stored; callers submit them through QuizService.Create.
type QuizGenerator interface {
	Available() bool
	Generate(ctx context.Context, topic string, count int) (*dto.CreateQuizRequest, error)
	Close() error
}

// textModel is the single call the generator needs from an LLM.
type textModel interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type quizGenerator struct {
	model  textModel
	client *genai.Client
}

func NewQuizGenerator(cfg *config.Config) (QuizGenerator, error) {
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Quiz draft generation will be unavailable.")
		return &quizGenerator{}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel(cfg.Gemini.Model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.7)
	return &quizGenerator{model: &geminiModel{model: m}, client: client}, nil
}

func newQuizGeneratorWithModel(m textModel) *quizGenerator {
	return &quizGenerator{model: m}
}

func (g *quizGenerator) Available() bool {
	return g.model != nil
}

func (g *quizGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *quizGenerator) Generate(ctx context.Context, topic string, count int) (*dto.CreateQuizRequest, error) {
	if !g.Available() {
		return nil, ErrGeneratorUnavailable
	}
	if isBlank(topic) {
		return nil, &ValidationError{Problems: []string{"topic must not be empty"}}
	}
	count = clampDraftCount(count)

	raw, err := g.model.GenerateJSON(ctx, draftPrompt(topic, count))
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Draft generation call failed")
		return nil, fmt.Errorf("%w: %v", ErrDraftRejected, err)
	}

	draft, err := parseDraft(raw, topic, count)
	if err != nil {
		log.Warn().Err(err).Str("rawResponse", raw).Msg("Failed to shape generated draft")
		return nil, err
	}
	log.Info().Str("topic", topic).Int("questionCount", len(draft.Questions)).Msg("Quiz draft generated")
	return draft, nil
}

func clampDraftCount(n int) int {
	switch {
	case n <= 0:
		return DefaultDraftQuestions
	case n > MaxDraftQuestions:
		return MaxDraftQuestions
	}
	return n
}

func draftPrompt(topic string, count int) string {
	var b strings.Builder
	b.WriteString("You write short quizzes. Respond with ONLY a JSON object of the form\n")
	b.WriteString(`{"title": string, "questions": [{"text": string, "type": "BOOLEAN" | "INPUT" | "CHECKBOX", "options": [string]}]}`)
	b.WriteString("\nRules:\n")
	fmt.Fprintf(&b, "- Exactly %d questions about: %s\n", count, topic)
	b.WriteString("- BOOLEAN questions are true/false statements and have no options\n")
	b.WriteString("- INPUT questions expect a short free-text answer and have no options\n")
	b.WriteString("- CHECKBOX questions list 2 to 6 answer options\n")
	b.WriteString("- Mix the three types; write in the language of the topic\n")
	return b.String()
}

type draftQuestion struct {
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options"`
}

type draftQuiz struct {
	Title     string          `json:"title"`
	Questions []draftQuestion `json:"questions"`
}

// parseDraft turns model output into a valid creation request, dropping
// questions that cannot be represented. A missing title falls back to topic.
func parseDraft(raw, topic string, limit int) (*dto.CreateQuizRequest, error) {
	var d draftQuiz
	if err := json.Unmarshal([]byte(stripFences(raw)), &d); err != nil {
		return nil, fmt.Errorf("%w: response is not JSON: %v", ErrDraftRejected, err)
	}

	req := &dto.CreateQuizRequest{Title: strings.TrimSpace(d.Title), Questions: []dto.QuestionCreateDTO{}}
	if req.Title == "" {
		req.Title = strings.TrimSpace(topic)
	}
	for _, dq := range d.Questions {
		if len(req.Questions) == limit {
			break
		}
		t, err := question.ParseType(strings.ToUpper(strings.TrimSpace(dq.Type)))
		if err != nil || isBlank(dq.Text) {
			continue
		}
		var opts []string
		for _, o := range dq.Options {
			if !isBlank(o) {
				opts = append(opts, strings.TrimSpace(o))
			}
		}
		if t == question.Checkbox && len(opts) < 2 {
			continue
		}
		req.Questions = append(req.Questions, dto.QuestionCreateDTO{
			Text:    strings.TrimSpace(dq.Text),
			Type:    string(t),
			Options: question.EncodeOptions(t, opts),
		})
	}

	if len(req.Questions) == 0 {
		return nil, fmt.Errorf("%w: no usable questions", ErrDraftRejected)
	}
	if err := ValidateCreateRequest(*req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDraftRejected, err)
	}
	return req, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

type geminiModel struct {
	model *genai.GenerativeModel
}

func (g *geminiModel) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("gemini returned no text")
	}
	return b.String(), nil
}
