package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lshigami/quizforge/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeModel) GenerateJSON(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

const sampleDraft = "```json\n" + `{
  "title": "Capitals",
  "questions": [
    {"text": "Paris is the capital of France", "type": "boolean"},
    {"text": "Name the capital of Italy", "type": "INPUT", "options": ["Rome"]},
    {"text": "Pick the Nordic capitals", "type": "CHECKBOX", "options": ["Oslo", " ", "Madrid", "Helsinki"]},
    {"text": "Only one option", "type": "CHECKBOX", "options": ["lonely"]},
    {"text": "", "type": "BOOLEAN"},
    {"text": "Unknown", "type": "RADIO"}
  ]
}` + "\n```"

func TestGenerateShapesDraft(t *testing.T) {
	m := &fakeModel{reply: sampleDraft}
	g := newQuizGeneratorWithModel(m)

	draft, err := g.Generate(context.Background(), "European capitals", 4)
	require.NoError(t, err)
	assert.Contains(t, m.prompt, "Exactly 4 questions about: European capitals")

	assert.Equal(t, "Capitals", draft.Title)
	require.Len(t, draft.Questions, 3)
	assert.Equal(t, "BOOLEAN", draft.Questions[0].Type)
	assert.Equal(t, `["True","False"]`, draft.Questions[0].Options)
	assert.Equal(t, "INPUT", draft.Questions[1].Type)
	assert.Equal(t, "", draft.Questions[1].Options)
	assert.Equal(t, `["Oslo","Madrid","Helsinki"]`, draft.Questions[2].Options)
	assert.NoError(t, ValidateCreateRequest(*draft))
}

func TestGenerateRespectsLimitAndTitleFallback(t *testing.T) {
	reply := `{"questions": [
		{"text": "a", "type": "INPUT"},
		{"text": "b", "type": "INPUT"},
		{"text": "c", "type": "INPUT"}
	]}`
	g := newQuizGeneratorWithModel(&fakeModel{reply: reply})

	draft, err := g.Generate(context.Background(), "  Letters ", 2)
	require.NoError(t, err)
	assert.Equal(t, "Letters", draft.Title)
	assert.Len(t, draft.Questions, 2)
}

func TestGenerateRejectsUnusableOutput(t *testing.T) {
	for name, reply := range map[string]string{
		"not json":     "Sure! Here is your quiz.",
		"no questions": `{"title": "x", "questions": []}`,
		"all invalid":  `{"title": "x", "questions": [{"text": "", "type": "INPUT"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			g := newQuizGeneratorWithModel(&fakeModel{reply: reply})
			_, err := g.Generate(context.Background(), "topic", 3)
			assert.ErrorIs(t, err, ErrDraftRejected)
		})
	}
}

func TestGenerateUpstreamFailure(t *testing.T) {
	g := newQuizGeneratorWithModel(&fakeModel{err: errors.New("quota exceeded")})
	_, err := g.Generate(context.Background(), "topic", 3)
	assert.ErrorIs(t, err, ErrDraftRejected)
	assert.True(t, strings.Contains(err.Error(), "quota exceeded"))
}

func TestGenerateBlankTopic(t *testing.T) {
	g := newQuizGeneratorWithModel(&fakeModel{reply: sampleDraft})
	_, err := g.Generate(context.Background(), " ", 3)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGeneratorUnavailableWithoutKey(t *testing.T) {
	g, err := NewQuizGenerator(&config.Config{})
	require.NoError(t, err)
	assert.False(t, g.Available())
	assert.NoError(t, g.Close())

	_, err = g.Generate(context.Background(), "topic", 3)
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)
}

func TestClampDraftCount(t *testing.T) {
	assert.Equal(t, DefaultDraftQuestions, clampDraftCount(0))
	assert.Equal(t, 7, clampDraftCount(7))
	assert.Equal(t, MaxDraftQuestions, clampDraftCount(100))
}
