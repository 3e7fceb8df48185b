package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/quizforge/database"
	"github.com/lshigami/quizforge/internal/dto"
	"github.com/lshigami/quizforge/internal/model"
	"github.com/lshigami/quizforge/internal/question"
	"github.com/lshigami/quizforge/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) QuizService {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))
	return NewQuizService(repository.NewQuizRepository(db))
}

func questions(n int) []dto.QuestionCreateDTO {
	out := make([]dto.QuestionCreateDTO, n)
	for i := range out {
		out[i] = dto.QuestionCreateDTO{Text: "q", Type: string(question.Input)}
	}
	return out
}

func TestCreatePreservesCountTypesAndOrder(t *testing.T) {
	svc := newTestService(t)
	req := dto.CreateQuizRequest{Title: "Mixed", Questions: []dto.QuestionCreateDTO{
		{Text: "first", Type: "CHECKBOX", Options: `["a","b"]`},
		{Text: "second", Type: "BOOLEAN"},
		{Text: "third", Type: "INPUT"},
	}}

	got, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "Mixed", got.Title)
	assert.False(t, got.CreatedAt.IsZero())
	require.Len(t, got.Questions, 3)
	for i, q := range got.Questions {
		assert.Equal(t, req.Questions[i].Type, q.Type)
		assert.Equal(t, req.Questions[i].Text, q.Text)
		assert.Equal(t, got.ID, q.QuizID)
		assert.NotZero(t, q.ID)
	}
	assert.Equal(t, `["a","b"]`, got.Questions[0].Options)
	assert.Equal(t, `["True","False"]`, got.Questions[1].Options)
	assert.Equal(t, "", got.Questions[2].Options)
}

func TestCreateAppliesDefaultOptions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	got, err := svc.Create(ctx, dto.CreateQuizRequest{Title: "Defaults", Questions: []dto.QuestionCreateDTO{
		{Text: "pick", Type: "CHECKBOX"},
		{Text: "truth", Type: "BOOLEAN", Options: "  "},
		{Text: "type it", Type: "INPUT", Options: `["ignored"]`},
	}})
	require.NoError(t, err)

	stored, err := svc.FindOne(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Option A", "Option B", "Option C", "Option D"}, question.DecodeOptions(stored.Questions[0].Options))
	assert.Equal(t, []string{"True", "False"}, question.DecodeOptions(stored.Questions[1].Options))
	assert.Equal(t, "", stored.Questions[2].Options)
}

func TestCreateValidation(t *testing.T) {
	cases := map[string]dto.CreateQuizRequest{
		"blank title":      {Title: "   ", Questions: questions(1)},
		"blank text":       {Title: "T", Questions: []dto.QuestionCreateDTO{{Text: "", Type: "INPUT"}}},
		"lowercase type":   {Title: "T", Questions: []dto.QuestionCreateDTO{{Text: "x", Type: "boolean"}}},
		"unknown type":     {Title: "T", Questions: []dto.QuestionCreateDTO{{Text: "x", Type: "RADIO"}}},
		"malformed option": {Title: "T", Questions: []dto.QuestionCreateDTO{{Text: "x", Type: "CHECKBOX", Options: "a,b"}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newTestService(t)
			_, err := svc.Create(context.Background(), req)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.NotEmpty(t, verr.Problems)

			all, err := svc.FindAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all, "nothing may reach the store")
		})
	}
}

func TestCreateReportsEveryProblem(t *testing.T) {
	err := ValidateCreateRequest(dto.CreateQuizRequest{Title: "", Questions: []dto.QuestionCreateDTO{
		{Text: "", Type: "INPUT"},
		{Text: "ok", Type: "NOPE"},
	}})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 3)
	assert.Contains(t, verr.Error(), "question 2")
}

func TestCreateAllowsEmptyQuestionList(t *testing.T) {
	svc := newTestService(t)
	got, err := svc.Create(context.Background(), dto.CreateQuizRequest{Title: "Empty", Questions: []dto.QuestionCreateDTO{}})
	require.NoError(t, err)
	assert.NotNil(t, got.Questions)
	assert.Empty(t, got.Questions)
}

func TestFindAllCountsQuestions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateQuizRequest{Title: "Two", Questions: questions(2)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateQuizRequest{Title: "Five", Questions: questions(5)})
	require.NoError(t, err)

	summaries, err := svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	counts := map[string]int{}
	for _, s := range summaries {
		counts[s.Title] = s.QuestionCount
		assert.False(t, s.CreatedAt.IsZero())
	}
	assert.Equal(t, map[string]int{"Two": 2, "Five": 5}, counts)
}

func TestFindAllEmptyIsNotNil(t *testing.T) {
	summaries, err := newTestService(t).FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestFindOneMissing(t *testing.T) {
	_, err := newTestService(t).FindOne(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveTwiceIsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateQuizRequest{Title: "Gone", Questions: questions(3)})
	require.NoError(t, err)

	removed, err := svc.Remove(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)
	assert.Equal(t, "Gone", removed.Title)
	assert.Len(t, removed.Questions, 3)

	_, err = svc.FindOne(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Remove(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

type failingRepo struct {
	repository.QuizRepository
	err error
}

func (f failingRepo) FindByIDWithQuestions(context.Context, uint) (*model.Quiz, error) {
	return nil, f.err
}

func TestStoreErrorsAreNotNotFound(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewQuizService(failingRepo{err: boom})

	_, err := svc.FindOne(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}
