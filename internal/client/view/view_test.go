package view

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lshigami/quizforge/internal/client"
	"github.com/lshigami/quizforge/internal/dto"
	"github.com/lshigami/quizforge/internal/question"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	quizzes   []dto.QuizSummary
	listErr   error
	deleteErr error
	deleted   []uint
	quiz      *dto.QuizResponse
	getErr    error
}

func (f *fakeAPI) ListQuizzes(context.Context) ([]dto.QuizSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]dto.QuizSummary(nil), f.quizzes...), nil
}

func (f *fakeAPI) DeleteQuiz(_ context.Context, id uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) GetQuiz(context.Context, uint) (*dto.QuizResponse, error) {
	return f.quiz, f.getErr
}

var created = time.Date(2026, 10, 17, 9, 30, 0, 0, time.Local)

func summaries() []dto.QuizSummary {
	return []dto.QuizSummary{
		{ID: 2, Title: "Five", QuestionCount: 5, CreatedAt: created},
		{ID: 1, Title: "One", QuestionCount: 1, CreatedAt: created},
	}
}

func TestDashboardLoadFailureThenRetry(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("connection refused")}
	d := NewDashboard(api)
	assert.Equal(t, Loading, d.State)

	require.Error(t, d.Load(context.Background()))
	assert.Equal(t, Failed, d.State)

	var out bytes.Buffer
	require.NoError(t, d.Render(&out))
	assert.Contains(t, out.String(), "connection refused")
	assert.Contains(t, out.String(), "Retry")

	api.listErr = nil
	api.quizzes = summaries()
	require.NoError(t, d.Retry(context.Background()))
	assert.Equal(t, Ready, d.State)
	assert.Nil(t, d.Err)
	assert.Len(t, d.Quizzes, 2)
}

func TestDashboardRender(t *testing.T) {
	d := NewDashboard(&fakeAPI{quizzes: summaries()})
	require.NoError(t, d.Load(context.Background()))

	var out bytes.Buffer
	require.NoError(t, d.Render(&out))
	assert.Equal(t,
		"[2] Five (5 questions) created 2026-10-17 09:30\n"+
			"[1] One (1 question) created 2026-10-17 09:30\n",
		out.String())

	empty := NewDashboard(&fakeAPI{})
	require.NoError(t, empty.Load(context.Background()))
	out.Reset()
	require.NoError(t, empty.Render(&out))
	assert.Equal(t, "No quizzes yet.\n", out.String())
}

func TestDashboardDeleteNeedsConfirmation(t *testing.T) {
	api := &fakeAPI{quizzes: summaries()}
	d := NewDashboard(api)
	require.NoError(t, d.Load(context.Background()))

	assert.ErrorIs(t, d.ConfirmDelete(context.Background()), ErrNothingPending)
	assert.Error(t, d.RequestDelete(99))

	require.NoError(t, d.RequestDelete(2))
	pending, ok := d.PendingDelete()
	require.True(t, ok)
	assert.Equal(t, "Five", pending.Title)

	d.CancelDelete()
	_, ok = d.PendingDelete()
	assert.False(t, ok)
	assert.Empty(t, api.deleted)
	assert.Len(t, d.Quizzes, 2)

	require.NoError(t, d.RequestDelete(2))
	require.NoError(t, d.ConfirmDelete(context.Background()))
	assert.Equal(t, []uint{2}, api.deleted)
	require.Len(t, d.Quizzes, 1)
	assert.Equal(t, uint(1), d.Quizzes[0].ID)
}

func TestDashboardKeepsCardWhenDeleteFails(t *testing.T) {
	api := &fakeAPI{quizzes: summaries(), deleteErr: &client.APIError{StatusCode: http.StatusInternalServerError}}
	d := NewDashboard(api)
	require.NoError(t, d.Load(context.Background()))

	require.NoError(t, d.RequestDelete(1))
	require.Error(t, d.ConfirmDelete(context.Background()))
	assert.Len(t, d.Quizzes, 2)
	assert.Contains(t, d.Notice, `"One"`)

	var out bytes.Buffer
	require.NoError(t, d.Render(&out))
	assert.Contains(t, out.String(), "! Failed to delete")
}

func TestPresentDecodesPerType(t *testing.T) {
	b := Present(1, dto.QuestionResponse{Text: "t", Type: "BOOLEAN", Options: "garbage"})
	assert.Equal(t, []string{"True", "False"}, b.Choices)

	in := Present(2, dto.QuestionResponse{Text: "t", Type: "INPUT", Options: ""})
	assert.Empty(t, in.Choices)
	assert.Equal(t, "Free text", in.Label)

	box := Present(3, dto.QuestionResponse{Text: "t", Type: "CHECKBOX", Options: `["a","b"]`})
	assert.Equal(t, []string{"a", "b"}, box.Choices)

	broken := Present(4, dto.QuestionResponse{Text: "t", Type: "CHECKBOX", Options: "{not json"})
	assert.Empty(t, broken.Choices)
}

func TestDetailRender(t *testing.T) {
	quiz := &dto.QuizResponse{ID: 1, Title: "Capitals", CreatedAt: created, Questions: []dto.QuestionResponse{
		{Text: "Is Paris the capital of France?", Type: string(question.Boolean), Options: `["True","False"]`},
		{Text: "Capital of Peru?", Type: string(question.Input)},
		{Text: "Nordic capitals", Type: string(question.Checkbox), Options: `["Oslo","Helsinki"]`},
		{Text: "Broken", Type: string(question.Checkbox), Options: ""},
	}}
	d := NewDetail(&fakeAPI{quiz: quiz})
	require.NoError(t, d.Load(context.Background(), 1))

	var out bytes.Buffer
	require.NoError(t, d.Render(&out))
	want := "Capitals\n" +
		"4 questions, created 2026-10-17 09:30\n" +
		"\n1. Is Paris the capital of France?  [True/False]\n" +
		"   ( ) True  ( ) False\n" +
		"\n2. Capital of Peru?  [Free text]\n" +
		"   Free-text answer\n" +
		"\n3. Nordic capitals  [Multiple choice]\n" +
		"   [ ] Oslo\n" +
		"   [ ] Helsinki\n" +
		"\n4. Broken  [Multiple choice]\n" +
		"   (no options)\n"
	assert.Equal(t, want, out.String())
}

func TestDetailNotFound(t *testing.T) {
	d := NewDetail(&fakeAPI{getErr: &client.APIError{StatusCode: http.StatusNotFound, Message: "quiz not found"}})
	require.Error(t, d.Load(context.Background(), 999))
	assert.Equal(t, Failed, d.State)
	assert.Nil(t, d.Questions())

	var out bytes.Buffer
	require.NoError(t, d.Render(&out))
	assert.Equal(t, "Quiz not found.\n", out.String())
}
