package view

import (
	"context"
	"io"
	"strings"

	"github.com/lshigami/quizforge/internal/client"
	"github.com/lshigami/quizforge/internal/dto"
	"github.com/lshigami/quizforge/internal/question"
)

type DetailAPI interface {
	GetQuiz(ctx context.Context, id uint) (*dto.QuizResponse, error)
}

type Detail struct {
	api DetailAPI

	State State
	Quiz  *dto.QuizResponse
	Err   error
}

func NewDetail(api DetailAPI) *Detail {
	return &Detail{api: api, State: Loading}
}

func (d *Detail) Load(ctx context.Context, id uint) error {
	d.State = Loading
	quiz, err := d.api.GetQuiz(ctx, id)
	if err != nil {
		d.State, d.Err, d.Quiz = Failed, err, nil
		return err
	}
	d.State, d.Err, d.Quiz = Ready, nil, quiz
	return nil
}

// QuestionView is the read-only presentation of one question.
type QuestionView struct {
	Number  int
	Text    string
	Type    question.Type
	Label   string
	Choices []string
}

// Present decodes a question for display. Options that are blank or
// malformed show as an empty choice list.
func Present(n int, q dto.QuestionResponse) QuestionView {
	t := question.Type(q.Type)
	v := QuestionView{Number: n, Text: q.Text, Type: t, Label: t.Label()}
	switch t {
	case question.Boolean:
		v.Choices = append([]string(nil), question.BooleanOptions...)
	case question.Input:
	default:
		v.Choices = question.DecodeOptions(q.Options)
	}
	return v
}

func (d *Detail) Questions() []QuestionView {
	if d.Quiz == nil {
		return nil
	}
	out := make([]QuestionView, len(d.Quiz.Questions))
	for i, q := range d.Quiz.Questions {
		out[i] = Present(i+1, q)
	}
	return out
}

func (d *Detail) Render(w io.Writer) error {
	p := &printer{w: w}
	switch d.State {
	case Loading:
		p.line("Loading quiz...")
	case Failed:
		if client.IsNotFound(d.Err) {
			p.line("Quiz not found.")
		} else {
			p.line("Could not load quiz: %v", d.Err)
		}
	case Ready:
		q := d.Quiz
		p.line("%s", q.Title)
		p.line("%s, created %s", countLabel(len(q.Questions)), q.CreatedAt.Local().Format(dateLayout))
		for _, v := range d.Questions() {
			p.line("")
			p.line("%d. %s  [%s]", v.Number, v.Text, v.Label)
			renderChoices(p, v)
		}
	}
	return p.err
}

func renderChoices(p *printer, v QuestionView) {
	switch v.Type {
	case question.Boolean:
		marks := make([]string, len(v.Choices))
		for i, c := range v.Choices {
			marks[i] = "( ) " + c
		}
		p.line("   %s", strings.Join(marks, "  "))
	case question.Input:
		p.line("   Free-text answer")
	default:
		if len(v.Choices) == 0 {
			p.line("   (no options)")
		}
		for _, c := range v.Choices {
			p.line("   [ ] %s", c)
		}
	}
}
