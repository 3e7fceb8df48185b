// Package view keeps the state of the quiz list and quiz detail screens and
// renders them as plain text.
package view

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/lshigami/quizforge/internal/dto"
)

type State int

const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var ErrNothingPending = errors.New("no delete is awaiting confirmation")

type DashboardAPI interface {
	ListQuizzes(ctx context.Context) ([]dto.QuizSummary, error)
	DeleteQuiz(ctx context.Context, id uint) error
}

type Dashboard struct {
	api DashboardAPI

	State   State
	Quizzes []dto.QuizSummary
	Err     error
	// Notice is the last delete failure shown above the list.
	Notice string

	pending *dto.QuizSummary
}

func NewDashboard(api DashboardAPI) *Dashboard {
	return &Dashboard{api: api, State: Loading}
}

func (d *Dashboard) Load(ctx context.Context) error {
	d.State = Loading
	quizzes, err := d.api.ListQuizzes(ctx)
	if err != nil {
		d.State, d.Err = Failed, err
		return err
	}
	d.State, d.Err, d.Quizzes = Ready, nil, quizzes
	return nil
}

// Retry reloads after a failed load.
func (d *Dashboard) Retry(ctx context.Context) error {
	return d.Load(ctx)
}

// RequestDelete marks a listed quiz for deletion. Nothing is sent until
// ConfirmDelete.
func (d *Dashboard) RequestDelete(id uint) error {
	for i := range d.Quizzes {
		if d.Quizzes[i].ID == id {
			q := d.Quizzes[i]
			d.pending = &q
			return nil
		}
	}
	return fmt.Errorf("quiz %d is not on the dashboard", id)
}

func (d *Dashboard) PendingDelete() (dto.QuizSummary, bool) {
	if d.pending == nil {
		return dto.QuizSummary{}, false
	}
	return *d.pending, true
}

func (d *Dashboard) CancelDelete() { d.pending = nil }

// ConfirmDelete deletes the pending quiz. The card is removed only once
// the API reports success.
func (d *Dashboard) ConfirmDelete(ctx context.Context) error {
	if d.pending == nil {
		return ErrNothingPending
	}
	target := *d.pending
	d.pending = nil

	if err := d.api.DeleteQuiz(ctx, target.ID); err != nil {
		d.Notice = fmt.Sprintf("Failed to delete %q: %v", target.Title, err)
		return err
	}
	d.Notice = ""
	kept := d.Quizzes[:0]
	for _, q := range d.Quizzes {
		if q.ID != target.ID {
			kept = append(kept, q)
		}
	}
	d.Quizzes = kept
	return nil
}

func (d *Dashboard) Render(w io.Writer) error {
	p := &printer{w: w}
	switch d.State {
	case Loading:
		p.line("Loading quizzes...")
	case Failed:
		p.line("Could not load quizzes: %v", d.Err)
		p.line("Retry to try again.")
	case Ready:
		if d.Notice != "" {
			p.line("! %s", d.Notice)
		}
		if len(d.Quizzes) == 0 {
			p.line("No quizzes yet.")
			break
		}
		for _, q := range d.Quizzes {
			p.line("[%d] %s (%s) created %s", q.ID, q.Title, countLabel(q.QuestionCount), q.CreatedAt.Local().Format(dateLayout))
		}
	}
	return p.err
}

const dateLayout = "2006-01-02 15:04"

func countLabel(n int) string {
	if n == 1 {
		return "1 question"
	}
	return fmt.Sprintf("%d questions", n)
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}
