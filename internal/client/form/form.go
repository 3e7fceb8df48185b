// Package form holds the editable state of a quiz being authored. Entries
// carry stable ids so removing one never re-keys the others.
package form

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lshigami/quizforge/internal/dto"
	"github.com/lshigami/quizforge/internal/question"
)

var (
	ErrUnknownEntry = errors.New("no question entry with that id")
	ErrNotCheckbox  = errors.New("only multiple choice questions have editable options")
	ErrOptionIndex  = errors.New("option index out of range")
)

type Entry struct {
	ID      string
	Type    question.Type
	Text    string
	Options []string
}

type Form struct {
	Title   string
	entries []*Entry
}

// New returns a form with one blank true/false question.
func New() *Form {
	f := &Form{}
	f.AddQuestion()
	return f
}

// FromDraft loads a generated draft so it can be reviewed before submitting.
func FromDraft(req dto.CreateQuizRequest) *Form {
	f := &Form{Title: req.Title}
	for _, q := range req.Questions {
		t, err := question.ParseType(q.Type)
		if err != nil {
			t = question.Boolean
		}
		e := newEntry()
		e.Type = t
		e.Text = q.Text
		if t == question.Checkbox {
			if opts := question.DecodeOptions(q.Options); len(opts) > 0 {
				e.Options = opts
			}
		}
		f.entries = append(f.entries, e)
	}
	if len(f.entries) == 0 {
		f.AddQuestion()
	}
	return f
}

func newEntry() *Entry {
	return &Entry{ID: uuid.NewString(), Type: question.Boolean, Options: []string{""}}
}

// Entries returns a copy of the current entries in order.
func (f *Form) Entries() []Entry {
	out := make([]Entry, len(f.entries))
	for i, e := range f.entries {
		out[i] = *e
		out[i].Options = append([]string(nil), e.Options...)
	}
	return out
}

func (f *Form) Len() int { return len(f.entries) }

func (f *Form) SetTitle(title string) { f.Title = title }

// AddQuestion appends a true/false entry and returns its id.
func (f *Form) AddQuestion() string {
	e := newEntry()
	f.entries = append(f.entries, e)
	return e.ID
}

// RemoveQuestion drops an entry. Removing the only entry is a no-op.
func (f *Form) RemoveQuestion(id string) error {
	i, err := f.index(id)
	if err != nil {
		return err
	}
	if len(f.entries) == 1 {
		return nil
	}
	f.entries = append(f.entries[:i], f.entries[i+1:]...)
	return nil
}

// SetType changes an entry's kind. Switching to CHECKBOX starts over with a
// single blank option.
func (f *Form) SetType(id string, t question.Type) error {
	e, err := f.entry(id)
	if err != nil {
		return err
	}
	if !t.Valid() {
		return fmt.Errorf("unknown question type %q", string(t))
	}
	e.Type = t
	if t == question.Checkbox {
		e.Options = []string{""}
	}
	return nil
}

func (f *Form) SetText(id, text string) error {
	e, err := f.entry(id)
	if err != nil {
		return err
	}
	e.Text = text
	return nil
}

func (f *Form) AddOption(id string) error {
	e, err := f.checkbox(id)
	if err != nil {
		return err
	}
	e.Options = append(e.Options, "")
	return nil
}

// RemoveOption keeps at least one option slot.
func (f *Form) RemoveOption(id string, idx int) error {
	e, err := f.checkbox(id)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(e.Options) {
		return ErrOptionIndex
	}
	if len(e.Options) == 1 {
		return nil
	}
	e.Options = append(e.Options[:idx], e.Options[idx+1:]...)
	return nil
}

func (f *Form) SetOption(id string, idx int, value string) error {
	e, err := f.checkbox(id)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(e.Options) {
		return ErrOptionIndex
	}
	e.Options[idx] = value
	return nil
}

// Errors lists field problems. Entries is keyed by entry id.
type Errors struct {
	Title   string
	Entries map[string][]string
}

func (e *Errors) Error() string {
	var parts []string
	if e.Title != "" {
		parts = append(parts, "title: "+e.Title)
	}
	ids := make([]string, 0, len(e.Entries))
	for id := range e.Entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("question %s: %s", id, strings.Join(e.Entries[id], ", ")))
	}
	return "form is incomplete: " + strings.Join(parts, "; ")
}

// Validate returns *Errors when the title, any question text or any
// multiple choice option is blank.
func (f *Form) Validate() error {
	errs := &Errors{Entries: map[string][]string{}}
	if blank(f.Title) {
		errs.Title = "Quiz title is required"
	}
	for _, e := range f.entries {
		var problems []string
		if blank(e.Text) {
			problems = append(problems, "Question is required")
		}
		if e.Type == question.Checkbox {
			for i, o := range e.Options {
				if blank(o) {
					problems = append(problems, fmt.Sprintf("Option %d is required", i+1))
				}
			}
		}
		if len(problems) > 0 {
			errs.Entries[e.ID] = problems
		}
	}
	if errs.Title == "" && len(errs.Entries) == 0 {
		return nil
	}
	return errs
}

// Request renders the form into the creation payload.
func (f *Form) Request() dto.CreateQuizRequest {
	req := dto.CreateQuizRequest{Title: f.Title, Questions: make([]dto.QuestionCreateDTO, 0, len(f.entries))}
	for _, e := range f.entries {
		req.Questions = append(req.Questions, dto.QuestionCreateDTO{
			Text:    e.Text,
			Type:    string(e.Type),
			Options: question.EncodeOptions(e.Type, e.Options),
		})
	}
	return req
}

type Creator interface {
	CreateQuiz(ctx context.Context, req dto.CreateQuizRequest) (*dto.QuizResponse, error)
}

// Submit validates and sends the form. The form is left untouched on any
// failure so the user can correct it and try again.
func (f *Form) Submit(ctx context.Context, c Creator) (*dto.QuizResponse, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	quiz, err := c.CreateQuiz(ctx, f.Request())
	if err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

func (f *Form) index(id string) (int, error) {
	for i, e := range f.entries {
		if e.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
}

func (f *Form) entry(id string) (*Entry, error) {
	i, err := f.index(id)
	if err != nil {
		return nil, err
	}
	return f.entries[i], nil
}

func (f *Form) checkbox(id string) (*Entry, error) {
	e, err := f.entry(id)
	if err != nil {
		return nil, err
	}
	if e.Type != question.Checkbox {
		return nil, ErrNotCheckbox
	}
	return e, nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
