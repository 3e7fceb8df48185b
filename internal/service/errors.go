package service

import (
	"errors"
	"strings"
)

// ErrNotFound is wrapped by every lookup or delete on an absent quiz.
var ErrNotFound = errors.New("quiz not found")

// ValidationError collects every problem found in a request. It is
// returned before anything reaches the store.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid request"
	}
	return "invalid request: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(problem string) {
	e.Problems = append(e.Problems, problem)
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
