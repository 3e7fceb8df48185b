package controller

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/quizforge/internal/question"
)

var registerOnce sync.Once

// RegisterValidators adds the quiz binding tags to gin's validator.
// It is safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("questiontype", func(fl validator.FieldLevel) bool {
			return question.Type(fl.Field().String()).Valid()
		})
	})
}

// bindingDetails flattens a bind error into one message per failing field.
func bindingDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldMessage(fe))
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), strings.SplitN(fe.Namespace(), ".", 2)[0]+".")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be empty", field)
	case "questiontype":
		return fmt.Sprintf("%s must be one of %s", field, typeList())
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func typeList() string {
	names := make([]string, len(question.Types))
	for i, t := range question.Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
