// Package question models the three question kinds and owns the convention
// used to store their options in a single text column.
package question

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Type string

const (
	Boolean  Type = "BOOLEAN"
	Input    Type = "INPUT"
	Checkbox Type = "CHECKBOX"
)

// Types lists every accepted type in display order.
var Types = []Type{Boolean, Input, Checkbox}

var (
	BooleanOptions         = []string{"True", "False"}
	DefaultCheckboxOptions = []string{"Option A", "Option B", "Option C", "Option D"}
)

// ParseType is case-sensitive: "boolean" is not a valid type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown question type %q (expected one of BOOLEAN, INPUT, CHECKBOX)", s)
	}
	return t, nil
}

func (t Type) Valid() bool {
	switch t {
	case Boolean, Input, Checkbox:
		return true
	}
	return false
}

// Label is the human readable badge shown next to a question.
func (t Type) Label() string {
	switch t {
	case Boolean:
		return "True/False"
	case Input:
		return "Free text"
	case Checkbox:
		return "Multiple choice"
	}
	return string(t)
}

// Body is the type-specific part of a question.
type Body interface {
	Type() Type
	Options() []string
}

type BooleanBody struct{}

func (BooleanBody) Type() Type { return Boolean }

func (BooleanBody) Options() []string {
	return append([]string(nil), BooleanOptions...)
}

type InputBody struct{}

func (InputBody) Type() Type        { return Input }
func (InputBody) Options() []string { return nil }

type CheckboxBody struct {
	Choices []string
}

func (CheckboxBody) Type() Type { return Checkbox }

func (b CheckboxBody) Options() []string {
	return append([]string(nil), b.Choices...)
}

// Default returns the body used when a caller supplies no options.
func Default(t Type) Body {
	switch t {
	case Boolean:
		return BooleanBody{}
	case Checkbox:
		return CheckboxBody{Choices: append([]string(nil), DefaultCheckboxOptions...)}
	}
	return InputBody{}
}

// Encode renders a body into its stored form. Input bodies are stored as
// the empty string, every other body as a JSON array of strings.
func Encode(b Body) string {
	if b == nil || b.Type() == Input {
		return ""
	}
	opts := b.Options()
	if opts == nil {
		opts = []string{}
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		// a []string always marshals
		panic(err)
	}
	return string(raw)
}

// EncodeOptions encodes a raw option list for the given type.
func EncodeOptions(t Type, opts []string) string {
	switch t {
	case Boolean:
		return Encode(BooleanBody{})
	case Checkbox:
		return Encode(CheckboxBody{Choices: opts})
	}
	return ""
}

// Decode parses a stored options string strictly.
func Decode(t Type, stored string) (Body, error) {
	switch t {
	case Input:
		return InputBody{}, nil
	case Boolean:
		if _, err := parseList(stored); err != nil {
			return nil, err
		}
		return BooleanBody{}, nil
	case Checkbox:
		opts, err := parseList(stored)
		if err != nil {
			return nil, err
		}
		return CheckboxBody{Choices: opts}, nil
	}
	return nil, fmt.Errorf("unknown question type %q", string(t))
}

// DecodeOptions never fails: blank or malformed input yields an empty list.
func DecodeOptions(stored string) []string {
	opts, err := parseList(stored)
	if err != nil {
		return []string{}
	}
	return opts
}

// ValidOptions reports whether s is a JSON array of strings.
func ValidOptions(s string) error {
	_, err := parseList(s)
	return err
}

// ResolveOptions picks the stored options for a new question. Supplied
// non-blank options are kept verbatim once they parse; otherwise the
// type's default is encoded. Input questions always store "".
func ResolveOptions(t Type, supplied string) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("unknown question type %q", string(t))
	}
	if t == Input {
		return "", nil
	}
	if strings.TrimSpace(supplied) != "" {
		if err := ValidOptions(supplied); err != nil {
			return "", err
		}
		return supplied, nil
	}
	return Encode(Default(t)), nil
}

func parseList(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return []string{}, nil
	}
	var opts []string
	if err := json.Unmarshal([]byte(s), &opts); err != nil {
		return nil, fmt.Errorf("options must be a JSON array of strings: %w", err)
	}
	if opts == nil {
		// "null"
		return nil, fmt.Errorf("options must be a JSON array of strings, got null")
	}
	return opts, nil
}
