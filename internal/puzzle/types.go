// Package puzzle holds the data shared by every stage of quiz generation.
package puzzle

import (
	"fmt"
	"strings"
)

// Type selects the strategy and prompt templates for a quiz.
type Type string

const (
	Wordle            Type = "WORDLE"
	NumberSequence    Type = "NUMBER_SEQUENCE"
	RhymeTime         Type = "RHYME_TIME"
	ConceptConnection Type = "CONCEPT_CONNECTION"
)

// Types lists the known puzzle types in display order.
var Types = []Type{Wordle, NumberSequence, RhymeTime, ConceptConnection}

// ParseType accepts any case and "-", "_" or space as separators.
// Unknown names are returned as-is together with an error, so callers that
// tolerate unknown types (the default strategy) can still use the value.
func ParseType(s string) (Type, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	t := Type(norm)
	if !t.Known() {
		return t, fmt.Errorf("unknown puzzle type %q", s)
	}
	return t, nil
}

// Known reports whether t is one of the four supported types.
func (t Type) Known() bool {
	switch t {
	case Wordle, NumberSequence, RhymeTime, ConceptConnection:
		return true
	}
	return false
}

// Label is the human-readable name, e.g. "Number Sequence".
func (t Type) Label() string {
	switch t {
	case Wordle:
		return "Wordle"
	case NumberSequence:
		return "Number Sequence"
	case RhymeTime:
		return "Rhyme Time"
	case ConceptConnection:
		return "Concept Connection"
	}
	return "Puzzle"
}

// Slug is the lower-case form used in purpose labels and metric labels.
func (t Type) Slug() string {
	if t == "" {
		return "default"
	}
	return strings.ToLower(string(t))
}

// Field names the part of a quiz a generation call produces.
type Field string

const (
	FieldTitle        Field = "title"
	FieldSubtitle     Field = "subtitle"
	FieldBrandingText Field = "brandingText"
	FieldContent      Field = "content"
	FieldHint         Field = "hint"
	FieldSolution     Field = "solution"
)
