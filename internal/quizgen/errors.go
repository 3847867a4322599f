package quizgen

import (
	"errors"
	"fmt"

	"github.com/abhisek/puzzlegen/internal/puzzle"
)

// Failure kinds. Match them with errors.Is.
var (
	// ErrIncomplete means a step could not produce its output, for example
	// because the text generation backend kept failing.
	ErrIncomplete = errors.New("generation incomplete")

	// ErrValidation means a required field was missing and could not be
	// defaulted.
	ErrValidation = errors.New("validation failed")
)

// ErrNoContent is the cause of a CONTENT step that produced no answer.
var ErrNoContent = errors.New("Failed to generate quiz content")

// Failure is the typed error of GenerateCompleteQuiz. It names the step
// and puzzle type that failed and unwraps to both its Kind and the
// originating error.
type Failure struct {
	Step Step
	Type puzzle.Type
	Kind error
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("quizgen: %s step for %s: %v: %v", f.Step, typeLabel(f.Type), f.Kind, f.Err)
}

func (f *Failure) Unwrap() []error {
	out := make([]error, 0, 2)
	if f.Kind != nil {
		out = append(out, f.Kind)
	}
	if f.Err != nil {
		out = append(out, f.Err)
	}
	return out
}

func typeLabel(t puzzle.Type) string {
	if t == "" {
		return "default"
	}
	return string(t)
}
