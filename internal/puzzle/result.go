package puzzle

import "strings"

// Variable keys found in content payloads.
const (
	VarSubtitle      = "subtitle"
	VarBrandingText  = "brandingText"
	VarHint          = "hint"
	VarDescription   = "description"
	VarTheme         = "theme"
	VarSequence      = "sequence"
	VarRhymeWord     = "rhymeWord"
	VarClue          = "clue"
	VarWords         = "words"
	VarWordLength    = "wordLength"
	VarMaxAttempts   = "maxAttempts"
	VarCorrectHint   = "correctHint"
	VarMisplacedHint = "misplacedHint"
	VarWrongHint     = "wrongHint"
	VarTitle         = "title"
	VarSolution      = "solution"
	VarFormula       = "formula"
	VarPatternKind   = "patternKind"
)

// Result is what one strategy call produces. A non-empty Error stops the
// generation with a typed failure.
type Result struct {
	Content   string
	Answer    string
	Error     string
	Metadata  map[string]string
	Variables map[string]any

	// Degraded marks output synthesized after an unusable model answer.
	Degraded bool
}

// Text is a Result carrying only trimmed text.
func Text(s string) *Result {
	return &Result{Content: strings.TrimSpace(s)}
}

// SetMeta records a metadata entry, allocating the map on first use.
func (r *Result) SetMeta(key, value string) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
}

// Var returns a variable as a string, or "".
func (r *Result) Var(key string) string {
	if r == nil {
		return ""
	}
	s, _ := r.Variables[key].(string)
	return s
}

// SetDefault sets a variable only when it is missing or a blank string.
func (r *Result) SetDefault(key string, value any) {
	if r.Variables == nil {
		r.Variables = make(map[string]any)
	}
	switch v := r.Variables[key].(type) {
	case nil:
		r.Variables[key] = value
	case string:
		if strings.TrimSpace(v) == "" {
			r.Variables[key] = value
		}
	}
}
