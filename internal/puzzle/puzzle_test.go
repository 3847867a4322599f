package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
		ok   bool
	}{
		{"WORDLE", Wordle, true},
		{"wordle", Wordle, true},
		{"number-sequence", NumberSequence, true},
		{" Rhyme Time ", RhymeTime, true},
		{"concept_connection", ConceptConnection, true},
		{"crossword", Type("CROSSWORD"), false},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		if tt.ok {
			assert.NoError(t, err, tt.in)
		} else {
			assert.Error(t, err, tt.in)
		}
	}
}

func TestTypeLabels(t *testing.T) {
	assert.Equal(t, "Number Sequence", NumberSequence.Label())
	assert.Equal(t, "Puzzle", Type("CROSSWORD").Label())
	assert.Equal(t, "rhyme_time", RhymeTime.Slug())
	assert.Equal(t, "default", Type("").Slug())
	for _, typ := range Types {
		assert.True(t, typ.Known())
	}
}

func TestGenerationContextIsNotShared(t *testing.T) {
	opts := map[string]any{OptAnswer: "CRANE"}
	gc := NewContext(Wordle, "", "birds", FieldTitle, opts)

	opts[OptAnswer] = "mutated"
	assert.Equal(t, "CRANE", gc.String(OptAnswer))
	assert.Equal(t, "English", gc.Language)

	hint := gc.ForField(FieldHint).With(OptTitle, "Bird Words")
	assert.Equal(t, FieldHint, hint.Field)
	assert.Equal(t, "Bird Words", hint.String(OptTitle))

	// The original is untouched.
	assert.Equal(t, FieldTitle, gc.Field)
	assert.Empty(t, gc.String(OptTitle))
}

func TestGenerationContextAccessors(t *testing.T) {
	gc := NewContext(NumberSequence, "French", "maths", FieldSolution, map[string]any{
		OptSequence: []int64{1, 2, 3},
		OptWords:    []any{"a", 1, "b"},
		OptAvoid:    []string{"x"},
		"count":     int64(7),
	})

	assert.Equal(t, []int64{1, 2, 3}, gc.Ints(OptSequence))
	assert.Equal(t, []string{"a", "b"}, gc.Strings(OptWords))
	assert.Equal(t, []string{"x"}, gc.Strings(OptAvoid))
	assert.Equal(t, "7", gc.String("count"))
	assert.Nil(t, gc.Ints(OptWords))

	v, ok := gc.Option(OptSequence)
	require.True(t, ok)
	assert.Len(t, v, 3)
}

func TestResultHelpers(t *testing.T) {
	r := &Result{}
	r.SetMeta("k", "v")
	assert.Equal(t, "v", r.Metadata["k"])

	r.SetDefault(VarSubtitle, "fallback")
	assert.Equal(t, "fallback", r.Var(VarSubtitle))

	r.Variables[VarHint] = "  "
	r.SetDefault(VarHint, "look closer")
	assert.Equal(t, "look closer", r.Var(VarHint))

	r.SetDefault(VarSubtitle, "ignored")
	assert.Equal(t, "fallback", r.Var(VarSubtitle))

	var nilResult *Result
	assert.Empty(t, nilResult.Var(VarHint))
}
