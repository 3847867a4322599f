package puzzle

import (
	"maps"
	"strconv"
	"strings"
)

// Option keys the orchestrator passes from earlier steps to later ones.
const (
	OptTitle     = "title"
	OptAnswer    = "answer"
	OptContent   = "content"
	OptSequence  = "sequence"
	OptRhymeWord = "rhymeWord"
	OptWords     = "words"
	OptAvoid     = "avoid"
)

// GenerationContext is the input of one strategy call. It is built by
// NewContext and never modified; With returns a copy.
type GenerationContext struct {
	Type     Type
	Language string
	Theme    string
	Field    Field
	options  map[string]any
}

// NewContext copies opts so later changes by the caller are not seen.
func NewContext(t Type, language, theme string, field Field, opts map[string]any) GenerationContext {
	if language == "" {
		language = "English"
	}
	return GenerationContext{
		Type:     t,
		Language: language,
		Theme:    theme,
		Field:    field,
		options:  maps.Clone(opts),
	}
}

// ForField returns a copy of gc targeting another field.
func (gc GenerationContext) ForField(f Field) GenerationContext {
	gc.options = maps.Clone(gc.options)
	gc.Field = f
	return gc
}

// With returns a copy of gc with one extra option.
func (gc GenerationContext) With(key string, value any) GenerationContext {
	opts := maps.Clone(gc.options)
	if opts == nil {
		opts = make(map[string]any, 1)
	}
	opts[key] = value
	gc.options = opts
	return gc
}

// Option returns the raw option value.
func (gc GenerationContext) Option(key string) (any, bool) {
	v, ok := gc.options[key]
	return v, ok
}

// String returns an option as trimmed text, or "" when absent.
func (gc GenerationContext) String(key string) string {
	switch v := gc.options[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case nil:
		return ""
	}
	return ""
}

// Strings returns a list option, or nil.
func (gc GenerationContext) Strings(key string) []string {
	switch v := gc.options[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Ints returns an integer list option, or nil.
func (gc GenerationContext) Ints(key string) []int64 {
	if v, ok := gc.options[key].([]int64); ok {
		return v
	}
	return nil
}
