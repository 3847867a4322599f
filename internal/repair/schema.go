package repair

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/puzzlegen/internal/puzzle"
)

// schemaCache caches compiled content schemas by puzzle type.
var schemaCache sync.Map // map[puzzle.Type]*jsonschema.Schema

// Violations checks a decoded content payload against the schema of its
// puzzle type and returns the JSON pointers of the offending locations,
// sorted. It returns nil when the payload conforms.
func Violations(t puzzle.Type, payload any) ([]string, error) {
	compiled, err := compiledSchema(t)
	if err != nil {
		return nil, err
	}

	verr := compiled.Validate(payload)
	if verr == nil {
		return nil, nil
	}
	ve, ok := verr.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("validate %s content: %w", t.Slug(), verr)
	}

	seen := make(map[string]bool)
	collectLeaves(ve, seen)
	out := make([]string, 0, len(seen))
	for loc := range seen {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out, nil
}

func collectLeaves(ve *jsonschema.ValidationError, seen map[string]bool) {
	if len(ve.Causes) == 0 {
		loc := "/" + strings.Join(ve.InstanceLocation, "/")
		seen[loc] = true
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, seen)
	}
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(t puzzle.Type) (*jsonschema.Schema, error) {
	key := t
	if !key.Known() {
		key = ""
	}
	if cached, ok := schemaCache.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, so round-trip the Go map.
	defBytes, err := json.Marshal(contentSchema(key))
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	def, err := jsonschema.UnmarshalJSON(strings.NewReader(string(defBytes)))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://puzzlegen/%s.json", key.Slug())
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(key, compiled)
	return compiled, nil
}

func str() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

// contentSchema describes the content payload each prompt asks for.
func contentSchema(t puzzle.Type) map[string]any {
	vars := map[string]any{
		puzzle.VarSubtitle:     str(),
		puzzle.VarHint:         str(),
		puzzle.VarDescription:  str(),
		puzzle.VarTheme:        str(),
		puzzle.VarBrandingText: str(),
	}
	required := []any{puzzle.VarSubtitle, puzzle.VarHint, puzzle.VarDescription, puzzle.VarTheme, puzzle.VarBrandingText}
	answer := str()

	switch t {
	case puzzle.Wordle:
		answer = map[string]any{"type": "string", "pattern": "^[A-Za-z]{5}$"}
		vars[puzzle.VarWordLength] = map[string]any{"const": 5}
		vars[puzzle.VarMaxAttempts] = map[string]any{"const": 6}
		vars[puzzle.VarCorrectHint] = str()
		vars[puzzle.VarMisplacedHint] = str()
		vars[puzzle.VarWrongHint] = str()
		required = append(required, puzzle.VarWordLength, puzzle.VarMaxAttempts)
	case puzzle.NumberSequence:
		answer = map[string]any{"type": "string", "pattern": "^-?[0-9]+$"}
		vars[puzzle.VarSequence] = map[string]any{
			"type":     "array",
			"minItems": 5,
			"items":    map[string]any{"type": "integer"},
		}
		required = append(required, puzzle.VarSequence)
	case puzzle.RhymeTime:
		vars[puzzle.VarRhymeWord] = str()
		vars[puzzle.VarClue] = str()
		required = append(required, puzzle.VarRhymeWord, puzzle.VarClue)
	case puzzle.ConceptConnection:
		vars[puzzle.VarWords] = map[string]any{
			"type":     "array",
			"minItems": 4,
			"maxItems": 4,
			"items":    str(),
		}
		required = append(required, puzzle.VarWords)
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":    str(),
			"answer":   answer,
			"solution": str(),
			"variables": map[string]any{
				"type":       "object",
				"properties": vars,
				"required":   required,
			},
		},
		"required": []any{"title", "answer", "solution", "variables"},
	}
}
