// Package repair turns raw model output into a puzzle.Result. Output that
// cannot be parsed is replaced by a deterministic placeholder marked as
// degraded instead of failing the generation.
package repair

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/abhisek/puzzlegen/internal/puzzle"
)

// Metadata keys set by ParseAndRepair.
const (
	MetaSchemaViolations = "schemaViolations"
	MetaDegraded         = "degraded"
)

// ParseAndRepair parses a content payload of the form
// {title, answer, solution, variables{...}}. Code fences and prose around
// the object are tolerated. Shape problems are recorded in metadata and
// left for the strategy to normalize; only unparseable output yields a
// placeholder.
func ParseAndRepair(raw string, t puzzle.Type, theme string) *puzzle.Result {
	body := StripCodeFences(raw)
	if !strings.HasPrefix(body, "{") {
		body = ExtractObject(body)
	}

	payload, ok := decodeObject(body)
	if !ok {
		return Placeholder(t, theme)
	}

	vars, _ := payload["variables"].(map[string]any)
	if vars == nil {
		vars = make(map[string]any)
	}

	res := &puzzle.Result{
		Answer:    scalarString(payload["answer"]),
		Variables: vars,
	}
	if title := scalarString(payload["title"]); title != "" {
		vars[puzzle.VarTitle] = title
	}
	if solution := scalarString(payload["solution"]); solution != "" {
		vars[puzzle.VarSolution] = solution
	}
	res.Content = scalarString(vars[puzzle.VarDescription])

	if locs, err := Violations(t, payload); err == nil && len(locs) > 0 {
		res.SetMeta(MetaSchemaViolations, strings.Join(locs, ","))
	}
	return res
}

func decodeObject(body string) (map[string]any, bool) {
	if body == "" {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil || payload == nil {
		return nil, false
	}
	return payload, true
}

// scalarString renders strings and numbers; anything else is "".
func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}
