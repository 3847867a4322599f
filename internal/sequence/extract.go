package sequence

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/puzzlegen/internal/puzzle"
)

// ErrNoSequence is returned when a result carries no sequence variable.
var ErrNoSequence = errors.New("sequence: no sequence variable")

// Extract reads the integer sequence from a content result's variables.
func Extract(vars map[string]any) ([]int64, error) {
	v, ok := vars[puzzle.VarSequence]
	if !ok || v == nil {
		return nil, ErrNoSequence
	}
	return Parse(v)
}

// Parse coerces the shapes a model may emit for a sequence: a JSON array
// of numbers or numeric strings, a Go integer slice, or a comma-separated
// string such as "2, 4, 6".
func Parse(v any) ([]int64, error) {
	switch x := v.(type) {
	case []int64:
		return append([]int64(nil), x...), nil
	case []int:
		return lo.Map(x, func(n int, _ int) int64 { return int64(n) }), nil
	case []string:
		return parseAll(lo.ToAnySlice(x))
	case []any:
		return parseAll(x)
	case string:
		fields := strings.FieldsFunc(strings.Trim(strings.TrimSpace(x), "[]"), func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
		})
		if len(fields) == 0 {
			return nil, fmt.Errorf("sequence: empty string %q", x)
		}
		return parseAll(lo.ToAnySlice(fields))
	}
	return nil, fmt.Errorf("sequence: unsupported shape %T", v)
}

func parseAll(xs []any) ([]int64, error) {
	out := make([]int64, 0, len(xs))
	for i, x := range xs {
		n, err := parseTerm(x)
		if err != nil {
			return nil, fmt.Errorf("sequence: term %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseTerm(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, err
		}
		return integral(f)
	case float64:
		return integral(x)
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", x)
		}
		return integral(f)
	}
	return 0, fmt.Errorf("unsupported term %T", v)
}

func integral(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("not an integer: %v", f)
	}
	return int64(f), nil
}
