// Package recommender turns free-text recommendation requests into
// bounded, validated parameters for the recommendation endpoint: an LLM
// extraction step, attribute clamping, seed resolution, and seed-budget
// enforcement.
package recommender

import (
	"fmt"
	"strconv"
	"strings"
)

type attributeSpec struct {
	integer bool
	min     *float64
	max     *float64
}

func bound(v float64) *float64 { return &v }

// Tunable audio features the recommendation endpoint understands, with
// their inclusive ranges. A nil bound means unbounded on that side.
var attributeSpecs = map[string]attributeSpec{
	"acousticness":     {min: bound(0), max: bound(1)},
	"danceability":     {min: bound(0), max: bound(1)},
	"duration_ms":      {integer: true, min: bound(0)},
	"energy":           {min: bound(0), max: bound(1)},
	"instrumentalness": {min: bound(0), max: bound(1)},
	"key":              {integer: true, min: bound(0), max: bound(11)},
	"liveness":         {min: bound(0), max: bound(1)},
	"loudness":         {},
	"mode":             {integer: true, min: bound(0), max: bound(1)},
	"popularity":       {integer: true, min: bound(0), max: bound(100)},
	"speechiness":      {min: bound(0), max: bound(1)},
	"tempo":            {min: bound(0)},
	"time_signature":   {integer: true, min: bound(3), max: bound(7)},
	"valence":          {min: bound(0), max: bound(1)},
}

var validPrefixes = map[string]bool{"min": true, "max": true, "target": true}

// validateAttribute checks a "{min|max|target}_{attribute}" key against the
// spec table. The value is coerced to the attribute's declared type and
// clamped into its range; clamping yields a non-empty warning. ok is false
// when the key is not a known attribute or the value cannot be coerced.
func validateAttribute(name string, value any) (coerced any, warning string, ok bool) {
	prefix, base, found := strings.Cut(name, "_")
	if !found || !validPrefixes[prefix] {
		return nil, "", false
	}
	spec, known := attributeSpecs[base]
	if !known {
		return nil, "", false
	}

	v, ok := coerceNumeric(value, spec.integer)
	if !ok {
		return nil, "", false
	}

	if spec.min != nil && v < *spec.min {
		v = *spec.min
		warning = fmt.Sprintf("%s adjusted to minimum: %v", name, *spec.min)
	} else if spec.max != nil && v > *spec.max {
		v = *spec.max
		warning = fmt.Sprintf("%s adjusted to maximum: %v", name, *spec.max)
	}

	if spec.integer {
		return int(v), warning, true
	}
	return v, warning, true
}

func coerceNumeric(value any, integer bool) (float64, bool) {
	switch x := value.(type) {
	case float64:
		if integer {
			return float64(int(x)), true
		}
		return x, true
	case float32:
		if integer {
			return float64(int(x)), true
		}
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		if integer {
			n, err := strconv.Atoi(strings.TrimSpace(x))
			if err != nil {
				return 0, false
			}
			return float64(n), true
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
