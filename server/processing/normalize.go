package processing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/platewise/platewise/config"
)

// FallbackDescription is returned when neither the model nor the original
// query supplied a usable description.
const FallbackDescription = "Unknown Meal"

// Normalizer coerces the model's raw reply text into a NutritionEstimate.
//
// Parse failure is a hard error: the system does not attempt regex-based
// repair of a reply that is not JSON. The one exception is the explicit
// extract_json toggle, which tries the first balanced JSON object (code
// fences stripped) before giving up. Field-level problems inside an
// otherwise-valid JSON object are NOT errors; each field is defaulted
// independently so the response always carries the complete shape, at the
// cost of masking upstream misbehavior as zeros.
type Normalizer struct {
	extractJSON bool
}

// NewNormalizer creates a Normalizer from configuration.
func NewNormalizer(cfg config.NormalizerConfig) *Normalizer {
	return &Normalizer{extractJSON: cfg.ExtractJSON}
}

// Normalize parses reply as a JSON object and coerces it into a
// NutritionEstimate. originalDescription is the query's description, used as
// the first fallback when the model omits one.
func (n *Normalizer) Normalize(reply, originalDescription string) (NutritionEstimate, error) {
	text := strings.TrimSpace(reply)

	var fields map[string]interface{}
	err := json.Unmarshal([]byte(text), &fields)
	if err != nil && n.extractJSON {
		if extracted, ok := firstJSONObject(stripCodeFences(text)); ok {
			err = json.Unmarshal([]byte(extracted), &fields)
		}
	}
	if err != nil {
		return NutritionEstimate{}, fmt.Errorf("parse model reply: %w", err)
	}
	if fields == nil {
		return NutritionEstimate{}, fmt.Errorf("parse model reply: not a JSON object")
	}

	est := NutritionEstimate{
		Calories:    coerceNumber(fields["calories"]),
		Protein:     coerceNumber(fields["protein"]),
		Carbs:       coerceNumber(fields["carbs"]),
		Fats:        coerceNumber(fields["fats"]),
		Description: pickDescription(fields["description"], originalDescription),
	}
	return est, nil
}

// coerceNumber converts a decoded JSON value to float64, yielding 0 for
// anything missing, non-numeric, or non-finite. NaN and null never reach the
// caller.
func coerceNumber(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

// pickDescription selects the parsed description if it is a non-empty string,
// else the original query description, else the fixed placeholder.
func pickDescription(parsed interface{}, original string) string {
	if s, ok := parsed.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	if strings.TrimSpace(original) != "" {
		return original
	}
	return FallbackDescription
}

// stripCodeFences removes a surrounding markdown code fence, if any.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// firstJSONObject returns the first balanced {...} object in s, respecting
// string literals and escapes.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
