// Package processing builds meal analysis prompts, calls the AI backend, and
// normalizes its reply into the fixed nutrition record returned to clients.
package processing

import "strings"

// MealQuery is the request-scoped input record: a free-text meal description
// and/or decoded image bytes. At least one of the two must be present; the
// HTTP handler enforces that before any backend call. Nothing mutates a
// MealQuery after creation and nothing outlives the request that created it.
type MealQuery struct {
	// Description is the free-text meal description, possibly empty.
	Description string

	// Image holds decoded image bytes, possibly nil.
	Image []byte

	// ImageMIME tags the image part sent to the model (e.g. "image/jpeg").
	// Ignored when Image is empty.
	ImageMIME string
}

// Empty reports whether the query carries neither a usable description nor
// an image.
func (q MealQuery) Empty() bool {
	return strings.TrimSpace(q.Description) == "" && len(q.Image) == 0
}

// NutritionEstimate is the normalized, defaulted output record. Every field
// is always present and type-consistent: numeric fields default to 0 and the
// description falls back to the query's description or a fixed placeholder,
// so the HTTP response always has the complete five-field shape even when the
// model returned partial data.
type NutritionEstimate struct {
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fats        float64 `json:"fats"`
	Description string  `json:"description"`
}
