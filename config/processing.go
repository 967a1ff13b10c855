package config

// ProcessingConfig defines the configuration for prompt construction.
type ProcessingConfig struct {
	// RequestTemplates maps template names to their content. The "default"
	// template builds the meal analysis prompt and must always be present;
	// operators can override it per deployment.
	RequestTemplates map[string]string `yaml:"request_templates"`
}

// DefaultMealTemplate is the stock meal analysis prompt. It states the task,
// embeds the description verbatim (or a placeholder marker when only a photo
// was supplied), demands strict JSON with exactly the five named fields, and
// permits the model to estimate when uncertain.
const DefaultMealTemplate = `Analyze the following meal and estimate its nutritional content.

Meal description: {{if .Description}}{{.Description}}{{else}}(no description provided; analyze the attached photo){{end}}

Respond with a strict JSON object containing exactly these fields:
{"calories": number, "protein": number, "carbs": number, "fats": number, "description": string}

Use grams for protein, carbs and fats. If you are uncertain, provide your best estimate. Do not include any text outside the JSON object.`
