package processing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/platewise/config"
)

func TestNewPromptBuilder(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ProcessingConfig
		wantErr bool
	}{
		{
			name:    "stock configuration",
			cfg:     config.DefaultConfig().Processing,
			wantErr: false,
		},
		{
			name: "missing default template",
			cfg: config.ProcessingConfig{
				RequestTemplates: map[string]string{"other": "x"},
			},
			wantErr: true,
		},
		{
			name: "invalid template syntax",
			cfg: config.ProcessingConfig{
				RequestTemplates: map[string]string{"default": "{{.Description}"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewPromptBuilder(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, b)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, b)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	b, err := NewPromptBuilder(config.DefaultConfig().Processing)
	require.NoError(t, err)

	t.Run("description embedded verbatim", func(t *testing.T) {
		prompt, err := b.Build(MealQuery{Description: "two eggs, rye toast & black coffee"})
		require.NoError(t, err)
		assert.Contains(t, prompt, "two eggs, rye toast & black coffee")
	})

	t.Run("placeholder when only an image is supplied", func(t *testing.T) {
		prompt, err := b.Build(MealQuery{Image: []byte{0xFF, 0xD8}, ImageMIME: "image/jpeg"})
		require.NoError(t, err)
		assert.Contains(t, prompt, "no description provided")
	})

	t.Run("prompt names all five reply fields", func(t *testing.T) {
		prompt, err := b.Build(MealQuery{Description: "salad"})
		require.NoError(t, err)
		for _, field := range []string{"calories", "protein", "carbs", "fats", "description"} {
			assert.True(t, strings.Contains(prompt, field), "prompt missing field %q", field)
		}
	})

	t.Run("prompt demands strict JSON and permits estimation", func(t *testing.T) {
		prompt, err := b.Build(MealQuery{Description: "salad"})
		require.NoError(t, err)
		assert.Contains(t, prompt, "JSON")
		assert.Contains(t, prompt, "estimate")
	})
}
