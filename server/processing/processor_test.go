package processing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/platewise/platewise/config"
	"github.com/platewise/platewise/server/metrics"
	"github.com/platewise/platewise/server/mocks"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.LLM.APIKey = "test-key"
	return cfg
}

func TestNewProcessor(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tests := []struct {
		name    string
		cfg     *config.Config
		mock    *mocks.MockProvider
		wantErr bool
	}{
		{
			name:    "nil config",
			cfg:     nil,
			mock:    mocks.NewMockProvider(nil),
			wantErr: true,
		},
		{
			name:    "nil provider",
			cfg:     testConfig(),
			mock:    nil,
			wantErr: true,
		},
		{
			name:    "valid",
			cfg:     testConfig(),
			mock:    mocks.NewMockProvider(nil),
			wantErr: false,
		},
		{
			name: "invalid template",
			cfg: func() *config.Config {
				cfg := testConfig()
				cfg.Processing.RequestTemplates["default"] = "{{.Broken"
				return cfg
			}(),
			mock:    mocks.NewMockProvider(nil),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var proc *Processor
			var err error
			if tt.mock == nil {
				proc, err = NewProcessor(tt.cfg, nil, logger, nil)
			} else {
				proc, err = NewProcessor(tt.cfg, tt.mock, logger, nil)
			}
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, proc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, proc)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("valid reply passes through", func(t *testing.T) {
		var gotPrompt string
		var gotImage []byte
		mock := mocks.NewMockProvider(func(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
			gotPrompt = prompt
			gotImage = image
			return `{"calories":350,"protein":40,"carbs":10,"fats":15,"description":"Grilled Chicken Salad"}`, nil
		})

		proc, err := NewProcessor(testConfig(), mock, logger, metrics.NewMetrics())
		require.NoError(t, err)

		est, err := proc.Analyze(context.Background(), MealQuery{
			Description: "grilled chicken salad",
			Image:       []byte{0xFF, 0xD8, 0xFF},
			ImageMIME:   "image/jpeg",
		})
		require.NoError(t, err)

		assert.Equal(t, NutritionEstimate{
			Calories:    350,
			Protein:     40,
			Carbs:       10,
			Fats:        15,
			Description: "Grilled Chicken Salad",
		}, est)
		assert.Contains(t, gotPrompt, "grilled chicken salad")
		assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, gotImage)
	})

	t.Run("backend failure is a backend error", func(t *testing.T) {
		mock := mocks.NewMockProvider(func(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
			return "", errors.New("connection refused")
		})

		proc, err := NewProcessor(testConfig(), mock, logger, nil)
		require.NoError(t, err)

		_, err = proc.Analyze(context.Background(), MealQuery{Description: "soup"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBackend))
		assert.False(t, errors.Is(err, ErrBadReply))
	})

	t.Run("unparseable reply is a bad-reply error", func(t *testing.T) {
		mock := mocks.NewMockProvider(func(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
			return "not json", nil
		})

		proc, err := NewProcessor(testConfig(), mock, logger, nil)
		require.NoError(t, err)

		_, err = proc.Analyze(context.Background(), MealQuery{Description: "soup"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBadReply))
		assert.False(t, errors.Is(err, ErrBackend))
	})

	t.Run("hung backend call is cut off at the configured timeout", func(t *testing.T) {
		mock := mocks.NewMockProvider(func(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

		cfg := testConfig()
		cfg.LLM.Timeout = 20 * time.Millisecond

		proc, err := NewProcessor(cfg, mock, logger, nil)
		require.NoError(t, err)

		start := time.Now()
		_, err = proc.Analyze(context.Background(), MealQuery{Description: "soup"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBackend))
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}
