// Package mocks provides test doubles for the server's external
// collaborators.
package mocks

import (
	"context"
)

// MockProvider implements provider.Provider for testing purposes.
// It provides a flexible way to simulate backend behavior in tests without
// making actual API calls.
//
// Example usage:
//
//	p := mocks.NewMockProvider(func(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
//	    return `{"calories":350,"protein":40,"carbs":10,"fats":15}`, nil
//	})
type MockProvider struct {
	AnalyzeFunc  func(ctx context.Context, prompt string, image []byte, mime string) (string, error)
	ProviderName string
	ModelName    string
}

// NewMockProvider creates a new MockProvider with an optional analyze
// function. If analyzeFunc is nil, Analyze returns an empty string with no
// error.
func NewMockProvider(analyzeFunc func(ctx context.Context, prompt string, image []byte, mime string) (string, error)) *MockProvider {
	return &MockProvider{
		AnalyzeFunc:  analyzeFunc,
		ProviderName: "mock",
		ModelName:    "mock-model",
	}
}

// Analyze implements provider.Provider.
func (m *MockProvider) Analyze(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, prompt, image, mime)
	}
	return "", nil
}

// Name implements provider.Provider.
func (m *MockProvider) Name() string { return m.ProviderName }

// Model implements provider.Provider.
func (m *MockProvider) Model() string { return m.ModelName }
