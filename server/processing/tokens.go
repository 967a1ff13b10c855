package processing

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter provides approximate token counts for prompts. Counts feed a
// debug log field and a Prometheus histogram only; they never reject a
// request. cl100k_base is an approximation for Gemini models, which is fine
// for observability.
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenCounter creates a token counter using the cl100k_base encoding.
func NewTokenCounter() (*TokenCounter, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("get encoding: %w", err)
	}
	return &TokenCounter{encoding: encoding}, nil
}

// Count returns the approximate token count of text.
func (tc *TokenCounter) Count(text string) int {
	return len(tc.encoding.Encode(text, nil, nil))
}
