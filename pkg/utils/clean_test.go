package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJsonBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON",
			input:    `{"symbol": "AAPL"}`,
			expected: `{"symbol": "AAPL"}`,
		},
		{
			name:     "JSON in markdown code block",
			input:    "```json\n{\"symbol\": \"AAPL\"}\n```",
			expected: `{"symbol": "AAPL"}`,
		},
		{
			name:     "JSON with mixed case",
			input:    "```JSON\n{\"symbol\": \"AAPL\"}\n```",
			expected: `{"symbol": "AAPL"}`,
		},
		{
			name:     "only triple backticks",
			input:    "```\n[1, 2]\n```",
			expected: `[1, 2]`,
		},
		{
			name:     "extra whitespace",
			input:    "  ```json  \n  {\"a\": 1}  \n  ```  ",
			expected: `{"a": 1}`,
		},
		{
			name:     "plain text untouched",
			input:    "not json",
			expected: "not json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJsonBlock(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "цен...", Truncate("цена акции", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
}
