package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatResponse_NaturalLanguage(t *testing.T) {
	content := "Natural language response"
	assert.Equal(t, content, FormatResponse(content, NaturalLanguage))
	assert.Equal(t, `{"a":1}`, FormatResponse(`{"a":1}`, NaturalLanguage))
}

func TestFormatResponse_DataStructure(t *testing.T) {
	got := FormatResponse(`{"symbol": "AAPL", "price": 150}`, DataStructure)
	assert.Equal(t, map[string]any{"symbol": "AAPL", "price": float64(150)}, got)

	assert.Equal(t, "not json", FormatResponse("not json", DataStructure))
	assert.Equal(t, "", FormatResponse("", DataStructure))
	assert.Equal(t, "{broken", FormatResponse("{broken", DataStructure))
}

func TestFormatResponse_DataStructure_Idempotent(t *testing.T) {
	once := FormatResponse("not json", DataStructure)
	twice := FormatResponse(once.(string), DataStructure)
	assert.Equal(t, once, twice)
}

func TestFormatResponse_StripsMarkdownFence(t *testing.T) {
	got := FormatResponse("```json\n[{\"symbol\": \"MSFT\"}]\n```", DataStructure)
	assert.Equal(t, []any{map[string]any{"symbol": "MSFT"}}, got)
}

func TestFormatResponse_Both(t *testing.T) {
	content := `{"key": "value"}`
	got, ok := FormatResponse(content, Both).(Response)
	require.True(t, ok)
	assert.Equal(t, content, got.NaturalLanguage)
	assert.Equal(t, map[string]any{"key": "value"}, got.Data)
	assert.True(t, got.HasData())

	got, ok = FormatResponse("Just text", Both).(Response)
	require.True(t, ok)
	assert.Equal(t, "Just text", got.NaturalLanguage)
	assert.Nil(t, got.Data)
	assert.False(t, got.HasData())
}

func TestFormatResponse_UnknownFormat(t *testing.T) {
	assert.Equal(t, "text", FormatResponse("text", ResponseFormat("xml")))
}

func TestParseResponseFormat(t *testing.T) {
	cases := map[string]ResponseFormat{
		"":                 NaturalLanguage,
		"natural_language": NaturalLanguage,
		"DATA_STRUCTURE":   DataStructure,
		" both ":           Both,
	}
	for in, want := range cases {
		got, err := ParseResponseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseResponseFormat("xml")
	assert.Error(t, err)
}
