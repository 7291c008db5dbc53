package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
config:
  temperature: 0.2
messages:
  - role: system
    content: |
      You are an analyst. Today is {{.Date}}. Use at most {{.MaxToolset}} tools.
  - role: user
    content: "{{.Date}}"
`

func TestParse(t *testing.T) {
	pf, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.NotNil(t, pf.Config.Temperature)
	assert.InDelta(t, 0.2, *pf.Config.Temperature, 1e-9)
	require.Len(t, pf.Messages, 2)
	assert.Equal(t, "system", pf.Messages[0].Role)
}

func TestParse_NoTemperature(t *testing.T) {
	pf, err := Parse([]byte("messages:\n  - role: system\n    content: hi\n"))
	require.NoError(t, err)
	assert.Nil(t, pf.Config.Temperature)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("messages: [oops"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml parse error")
}

func TestSystemPrompt_Renders(t *testing.T) {
	pf, err := Parse([]byte(sample))
	require.NoError(t, err)

	text, err := pf.SystemPrompt(SystemData{Date: "2024-05-01", MaxToolset: 3})
	require.NoError(t, err)
	assert.Equal(t, "You are an analyst. Today is 2024-05-01. Use at most 3 tools.", text)
}

func TestSystemPrompt_MissingKey(t *testing.T) {
	pf, err := Parse([]byte("messages:\n  - role: system\n    content: \"{{.Unknown}}\"\n"))
	require.NoError(t, err)

	_, err = pf.SystemPrompt(map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template execute error")
}

func TestSystemPrompt_NoSystemMessage(t *testing.T) {
	pf, err := Parse([]byte("messages:\n  - role: user\n    content: hi\n"))
	require.NoError(t, err)

	_, err = pf.SystemPrompt(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no system message")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	pf, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, pf.Messages, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt file not found")
}

func TestNewSystemData(t *testing.T) {
	d := NewSystemData(30, 3)
	assert.Len(t, d.Date, len("2006-01-02"))
	assert.Equal(t, 30, d.MaxIterations)
	assert.Equal(t, 3, d.MaxToolset)
}
