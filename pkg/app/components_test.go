package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MehdiZare/langchain-fmp-data/pkg/agent"
	"github.com/MehdiZare/langchain-fmp-data/pkg/config"
	"github.com/MehdiZare/langchain-fmp-data/pkg/llm"
	"github.com/MehdiZare/langchain-fmp-data/pkg/tools"
)

type staticSelector []tools.Tool

func (s staticSelector) GetTools(ctx context.Context, query string, k int) ([]tools.Tool, error) {
	return s, nil
}

type echoModel struct{}

func (echoModel) Generate(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (llm.Message, error) {
	return llm.AIMessage("echo: " + messages[len(messages)-1].Content), nil
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefaultConfigPathFinder_Flag(t *testing.T) {
	f := &DefaultConfigPathFinder{ConfigFlag: "custom.yaml"}
	got := f.FindConfigPath()
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "custom.yaml", filepath.Base(got))
}

func TestDefaultConfigPathFinder_CurrentDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("agent: {}\n"), 0o644))
	chdir(t, dir)

	got := (&DefaultConfigPathFinder{}).FindConfigPath()
	assert.Equal(t, "config.yaml", filepath.Base(got))
}

func TestInitializeConfig_FallsBackToDefault(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, path, err := InitializeConfig(staticFinder(""))
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, config.DefaultMaxIterations, cfg.Agent.MaxIterations)
}

func TestInitializeConfig_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "fmp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agent:\n  max_iterations: 7\n"), 0o644))

	cfg, got, err := InitializeConfig(staticFinder(path))
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, 7, cfg.Agent.MaxIterations)

	_, _, err = InitializeConfig(staticFinder(filepath.Join(dir, "missing.yaml")))
	assert.Error(t, err)
}

func TestInitializeAndExecute(t *testing.T) {
	t.Setenv(config.EnvFMPAPIKey, "fmp")
	t.Setenv(config.EnvOpenAIAPIKey, "oai")
	cfg := config.Default()

	quote := tools.NewFunc("get_stock_quote", "quote", func(context.Context, map[string]any) (string, error) {
		return "{}", nil
	})
	c, err := Initialize(context.Background(), cfg, "",
		agent.WithModel(echoModel{}),
		agent.WithSelector(staticSelector{quote}))
	require.NoError(t, err)

	assert.Equal(t, []string{config.DefaultModel}, c.Models.ListNames())

	res := Execute(context.Background(), c, agent.Input{Query: "AAPL"}, time.Second)
	assert.Equal(t, "echo: AAPL", res.Output)
	assert.NotEmpty(t, res.ThreadID)
}

type staticFinder string

func (f staticFinder) FindConfigPath() string { return string(f) }

func TestApplyPromptFile_RelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "system.yaml"), []byte(`
config:
  temperature: 0.3
messages:
  - role: system
    content: "Analyst. Max {{.MaxIterations}} steps."
`), 0o644))

	cfg := config.Default()
	cfg.Agent.SystemPromptFile = "system.yaml"

	require.NoError(t, ApplyPromptFile(cfg, filepath.Join(dir, "config.yaml")))
	assert.Equal(t, "Analyst. Max 30 steps.", cfg.Agent.SystemPrompt)
	assert.InDelta(t, 0.3, cfg.Agent.Temperature, 1e-9)
}

func TestApplyPromptFile_NotSet(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, ApplyPromptFile(cfg, ""))
	assert.Empty(t, cfg.Agent.SystemPrompt)
}

func TestApplyPromptFile_Missing(t *testing.T) {
	cfg := config.Default()
	cfg.Agent.SystemPromptFile = filepath.Join(t.TempDir(), "nope.yaml")

	err := ApplyPromptFile(cfg, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load system prompt")
}
