package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) Tool {
	return NewFunc(name, "echo "+name, func(ctx context.Context, args map[string]any) (string, error) {
		return name, nil
	})
}

func TestNewRegistry_LookupReturnsRegisteredTool(t *testing.T) {
	quote := echoTool("get_quote")
	profile := echoTool("get_company_profile")

	reg, err := NewRegistry(quote, profile)
	require.NoError(t, err)

	got, err := reg.Get("get_quote")
	require.NoError(t, err)
	assert.Equal(t, "get_quote", got.Definition().Name)

	got, err = reg.Get("get_company_profile")
	require.NoError(t, err)
	assert.Equal(t, "get_company_profile", got.Definition().Name)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"get_quote", "get_company_profile"}, reg.Names())
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(echoTool("get_quote"), echoTool("get_quote"))
	require.Error(t, err)

	var dup *DuplicateToolError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "get_quote", dup.Name)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_RegisterKeepsFirstOnDuplicate(t *testing.T) {
	reg, err := NewRegistry(echoTool("a"))
	require.NoError(t, err)

	other := NewFunc("a", "second", func(ctx context.Context, args map[string]any) (string, error) {
		return "second", nil
	})
	require.Error(t, reg.Register(other))

	got, err := reg.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "echo a", got.Definition().Description)
}

func TestRegistry_UnknownTool(t *testing.T) {
	reg, err := NewRegistry(echoTool("get_quote"), echoTool("get_income_statement"))
	require.NoError(t, err)

	_, err = reg.Get("quote")
	require.Error(t, err)

	var unknown *UnknownToolError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "quote", unknown.Name)
	assert.Equal(t, []string{"get_quote"}, unknown.Suggestions)
	assert.Contains(t, err.Error(), "Unknown tool: quote")
}

func TestRegistry_UnknownToolInEmptyRegistry(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	_, err = reg.Get("anything")
	var unknown *UnknownToolError
	require.True(t, errors.As(err, &unknown))
	assert.Empty(t, unknown.Suggestions)
	assert.Equal(t, "Unknown tool: anything", err.Error())
}

func TestRegistry_DefinitionsKeepOrder(t *testing.T) {
	reg, err := NewRegistry(echoTool("c"), echoTool("a"), echoTool("b"))
	require.NoError(t, err)

	defs := reg.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "c", defs[0].Name)
	assert.Equal(t, "a", defs[1].Name)
	assert.Equal(t, "b", defs[2].Name)
	assert.Len(t, reg.List(), 3)
}

func TestRegistry_ValidatesDefinition(t *testing.T) {
	tests := []struct {
		name string
		def  ToolDefinition
		msg  string
	}{
		{"empty name", ToolDefinition{Parameters: JSONSchema{"type": "object"}}, "name cannot be empty"},
		{"nil params", ToolDefinition{Name: "x"}, "parameters cannot be nil"},
		{"wrong type", ToolDefinition{Name: "x", Parameters: JSONSchema{"type": "array"}}, "must be 'object'"},
		{"bad required", ToolDefinition{Name: "x", Parameters: JSONSchema{"type": "object", "required": "symbol"}}, "must be an array"},
		{"required not strings", ToolDefinition{Name: "x", Parameters: JSONSchema{"type": "object", "required": []any{1}}}, "must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := Func{Def: tt.def, Fn: func(ctx context.Context, args map[string]any) (string, error) { return "", nil }}
			_, err := NewRegistry(tool)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRegistry_RejectsNil(t *testing.T) {
	_, err := NewRegistry(nil)
	require.Error(t, err)
}
