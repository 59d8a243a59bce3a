package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tern-ai/tern/internal/agent"
)

func TestBuiltinCommands(t *testing.T) {
	builtins := BuiltinCommands()
	require.Len(t, builtins, 3)

	byName := make(map[string]*Command)
	for _, cmd := range builtins {
		assert.Equal(t, SourceBuiltin, cmd.Source)
		assert.Equal(t, KindTemplate, cmd.Kind())
		assert.NotEmpty(t, cmd.Template)
		byName[cmd.Meta.Name] = cmd
	}

	require.Contains(t, byName, "explain")
	require.Contains(t, byName, "review")
	require.Contains(t, byName, "test")

	assert.Equal(t, "analysis", byName["explain"].Meta.Category)
	assert.Equal(t, "analysis", byName["review"].Meta.Category)
	assert.Equal(t, "testing", byName["test"].Meta.Category)
}

func TestRegisterBuiltins(t *testing.T) {
	registry, err := NewRegistry(t.TempDir())
	require.NoError(t, err)

	RegisterBuiltins(registry)

	assert.Equal(t, []string{"explain", "review", "test"}, registry.Names())
}

func TestBuiltinTemplatesRender(t *testing.T) {
	e := NewExecutor(mustRegistry(t), agent.NewRouter())

	tests := []struct {
		input    string
		contains []string
	}{
		{
			"/explain file=main.go",
			[]string{"detailed explanation", "File: main.go", "1. What the code does"},
		},
		{
			"/review",
			[]string{"comprehensive code review", "**Code Quality**", "Refactoring opportunities"},
		},
		{
			"/test function=ParseInput format=table-driven",
			[]string{"Function: ParseInput", "**Happy Path**", "Format: table-driven"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, err := e.ExecuteInput(context.Background(), tt.input, &ExecutionContext{})
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestBuiltinTestTemplateDefaultFormat(t *testing.T) {
	e := NewExecutor(mustRegistry(t), agent.NewRouter())

	out, err := e.ExecuteInput(context.Background(), "/test", &ExecutionContext{})
	require.NoError(t, err)
	assert.Contains(t, out, "Format: Framework-appropriate")
}

func TestBuiltinReviewPrefersDiffOverFiles(t *testing.T) {
	e := NewExecutor(mustRegistry(t), agent.NewRouter())

	out, err := e.ExecuteInput(context.Background(), "/review", &ExecutionContext{
		GitDiff: "diff --git a/x b/x",
		Files:   []string{"x.go"},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Changes to review:")
	assert.NotContains(t, out, "Files to review:")
}

func mustRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	RegisterBuiltins(registry)
	return registry
}
