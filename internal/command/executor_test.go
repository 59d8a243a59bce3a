package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tern-ai/tern/internal/agent"
)

// stubAgent is a canned-response agent for executor tests.
type stubAgent struct {
	id     string
	score  float64
	result *agent.Result
	err    error

	lastTask *agent.Task
}

func (s *stubAgent) ID() string          { return s.id }
func (s *stubAgent) Name() string        { return s.id }
func (s *stubAgent) Description() string { return "stub agent " + s.id }
func (s *stubAgent) CanHandle(*agent.TaskContext) float64 {
	return s.score
}
func (s *stubAgent) Execute(_ context.Context, task agent.Task, _ *agent.Toolkit) (*agent.Result, error) {
	s.lastTask = &task
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}
func (s *stubAgent) Permissions() agent.Permissions { return agent.ReadOnlyPermissions() }
func (s *stubAgent) SystemPrompt() string           { return "stub" }

func newTestExecutor(t *testing.T) (*Executor, *Registry, *agent.Router) {
	t.Helper()
	registry, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	router := agent.NewRouter()
	return NewExecutor(registry, router), registry, router
}

func TestExecutorTemplateCommand(t *testing.T) {
	e, registry, _ := newTestExecutor(t)
	registry.Register(&Command{
		Meta: Metadata{
			Name:        "greet",
			Description: "Greet someone",
			Category:    "misc",
			Args: []ArgDefinition{
				{Name: "name", Type: ArgString, Required: true},
			},
		},
		Template: "Hello {{args.name}}!",
		Source:   SourceBuiltin,
	})

	out, err := e.ExecuteInput(context.Background(), "/greet name=World", &ExecutionContext{})
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", out)
}

func TestExecutorNotFoundWithSuggestion(t *testing.T) {
	e, registry, _ := newTestExecutor(t)
	RegisterBuiltins(registry)

	_, err := e.ExecuteInput(context.Background(), "/explian main.go", &ExecutionContext{})

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "explian", notFound.Name)
	assert.Equal(t, "explain", notFound.Suggestion)
	assert.Equal(t, "command not found: /explian (did you mean /explain?)", err.Error())
}

func TestExecutorNotFoundWithoutSuggestion(t *testing.T) {
	e, _, _ := newTestExecutor(t)

	_, err := e.ExecuteInput(context.Background(), "/nothing-like-this", &ExecutionContext{})

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "command not found: /nothing-like-this", err.Error())
}

func TestExecutorParseErrorPropagates(t *testing.T) {
	e, _, _ := newTestExecutor(t)

	_, err := e.ExecuteInput(context.Background(), "not a slash command", &ExecutionContext{})
	assert.ErrorIs(t, err, ErrMissingSlash)
}

func TestExecutorAgentCommandRouted(t *testing.T) {
	e, registry, router := newTestExecutor(t)

	stub := &stubAgent{
		id:    "security",
		score: 0.9,
		result: agent.NewAnalysis("all clear", map[string]string{
			"files_scanned": "12",
		}),
	}
	router.Register(stub)

	registry.Register(&Command{
		Meta: Metadata{
			Name:        "scan",
			Description: "Security scan",
			Category:    "security",
			Agent:       true,
		},
		Template: "Scan the workspace.",
		Source:   SourceBuiltin,
	})

	out, err := e.ExecuteInput(context.Background(), "/scan", &ExecutionContext{WorkspaceRoot: t.TempDir()})
	require.NoError(t, err)

	assert.Contains(t, out, "# Agent Analysis")
	assert.Contains(t, out, "all clear")
	assert.Contains(t, out, "**files_scanned**: 12")

	require.NotNil(t, stub.lastTask)
	assert.Equal(t, "Scan the workspace.", stub.lastTask.Context.UserIntent)
}

func TestExecutorAgentCommandNoSuitableAgent(t *testing.T) {
	e, registry, router := newTestExecutor(t)

	router.Register(&stubAgent{id: "weak", score: 0.3})

	registry.Register(&Command{
		Meta:     Metadata{Name: "scan", Description: "d", Category: "c", Agent: true},
		Template: "Scan.",
		Source:   SourceBuiltin,
	})

	_, err := e.ExecuteInput(context.Background(), "/scan", &ExecutionContext{})
	assert.ErrorIs(t, err, ErrNoSuitableAgent)
}

func TestExecutorAgentCommandExplicitAgentID(t *testing.T) {
	e, registry, router := newTestExecutor(t)

	// Explicit agent_id bypasses scoring entirely.
	stub := &stubAgent{id: "reviewer", score: 0, result: agent.NewCodeReview(nil)}
	router.Register(stub)

	registry.Register(&Command{
		Meta:     Metadata{Name: "deep-review", Description: "d", Category: "c", AgentID: "reviewer"},
		Template: "Review.",
		Source:   SourceBuiltin,
	})

	out, err := e.ExecuteInput(context.Background(), "/deep-review", &ExecutionContext{})
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found.")
}

func TestExecutorAgentNotFound(t *testing.T) {
	e, registry, _ := newTestExecutor(t)

	registry.Register(&Command{
		Meta:     Metadata{Name: "x", Description: "d", Category: "c", AgentID: "ghost"},
		Template: "t",
		Source:   SourceBuiltin,
	})

	_, err := e.ExecuteInput(context.Background(), "/x", &ExecutionContext{})

	var notFound *AgentNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.ID)
}

func TestExecutorAgentFailureWrapped(t *testing.T) {
	e, registry, router := newTestExecutor(t)

	boom := errors.New("boom")
	router.Register(&stubAgent{id: "flaky", score: 1, err: boom})

	registry.Register(&Command{
		Meta:     Metadata{Name: "x", Description: "d", Category: "c", Agent: true},
		Template: "t",
		Source:   SourceBuiltin,
	})

	_, err := e.ExecuteInput(context.Background(), "/x", &ExecutionContext{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "agent flaky failed")
}

func TestExecutorBuiltinPassthroughArgs(t *testing.T) {
	e, registry, _ := newTestExecutor(t)
	RegisterBuiltins(registry)

	// Builtins declare no args; named arguments pass through verbatim
	// and positionals become arg0..argN.
	out, err := e.ExecuteInput(context.Background(), "/explain file=main.go", &ExecutionContext{})
	require.NoError(t, err)
	assert.Contains(t, out, "File: main.go")

	out, err = e.ExecuteInput(context.Background(), "/explain code=x", &ExecutionContext{})
	require.NoError(t, err)
	assert.Contains(t, out, "x")
}

func TestExecutorTemplateSeesExecutionContext(t *testing.T) {
	e, registry, _ := newTestExecutor(t)

	registry.Register(&Command{
		Meta:     Metadata{Name: "ctx", Description: "d", Category: "c"},
		Template: "root={{workspace_root}} diff={{#if git_diff}}yes{{else}}no{{/if}}",
		Source:   SourceBuiltin,
	})

	out, err := e.ExecuteInput(context.Background(), "/ctx", &ExecutionContext{
		WorkspaceRoot: "/work",
		GitDiff:       "diff --git",
	})
	require.NoError(t, err)
	assert.Equal(t, "root=/work diff=yes", out)
}

func TestExecutorOutputFormatJSON(t *testing.T) {
	e, registry, router := newTestExecutor(t)
	e.SetOutputFormat(FormatJSON)

	router.Register(&stubAgent{
		id:    "reviewer",
		score: 1,
		result: agent.NewCodeReview([]agent.Finding{
			{Severity: agent.SeverityError, Category: "bug", Message: "nil deref"},
		}),
	})

	registry.Register(&Command{
		Meta:     Metadata{Name: "review-all", Description: "d", Category: "c", Agent: true},
		Template: "t",
		Source:   SourceBuiltin,
	})

	out, err := e.ExecuteInput(context.Background(), "/review-all", &ExecutionContext{})
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "code_review"`)
	assert.Contains(t, out, `"count": 1`)
}

func TestExecutorExecuteInputAsLeavesDefaultFormat(t *testing.T) {
	e, registry, router := newTestExecutor(t)

	router.Register(&stubAgent{id: "analyzer", score: 1, result: agent.NewAnalysis("done", nil)})
	registry.Register(&Command{
		Meta:     Metadata{Name: "scan", Description: "d", Category: "c", Agent: true},
		Template: "t",
		Source:   SourceBuiltin,
	})

	out, err := e.ExecuteInputAs(context.Background(), "/scan", &ExecutionContext{}, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "analysis"`)

	// The explicit format applies to that call only.
	out, err = e.ExecuteInput(context.Background(), "/scan", &ExecutionContext{})
	require.NoError(t, err)
	assert.Contains(t, out, "# Agent Analysis")
}

func TestExecutorExecuteInputAsEmptyFormatUsesDefault(t *testing.T) {
	e, registry, router := newTestExecutor(t)
	e.SetOutputFormat(FormatPlainText)

	router.Register(&stubAgent{id: "analyzer", score: 1, result: agent.NewAnalysis("done", nil)})
	registry.Register(&Command{
		Meta:     Metadata{Name: "scan", Description: "d", Category: "c", Agent: true},
		Template: "t",
		Source:   SourceBuiltin,
	})

	out, err := e.ExecuteInputAs(context.Background(), "/scan", &ExecutionContext{}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Agent Analysis\n===")
}

func TestNewExecutionContextOutsideRepo(t *testing.T) {
	dir := t.TempDir()

	ec := NewExecutionContext(context.Background(), dir, map[string]string{"K": "V"})

	assert.Equal(t, dir, ec.WorkspaceRoot)
	assert.Empty(t, ec.GitDiff)
	assert.Empty(t, ec.Branch)
	assert.Equal(t, agent.ModeInteractive, ec.Mode)
	assert.Equal(t, "V", ec.Env["K"])
}

func TestExtractPaths(t *testing.T) {
	paths := extractPaths(map[string]string{
		"path":  "src/main.go",
		"dir":   "lib/",
		"depth": "deep",
		"file":  "README.md",
	})
	assert.Equal(t, []string{"README.md", "lib/", "src/main.go"}, paths)
}

func TestGitContextNilWhenEmpty(t *testing.T) {
	assert.Nil(t, gitContext(&ExecutionContext{}))

	gc := gitContext(&ExecutionContext{Branch: "main"})
	require.NotNil(t, gc)
	assert.Equal(t, "main", gc.Branch)
}

func TestExecutorMissingRequiredArg(t *testing.T) {
	e, registry, _ := newTestExecutor(t)

	registry.Register(&Command{
		Meta: Metadata{
			Name: "strict", Description: "d", Category: "c",
			Args: []ArgDefinition{{Name: "target", Required: true}},
		},
		Template: "{{args.target}}",
		Source:   SourceBuiltin,
	})

	_, err := e.ExecuteInput(context.Background(), "/strict", &ExecutionContext{})

	var missing *MissingArgumentError
	assert.ErrorAs(t, err, &missing)
}

func TestExecutorFileCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	content := `---
name: summarize
description: Summarize a path
category: analysis
args:
  - name: path
    type: file
    required: true
---
Summarize {{args.path}}.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summarize.md"), []byte(content), 0644))

	registry, err := NewRegistry(dir)
	require.NoError(t, err)
	e := NewExecutor(registry, agent.NewRouter())

	out, err := e.ExecuteInput(context.Background(), "/summarize src/", &ExecutionContext{})
	require.NoError(t, err)
	assert.Equal(t, "Summarize src/.", out)
}
