package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tern-ai/tern/internal/agent"
	"github.com/tern-ai/tern/internal/event"
	"github.com/tern-ai/tern/internal/logging"
	"github.com/tern-ai/tern/internal/vcs"
)

// ExecutionContext is the per-invocation environment handed to the
// executor: workspace state, git context, whitelisted env vars, and
// optional conversation history.
type ExecutionContext struct {
	WorkspaceRoot string
	GitDiff       string
	Branch        string
	ChangedFiles  []string
	Files         []string
	Env           map[string]string
	Conversation  *Conversation
	Mode          agent.ExecutionMode
}

// NewExecutionContext builds an execution context for a workspace,
// populating git state when the workspace is a repository.
func NewExecutionContext(ctx context.Context, workspaceRoot string, env map[string]string) *ExecutionContext {
	ec := &ExecutionContext{
		WorkspaceRoot: workspaceRoot,
		Env:           env,
		Mode:          agent.ModeInteractive,
	}

	if isRepo, diff := vcs.Diff(ctx, workspaceRoot); isRepo {
		ec.GitDiff = diff
		ec.Branch = vcs.Branch(ctx, workspaceRoot)
		ec.ChangedFiles = vcs.ChangedFiles(ctx, workspaceRoot)
	}
	return ec
}

// Executor orchestrates command execution: registry lookup, then
// either argument mapping plus template expansion, or agent routing
// and delegated execution. The executor itself is side-effect-free
// aside from registry reads; all I/O happens through the selected
// agent's toolkit.
type Executor struct {
	registry *Registry
	router   *agent.Router
	expander *Expander
	output   OutputFormat
}

// NewExecutor creates an executor over a registry and an agent router.
func NewExecutor(registry *Registry, router *agent.Router) *Executor {
	return &Executor{
		registry: registry,
		router:   router,
		expander: NewExpander(),
		output:   FormatMarkdown,
	}
}

// SetOutputFormat changes the default rendering of agent results.
// Call it once during setup, before the executor is shared between
// goroutines; per-call formats go through ExecuteInputAs.
func (e *Executor) SetOutputFormat(format OutputFormat) {
	e.output = format
}

// ExecuteInput parses raw slash command input and executes it,
// rendering any agent result in the executor's default format.
func (e *Executor) ExecuteInput(ctx context.Context, input string, ec *ExecutionContext) (string, error) {
	return e.ExecuteInputAs(ctx, input, ec, e.output)
}

// ExecuteInputAs is ExecuteInput with an explicit output format for
// the call. The executor's default format is left untouched, so
// concurrent callers can request different renderings. An empty
// format falls back to the default.
func (e *Executor) ExecuteInputAs(ctx context.Context, input string, ec *ExecutionContext, format OutputFormat) (string, error) {
	inv, err := ParseInvocation(input)
	if err != nil {
		return "", err
	}
	if format == "" {
		format = e.output
	}
	return e.execute(ctx, inv, ec, format)
}

// Execute runs a parsed invocation against the registry.
func (e *Executor) Execute(ctx context.Context, inv *Invocation, ec *ExecutionContext) (string, error) {
	return e.execute(ctx, inv, ec, e.output)
}

func (e *Executor) execute(ctx context.Context, inv *Invocation, ec *ExecutionContext, format OutputFormat) (string, error) {
	cmd, ok := e.registry.Get(inv.Name)
	if !ok {
		return "", &NotFoundError{Name: inv.Name, Suggestion: e.registry.Nearest(inv.Name)}
	}

	switch cmd.Kind() {
	case KindAgent:
		return e.executeAgent(ctx, cmd, inv, ec, format)
	default:
		return e.executeTemplate(cmd, inv, ec)
	}
}

// executeTemplate maps arguments and expands the command template.
func (e *Executor) executeTemplate(cmd *Command, inv *Invocation, ec *ExecutionContext) (string, error) {
	args, err := e.mapArgs(cmd, inv)
	if err != nil {
		return "", err
	}

	out, err := e.expander.Expand(cmd.Meta.Name, cmd.Template, buildCommandContext(args, ec))
	if err != nil {
		return "", err
	}

	event.Publish(event.New(event.CommandExecuted, event.CommandExecutedData{
		Command: cmd.Meta.Name,
	}))
	return out, nil
}

// executeAgent builds a task from the invocation and delegates it to a
// routed agent through a permission-checked toolkit.
func (e *Executor) executeAgent(ctx context.Context, cmd *Command, inv *Invocation, ec *ExecutionContext, format OutputFormat) (string, error) {
	args, err := e.mapArgs(cmd, inv)
	if err != nil {
		return "", err
	}

	// The rendered template is the natural-language intent given to
	// the agent.
	intent, err := e.expander.Expand(cmd.Meta.Name, cmd.Template, buildCommandContext(args, ec))
	if err != nil {
		return "", err
	}

	taskCtx := &agent.TaskContext{
		FilePaths:  extractPaths(args),
		Git:        gitContext(ec),
		Mode:       ec.Mode,
		UserIntent: intent,
	}

	var selected agent.Agent
	if cmd.Meta.AgentID != "" {
		a, ok := e.router.Get(cmd.Meta.AgentID)
		if !ok {
			return "", &AgentNotFoundError{ID: cmd.Meta.AgentID}
		}
		selected = a
	} else {
		selected = e.router.SelectAgent(taskCtx)
		if selected == nil {
			return "", ErrNoSuitableAgent
		}
	}

	logging.Info().
		Str("command", cmd.Meta.Name).
		Str("agent", selected.ID()).
		Msg("delegating command to agent")

	event.Publish(event.New(event.AgentSelected, event.AgentSelectedData{
		Agent: selected.ID(),
		Score: agent.ClampScore(selected.CanHandle(taskCtx)),
	}))

	toolkit := agent.NewToolkit(selected.ID(), selected.Permissions(), ec.WorkspaceRoot)
	result, err := selected.Execute(ctx, agent.Task{Context: *taskCtx}, toolkit)
	if err != nil {
		return "", fmt.Errorf("agent %s failed: %w", selected.ID(), err)
	}

	event.Publish(event.New(event.CommandExecuted, event.CommandExecutedData{
		Command: cmd.Meta.Name,
		Agent:   selected.ID(),
	}))

	return FormatResult(result, format)
}

// mapArgs maps invocation arguments against the command's declared
// parameters. Built-in commands declare none and accept everything:
// positional tokens become arg0..argN and named arguments pass through
// verbatim.
func (e *Executor) mapArgs(cmd *Command, inv *Invocation) (map[string]string, error) {
	if cmd.Source == SourceBuiltin && len(cmd.Meta.Args) == 0 {
		args := make(map[string]string, len(inv.Args)+len(inv.RawArgs))
		for k, v := range inv.Args {
			args[k] = v
		}
		for i, v := range inv.RawArgs {
			args[fmt.Sprintf("arg%d", i)] = v
		}
		return args, nil
	}
	return MapArguments(inv, cmd.Meta.Args)
}

// buildCommandContext combines mapped arguments with the execution
// context's diff, files, env, and conversation data.
func buildCommandContext(args map[string]string, ec *ExecutionContext) *CommandContext {
	return &CommandContext{
		Args:          args,
		GitDiff:       ec.GitDiff,
		Files:         ec.Files,
		WorkspaceRoot: ec.WorkspaceRoot,
		Env:           ec.Env,
		Conversation:  ec.Conversation,
	}
}

// gitContext converts execution context git state for the agent layer.
func gitContext(ec *ExecutionContext) *agent.GitContext {
	if ec.GitDiff == "" && ec.Branch == "" && len(ec.ChangedFiles) == 0 {
		return nil
	}
	return &agent.GitContext{
		Diff:         ec.GitDiff,
		Branch:       ec.Branch,
		ChangedFiles: ec.ChangedFiles,
	}
}

// extractPaths heuristically picks file path candidates out of mapped
// argument values: anything containing a path separator or a dot.
func extractPaths(args map[string]string) []string {
	var paths []string
	for _, value := range args {
		if strings.ContainsAny(value, "/.") {
			paths = append(paths, value)
		}
	}
	sort.Strings(paths)
	return paths
}
