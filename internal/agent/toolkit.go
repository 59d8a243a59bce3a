package agent

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/tern-ai/tern/internal/event"
	"github.com/tern-ai/tern/internal/logging"
)

// CommandOutput is the result of a shell invocation through the toolkit.
type CommandOutput struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
}

// Toolkit is the permission-checked I/O and execution surface handed to
// an agent during execution. Every operation validates against the
// agent's permissions before producing any side effect.
type Toolkit struct {
	agentID string
	perms   Permissions
	root    string
}

// NewToolkit creates a toolkit bound to an agent's permissions and a
// workspace root.
func NewToolkit(agentID string, perms Permissions, workspaceRoot string) *Toolkit {
	return &Toolkit{
		agentID: agentID,
		perms:   perms,
		root:    workspaceRoot,
	}
}

// AgentID returns the owning agent's ID.
func (t *Toolkit) AgentID() string {
	return t.agentID
}

// WorkspaceRoot returns the workspace root directory.
func (t *Toolkit) WorkspaceRoot() string {
	return t.root
}

// ReadFile reads a file after validating read permission.
func (t *Toolkit) ReadFile(ctx context.Context, path string) (string, error) {
	abs := t.resolve(path)
	if !t.perms.CanReadFile(t.permPath(abs)) {
		return "", t.denied("read", path)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile writes a file after validating write permission.
// The change is published as a FileEdited event carrying a patch of
// the edit.
func (t *Toolkit) WriteFile(ctx context.Context, path string, content string) error {
	abs := t.resolve(path)
	if !t.perms.CanWriteFile(t.permPath(abs)) {
		return t.denied("write", path)
	}

	old, _ := os.ReadFile(abs)

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		return err
	}

	dmp := diffmatchpatch.New()
	patches := dmp.PatchMake(string(old), content)

	event.Publish(event.New(event.FileEdited, event.FileEditedData{
		Path: path,
		Diff: dmp.PatchToText(patches),
	}))
	return nil
}

// ExecCommand runs a shell command after validating shell permission
// and, when an allowed-tools list is configured, every program the
// command line invokes.
func (t *Toolkit) ExecCommand(ctx context.Context, command string) (*CommandOutput, error) {
	if !t.perms.ShellExecution {
		return nil, t.denied("execute", command)
	}

	if len(t.perms.AllowedTools) > 0 {
		parsed, err := ParseShellCommands(command)
		if err != nil {
			return nil, err
		}
		for _, cmd := range parsed {
			if !t.perms.ToolAllowed(cmd.Name) {
				return nil, t.denied("execute", cmd.Name)
			}
		}
	}

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	cmd.Dir = t.root

	stdout, err := cmd.Output()
	output := &CommandOutput{Stdout: string(stdout)}
	if exitErr, ok := err.(*exec.ExitError); ok {
		output.Stderr = string(exitErr.Stderr)
		output.ExitCode = exitErr.ExitCode()
		return output, nil
	}
	if err != nil {
		return nil, err
	}
	return output, nil
}

// resolve makes a path absolute relative to the workspace root.
func (t *Toolkit) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(t.root, path)
}

// permPath is the form a path takes for permission matching: cleaned
// and workspace-relative, so spellings like "./src/x.go" or
// "tmp/../src/x.go" match the same patterns as "src/x.go". A path
// outside the workspace stays absolute and so never matches a
// workspace-relative allow pattern.
func (t *Toolkit) permPath(abs string) string {
	rel, err := filepath.Rel(t.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return rel
}

func (t *Toolkit) denied(operation, target string) error {
	logging.Warn().
		Str("agent", t.agentID).
		Str("operation", operation).
		Str("target", target).
		Msg("toolkit operation denied")

	event.Publish(event.New(event.PermissionDenied, event.PermissionDeniedData{
		Agent:     t.agentID,
		Operation: operation,
		Target:    target,
	}))

	return &DeniedError{Agent: t.agentID, Operation: operation, Target: target}
}
